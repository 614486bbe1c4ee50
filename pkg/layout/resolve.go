// Package layout derives frame sizes and screen rectangles from anchors.
//
// Sizes are resolved one axis at a time: a frame pinned on two opposing
// edges to the same relative frame takes its size from that frame, otherwise
// it keeps its explicit size. The resolver trusts the registry's acyclic
// anchor graph and does no cycle detection of its own.
package layout

import (
	"math"

	"github.com/go-drift/framehost/pkg/widget"
)

var (
	leftPoints   = []widget.AnchorPoint{widget.PointTopLeft, widget.PointLeft, widget.PointBottomLeft}
	rightPoints  = []widget.AnchorPoint{widget.PointTopRight, widget.PointRight, widget.PointBottomRight}
	topPoints    = []widget.AnchorPoint{widget.PointTopLeft, widget.PointTop, widget.PointTopRight}
	bottomPoints = []widget.AnchorPoint{widget.PointBottomLeft, widget.PointBottom, widget.PointBottomRight}
)

// CalculateWidth returns the effective width of a frame. A missing frame
// has width 0.
func CalculateWidth(r *widget.Registry, id widget.ID) float64 {
	f, ok := r.Get(id)
	if !ok {
		return 0
	}
	left, hasLeft := firstAnchor(f, leftPoints)
	right, hasRight := firstAnchor(f, rightPoints)
	if !hasLeft || !hasRight || left.RelativeTo != right.RelativeTo {
		return f.Width
	}
	rel, ok := relativeFrame(r, f, left.RelativeTo)
	if !ok {
		return f.Width
	}
	return math.Max(0, CalculateWidth(r, rel)-left.X+right.X)
}

// CalculateHeight returns the effective height of a frame. Offsets are y-up,
// so the bottom anchor is the near edge and the top anchor the far edge.
func CalculateHeight(r *widget.Registry, id widget.ID) float64 {
	f, ok := r.Get(id)
	if !ok {
		return 0
	}
	top, hasTop := firstAnchor(f, topPoints)
	bottom, hasBottom := firstAnchor(f, bottomPoints)
	if !hasTop || !hasBottom || top.RelativeTo != bottom.RelativeTo {
		return f.Height
	}
	rel, ok := relativeFrame(r, f, top.RelativeTo)
	if !ok {
		return f.Height
	}
	return math.Max(0, CalculateHeight(r, rel)-bottom.Y+top.Y)
}

// CalculateSize resolves both axes.
func CalculateSize(r *widget.Registry, id widget.ID) Size {
	return Size{Width: CalculateWidth(r, id), Height: CalculateHeight(r, id)}
}

// firstAnchor returns the frame's first anchor, in assignment order, whose
// point is one of points.
func firstAnchor(f *widget.Frame, points []widget.AnchorPoint) (widget.Anchor, bool) {
	for _, a := range f.Anchors {
		for _, p := range points {
			if a.Point == p {
				return a, true
			}
		}
	}
	return widget.Anchor{}, false
}

// relativeFrame resolves an anchor target, falling back to the parent.
func relativeFrame(r *widget.Registry, f *widget.Frame, rel widget.ID) (widget.ID, bool) {
	if rel == widget.NoID {
		rel = f.Parent
	}
	if rel == widget.NoID || !r.Has(rel) {
		return widget.NoID, false
	}
	return rel, true
}
