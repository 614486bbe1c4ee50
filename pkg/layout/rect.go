package layout

import "github.com/go-drift/framehost/pkg/widget"

// AnchorPosition returns the screen position of point p on rect.
func AnchorPosition(rect Rect, p widget.AnchorPoint) Offset {
	c := rect.Center()
	switch p {
	case widget.PointTopLeft:
		return Offset{X: rect.Left, Y: rect.Top}
	case widget.PointTop:
		return Offset{X: c.X, Y: rect.Top}
	case widget.PointTopRight:
		return Offset{X: rect.Right, Y: rect.Top}
	case widget.PointLeft:
		return Offset{X: rect.Left, Y: c.Y}
	case widget.PointRight:
		return Offset{X: rect.Right, Y: c.Y}
	case widget.PointBottomLeft:
		return Offset{X: rect.Left, Y: rect.Bottom}
	case widget.PointBottom:
		return Offset{X: c.X, Y: rect.Bottom}
	case widget.PointBottomRight:
		return Offset{X: rect.Right, Y: rect.Bottom}
	default:
		return c
	}
}

// FramePositionFromAnchor returns the top-left corner of a frame of the
// given size whose point p sits at target.
func FramePositionFromAnchor(p widget.AnchorPoint, target Offset, size Size) Offset {
	x, y := target.X, target.Y
	switch p {
	case widget.PointTop, widget.PointCenter, widget.PointBottom:
		x -= size.Width / 2
	case widget.PointTopRight, widget.PointRight, widget.PointBottomRight:
		x -= size.Width
	}
	switch p {
	case widget.PointLeft, widget.PointCenter, widget.PointRight:
		y -= size.Height / 2
	case widget.PointBottomLeft, widget.PointBottom, widget.PointBottomRight:
		y -= size.Height
	}
	return Offset{X: x, Y: y}
}

// ComputeRect places a frame on a screen of the given size.
//
// The frame is sized by CalculateWidth/CalculateHeight and positioned by its
// first anchor, relative to the anchor's target (its parent when none is
// named, the screen for roots). Anchor offsets are y-up and are flipped into
// screen space. A frame without anchors sits at its parent's top-left corner.
func ComputeRect(r *widget.Registry, id widget.ID, screen Size) Rect {
	return computeRect(r, id, RectFromLTWH(0, 0, screen.Width, screen.Height), map[widget.ID]bool{})
}

func computeRect(r *widget.Registry, id widget.ID, screen Rect, visiting map[widget.ID]bool) Rect {
	f, ok := r.Get(id)
	if !ok {
		return Rect{}
	}
	size := CalculateSize(r, id)
	if visiting[id] {
		// Anchors and parent links can disagree; stop at the screen.
		return RectFromLTWH(screen.Left, screen.Top, size.Width, size.Height)
	}
	visiting[id] = true
	defer delete(visiting, id)

	relRect := func(rel widget.ID) Rect {
		if rel == widget.NoID {
			rel = f.Parent
		}
		if rel == widget.NoID || !r.Has(rel) {
			return screen
		}
		return computeRect(r, rel, screen, visiting)
	}

	if len(f.Anchors) == 0 {
		base := relRect(widget.NoID)
		return RectFromLTWH(base.Left, base.Top, size.Width, size.Height)
	}
	a := f.Anchors[0]
	target := AnchorPosition(relRect(a.RelativeTo), a.RelativePoint)
	target.X += a.X
	target.Y -= a.Y
	pos := FramePositionFromAnchor(a.Point, target, size)
	return RectFromLTWH(pos.X, pos.Y, size.Width, size.Height)
}
