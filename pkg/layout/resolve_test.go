package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/framehost/pkg/widget"
)

func newFrame(r *widget.Registry, w, h float64) widget.ID {
	f := widget.NewFrame(widget.TypeFrame, "")
	f.Width, f.Height = w, h
	return r.Register(f)
}

func TestWidthFromParentRelativeAnchors(t *testing.T) {
	r := widget.NewRegistry()
	a := newFrame(r, 100, 50)
	b := r.Register(widget.NewFrame(widget.TypeFrame, "Child"))
	require.True(t, r.SetParent(b, a))

	require.True(t, r.SetPoint(b, widget.Anchor{Point: widget.PointLeft, RelativePoint: widget.PointLeft, X: 10}))
	require.True(t, r.SetPoint(b, widget.Anchor{Point: widget.PointRight, RelativePoint: widget.PointRight, X: -10}))

	assert.Equal(t, 80.0, CalculateWidth(r, b))
	assert.Equal(t, 0.0, CalculateHeight(r, b), "no vertical pair: explicit height")
}

func TestWidthFromExplicitRelative(t *testing.T) {
	r := widget.NewRegistry()
	a := newFrame(r, 200, 0)
	b := newFrame(r, 0, 0)

	r.SetPoint(b, widget.Anchor{Point: widget.PointTopLeft, RelativeTo: a, RelativePoint: widget.PointTopLeft, X: 5})
	r.SetPoint(b, widget.Anchor{Point: widget.PointBottomRight, RelativeTo: a, RelativePoint: widget.PointBottomRight, X: -5})

	assert.Equal(t, 190.0, CalculateWidth(r, b))
}

func TestWidthRecursesThroughChain(t *testing.T) {
	r := widget.NewRegistry()
	root := newFrame(r, 300, 300)
	mid := newFrame(r, 0, 0)
	leaf := newFrame(r, 0, 0)
	r.SetParent(mid, root)
	r.SetParent(leaf, mid)

	r.SetAllPoints(mid, root)
	r.SetPoint(leaf, widget.Anchor{Point: widget.PointLeft, X: 20})
	r.SetPoint(leaf, widget.Anchor{Point: widget.PointRight, X: -20})

	assert.Equal(t, 300.0, CalculateWidth(r, mid))
	assert.Equal(t, 260.0, CalculateWidth(r, leaf))
}

func TestWidthClampsAtZero(t *testing.T) {
	r := widget.NewRegistry()
	a := newFrame(r, 10, 0)
	b := newFrame(r, 0, 0)
	r.SetPoint(b, widget.Anchor{Point: widget.PointLeft, RelativeTo: a, X: 50})
	r.SetPoint(b, widget.Anchor{Point: widget.PointRight, RelativeTo: a, X: -50})

	assert.Equal(t, 0.0, CalculateWidth(r, b))
}

func TestWidthFallsBackToExplicit(t *testing.T) {
	r := widget.NewRegistry()
	a := newFrame(r, 100, 0)
	c := newFrame(r, 40, 0)
	b := newFrame(r, 25, 0)

	// Different relative frames.
	r.SetPoint(b, widget.Anchor{Point: widget.PointLeft, RelativeTo: a})
	r.SetPoint(b, widget.Anchor{Point: widget.PointRight, RelativeTo: c})
	assert.Equal(t, 25.0, CalculateWidth(r, b))

	// Only one edge.
	r.ClearAllPoints(b)
	r.SetPoint(b, widget.Anchor{Point: widget.PointTopLeft, RelativeTo: a})
	assert.Equal(t, 25.0, CalculateWidth(r, b))

	// No parent to fall back to.
	d := newFrame(r, 33, 0)
	r.SetPoint(d, widget.Anchor{Point: widget.PointLeft})
	r.SetPoint(d, widget.Anchor{Point: widget.PointRight})
	assert.Equal(t, 33.0, CalculateWidth(r, d))

	assert.Equal(t, 0.0, CalculateWidth(r, 999))
	assert.Equal(t, 0.0, CalculateHeight(r, 999))
}

func TestWidthUsesFirstAnchorOfEachEdge(t *testing.T) {
	r := widget.NewRegistry()
	a := newFrame(r, 100, 0)
	b := newFrame(r, 0, 0)
	r.SetPoint(b, widget.Anchor{Point: widget.PointTopLeft, RelativeTo: a, X: 10})
	r.SetPoint(b, widget.Anchor{Point: widget.PointBottomLeft, RelativeTo: a, X: 30})
	r.SetPoint(b, widget.Anchor{Point: widget.PointTopRight, RelativeTo: a})

	assert.Equal(t, 90.0, CalculateWidth(r, b))
}

func TestWidthOfZeroWidthRelative(t *testing.T) {
	r := widget.NewRegistry()
	a := newFrame(r, 0, 0)
	b := newFrame(r, 0, 0)
	r.SetPoint(b, widget.Anchor{Point: widget.PointLeft, RelativeTo: a, X: -5})
	r.SetPoint(b, widget.Anchor{Point: widget.PointRight, RelativeTo: a, X: 5})

	assert.Equal(t, 10.0, CalculateWidth(r, b))
}

func TestHeightUsesYUpOffsets(t *testing.T) {
	r := widget.NewRegistry()
	a := newFrame(r, 0, 200)
	b := newFrame(r, 0, 0)
	r.SetParent(b, a)

	// Inset by 10 from the top and 20 from the bottom.
	r.SetPoint(b, widget.Anchor{Point: widget.PointTopLeft, RelativePoint: widget.PointTopLeft, Y: -10})
	r.SetPoint(b, widget.Anchor{Point: widget.PointBottomRight, RelativePoint: widget.PointBottomRight, Y: 20})

	assert.Equal(t, 170.0, CalculateHeight(r, b))
	assert.Equal(t, Size{Width: 0, Height: 170}, CalculateSize(r, b))
}

func TestResolverTerminatesOnRegistryGraphs(t *testing.T) {
	r := widget.NewRegistry()
	ids := make([]widget.ID, 0, 20)
	prev := newFrame(r, 500, 500)
	ids = append(ids, prev)
	for i := 0; i < 19; i++ {
		id := newFrame(r, 0, 0)
		r.SetAllPoints(id, prev)
		// Attempt to close the loop; the registry must refuse.
		assert.False(t, r.SetPoint(ids[0], widget.Anchor{Point: widget.PointCenter, RelativeTo: id}))
		ids = append(ids, id)
		prev = id
	}
	for _, id := range ids {
		assert.Equal(t, 500.0, CalculateWidth(r, id))
		assert.Equal(t, 500.0, CalculateHeight(r, id))
	}
}
