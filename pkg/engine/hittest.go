package engine

import (
	"github.com/go-drift/framehost/pkg/layout"
	"github.com/go-drift/framehost/pkg/script"
	"github.com/go-drift/framehost/pkg/widget"
)

// HitTest returns the topmost visible, mouse-enabled frame containing the
// screen point (x, y). Higher strata win, then higher level, then the
// later-created frame.
func (e *Engine) HitTest(x, y float64) (widget.ID, bool) {
	pos := layout.Offset{X: x, Y: y}
	var best *widget.Frame
	for i := 1; i <= e.registry.Len(); i++ {
		f, ok := e.registry.Get(widget.ID(i))
		if !ok || !f.MouseEnabled || !e.registry.IsVisible(f.ID) {
			continue
		}
		if !e.Rect(f.ID).Contains(pos) {
			continue
		}
		if best == nil || above(f, best) {
			best = f
		}
	}
	if best == nil {
		return widget.NoID, false
	}
	return best.ID, true
}

func above(a, b *widget.Frame) bool {
	if a.Strata != b.Strata {
		return a.Strata > b.Strata
	}
	if a.Level != b.Level {
		return a.Level > b.Level
	}
	return a.ID > b.ID
}

// Click simulates a mouse click at (x, y) on the topmost frame: mouse
// down, mouse up, then the PreClick, OnClick and PostClick handlers.
// It returns the clicked frame.
func (e *Engine) Click(x, y float64, button string) (widget.ID, bool) {
	id, ok := e.HitTest(x, y)
	if !ok {
		return widget.NoID, false
	}
	e.ClickFrame(id, button)
	return id, true
}

// ClickFrame runs the click handler sequence on a frame directly.
func (e *Engine) ClickFrame(id widget.ID, button string) {
	if button == "" {
		button = "LeftButton"
	}
	ctx := e.Context()
	btn := widget.String(button)
	down := widget.Bool(false)
	script.Run(ctx, id, script.OnMouseDown, btn)
	script.Run(ctx, id, script.OnMouseUp, btn)
	script.Run(ctx, id, script.PreClick, btn, down)
	script.Run(ctx, id, script.OnClick, btn, down)
	script.Run(ctx, id, script.PostClick, btn, down)
}
