package testing

import (
	"fmt"

	"github.com/go-drift/framehost/pkg/widget"
)

// Tap clicks the center of the first frame matched by finder with the left
// button. The click goes through hit testing, so it fails if another frame
// covers the target or the target does not accept mouse input.
func (t *Tester) Tap(finder Finder) error {
	return t.Click(finder, "LeftButton")
}

// Click is Tap with an explicit mouse button.
func (t *Tester) Click(finder Finder, button string) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Tap: finder matched no frames: %s", finder.Description())
	}
	target := result.First()
	center := t.engine.Rect(target).Center()
	hit, ok := t.engine.Click(center.X, center.Y, button)
	if !ok {
		return fmt.Errorf("Tap: no mouse-enabled frame at (%g, %g): %s", center.X, center.Y, finder.Description())
	}
	if hit != target {
		return fmt.Errorf("Tap: %s is covered by %s", finder.Description(), t.frameName(hit))
	}
	return nil
}

// TapAt clicks the topmost mouse-enabled frame at the screen point (x, y)
// and returns it.
func (t *Tester) TapAt(x, y float64) (widget.ID, error) {
	hit, ok := t.engine.Click(x, y, "LeftButton")
	if !ok {
		return widget.NoID, fmt.Errorf("TapAt: no mouse-enabled frame at (%g, %g)", x, y)
	}
	return hit, nil
}

func (t *Tester) frameName(id widget.ID) string {
	f, ok := t.engine.Registry().Get(id)
	if !ok || f.Name == "" {
		return fmt.Sprintf("frame #%d", id)
	}
	return f.Name
}
