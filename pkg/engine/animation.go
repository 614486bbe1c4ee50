package engine

import (
	"log/slog"
	"slices"

	"github.com/go-drift/framehost/pkg/animation"
	"github.com/go-drift/framehost/pkg/errors"
	"github.com/go-drift/framehost/pkg/widget"
)

// SetAlpha sets a frame's own alpha, clamped to [0, 1].
func (e *Engine) SetAlpha(id widget.ID, alpha float64) bool {
	f, ok := e.registry.Get(id)
	if !ok {
		return false
	}
	f.Alpha = min(max(alpha, 0), 1)
	return true
}

// Alpha returns a frame's own alpha, or 0 for an unknown frame.
func (e *Engine) Alpha(id widget.ID) float64 {
	if f, ok := e.registry.Get(id); ok {
		return f.Alpha
	}
	return 0
}

// CreateAnimationGroup creates a stopped group owned by frame owner. The
// name may contain $parent, replaced by the owner's name.
func (e *Engine) CreateAnimationGroup(owner widget.ID, name string) (*animation.Group, bool) {
	f, ok := e.registry.Get(owner)
	if !ok {
		return nil, false
	}
	g := animation.NewGroup(owner, e.expandName(name, owner))
	e.animations = append(e.animations, g)
	e.logger.Debug("animation group created",
		slog.String("frame", f.Name), slog.String("name", g.Name))
	return g, true
}

// AnimationGroups returns the groups owned by a frame in creation order.
func (e *Engine) AnimationGroups(owner widget.ID) []*animation.Group {
	var out []*animation.Group
	for _, g := range e.animations {
		if g.Owner == owner {
			out = append(out, g)
		}
	}
	return out
}

// PlayAnimation starts g, or resumes it when paused, and runs OnPlay. A
// fresh start records the current alpha of every target so StopAnimation
// can restore it.
func (e *Engine) PlayAnimation(g *animation.Group, reverse bool) {
	var saved map[widget.ID]float64
	if !g.IsPaused() {
		saved = make(map[widget.ID]float64)
		for _, key := range g.AlphaTargets() {
			if id, ok := e.animationTarget(g, key); ok {
				saved[id] = e.Alpha(id)
			}
		}
	}
	g.Play(reverse, saved)
	e.runAnimationScript(g, animation.OnPlay)
	e.animationsChanged()
}

// PauseAnimation pauses a playing group and runs OnPause.
func (e *Engine) PauseAnimation(g *animation.Group) {
	if g.Pause() {
		e.runAnimationScript(g, animation.OnPause)
	}
	e.animationsChanged()
}

// StopAnimation stops g, restores the alpha saved by PlayAnimation unless
// the group keeps its final alpha, and runs OnStop if g was active.
func (e *Engine) StopAnimation(g *animation.Group) {
	active := g.IsPlaying() || g.IsPaused()
	for id, alpha := range g.Stop() {
		e.SetAlpha(id, alpha)
	}
	if active {
		e.runAnimationScript(g, animation.OnStop, widget.Bool(true))
	}
	e.animationsChanged()
}

// FinishAnimation jumps g to its end, applies the final alpha values and
// runs OnFinished with requested set.
func (e *Engine) FinishAnimation(g *animation.Group) {
	e.applyAnimation(g, g.Finish())
	e.runAnimationScript(g, animation.OnFinished, widget.Bool(true))
	e.animationsChanged()
}

// Animate advances every playing group by elapsed seconds, in creation
// order, and returns the number advanced. Per group it applies alpha, then
// runs OnFinished or OnLoop, then OnUpdate unless the group just finished.
func (e *Engine) Animate(elapsed float64) int {
	n := 0
	// Callbacks may create groups; those start advancing next step.
	for _, g := range slices.Clone(e.animations) {
		if !g.IsPlaying() {
			continue
		}
		st := g.Advance(elapsed)
		e.applyAnimation(g, st.Changes)
		n++
		switch {
		case st.Finished:
			e.runAnimationScript(g, animation.OnFinished, widget.Bool(false))
		case st.Looped:
			state := "FORWARD"
			if g.IsReverse() {
				state = "REVERSE"
			}
			e.runAnimationScript(g, animation.OnLoop, widget.String(state))
		}
		if g.IsPlaying() || !st.Finished {
			e.runAnimationScript(g, animation.OnUpdate, widget.Number(elapsed))
		}
	}
	e.animationsChanged()
	return n
}

func (e *Engine) applyAnimation(g *animation.Group, changes []animation.Change) {
	for _, c := range changes {
		if id, ok := e.animationTarget(g, c.ChildKey); ok {
			e.SetAlpha(id, c.Alpha)
		}
	}
}

// animationTarget resolves a child key against the group's owner.
func (e *Engine) animationTarget(g *animation.Group, key string) (widget.ID, bool) {
	f, ok := e.registry.Get(g.Owner)
	if !ok {
		return widget.NoID, false
	}
	if key == "" {
		return f.ID, true
	}
	id, ok := f.ChildKeys[key]
	return id, ok && e.registry.Has(id)
}

func (e *Engine) runAnimationScript(g *animation.Group, ev animation.Event, args ...widget.Value) bool {
	s, ok := g.Script(ev)
	if !ok {
		return true
	}
	return errors.Call(e.errors, "animation."+ev.String(), errors.KindScript, e.animationLabel(g), func() error {
		return s.Invoke(g, args)
	})
}

func (e *Engine) animationLabel(g *animation.Group) string {
	if g.Name != "" {
		return g.Name
	}
	if f, ok := e.registry.Get(g.Owner); ok && f.Name != "" {
		return f.Name + ":AnimationGroup"
	}
	return "AnimationGroup"
}

// AnimationsPlaying returns the number of playing animation groups.
func (e *Engine) AnimationsPlaying() int {
	n := 0
	for _, g := range e.animations {
		if g.IsPlaying() {
			n++
		}
	}
	return n
}

func (e *Engine) animationsChanged() {
	if e.metrics != nil {
		e.metrics.AnimationsPlaying(e.AnimationsPlaying())
	}
}
