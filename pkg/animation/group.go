package animation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/framehost/pkg/widget"
)

// LoopType controls what a group does when it reaches its duration.
type LoopType int

const (
	// LoopNone finishes the group.
	LoopNone LoopType = iota
	// LoopRepeat restarts from the beginning.
	LoopRepeat
	// LoopBounce restarts in the opposite direction.
	LoopBounce
)

// ParseLoopType maps "NONE", "REPEAT" or "BOUNCE" to a LoopType, ignoring
// case. Unknown names yield LoopNone.
func ParseLoopType(s string) LoopType {
	switch strings.ToUpper(s) {
	case "REPEAT":
		return LoopRepeat
	case "BOUNCE":
		return LoopBounce
	default:
		return LoopNone
	}
}

func (l LoopType) String() string {
	switch l {
	case LoopNone:
		return "NONE"
	case LoopRepeat:
		return "REPEAT"
	case LoopBounce:
		return "BOUNCE"
	default:
		return fmt.Sprintf("LoopType(%d)", int(l))
	}
}

// Event is a group script handler kind.
type Event uint8

const (
	OnPlay Event = iota
	OnPause
	OnStop
	OnFinished
	OnLoop
	OnUpdate

	eventCount
)

var eventNames = [...]string{
	OnPlay:     "OnPlay",
	OnPause:    "OnPause",
	OnStop:     "OnStop",
	OnFinished: "OnFinished",
	OnLoop:     "OnLoop",
	OnUpdate:   "OnUpdate",
}

// ParseEvent looks up a group handler by its script name.
func ParseEvent(name string) (Event, bool) {
	for e, n := range eventNames {
		if n == name {
			return Event(e), true
		}
	}
	return 0, false
}

func (e Event) String() string {
	if e < eventCount {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Script is a group callback. Implementations report failure by returning
// an error; the host decides how failures are surfaced.
type Script interface {
	Invoke(g *Group, args []widget.Value) error
}

// ScriptFunc adapts a plain function to Script.
type ScriptFunc func(g *Group, args []widget.Value) error

// Invoke calls f.
func (f ScriptFunc) Invoke(g *Group, args []widget.Value) error { return f(g, args) }

// Change is an alpha value computed for one target of a group.
type Change struct {
	// ChildKey is empty for the owner frame.
	ChildKey string
	Alpha    float64
}

// Step is the outcome of advancing a group once.
type Step struct {
	Changes []Change

	// Finished is set when a non-looping group reached its duration.
	Finished bool

	// Looped is set when a looping group wrapped around.
	Looped bool
}

// Group is an ordered set of animations owned by one frame.
//
// A new group is neither playing nor done. Play starts it, or resumes it
// when paused; Stop and Finish end it. The host calls Advance once per
// step while the group is playing.
type Group struct {
	Name  string
	Owner widget.ID

	Looping LoopType

	// SpeedMultiplier scales elapsed time; defaults to 1.
	SpeedMultiplier float64

	// SetToFinalAlpha keeps animated alpha values when the group stops.
	SetToFinalAlpha bool

	animations []*Animation
	scripts    map[Event]Script

	playing  bool
	paused   bool
	finished bool
	reverse  bool
	elapsed  float64
	saved    map[widget.ID]float64
}

// NewGroup returns a stopped group owned by frame owner.
func NewGroup(owner widget.ID, name string) *Group {
	return &Group{
		Name:            name,
		Owner:           owner,
		SpeedMultiplier: 1,
	}
}

// CreateAnimation appends a new animation of type t.
func (g *Group) CreateAnimation(t Type, name string) *Animation {
	a := newAnimation(g, t, name)
	g.animations = append(g.animations, a)
	return a
}

// Animations returns the animations in creation order.
func (g *Group) Animations() []*Animation {
	return slices.Clone(g.animations)
}

// RemoveAnimations drops every animation.
func (g *Group) RemoveAnimations() {
	g.animations = nil
}

// AlphaTargets returns the distinct child keys written by Alpha
// animations, in first-seen order. The empty key is the owner.
func (g *Group) AlphaTargets() []string {
	var keys []string
	for _, a := range g.animations {
		if a.Type == TypeAlpha && !slices.Contains(keys, a.ChildKey) {
			keys = append(keys, a.ChildKey)
		}
	}
	return keys
}

func (g *Group) orders() []int {
	orders := make([]int, 0, len(g.animations))
	for _, a := range g.animations {
		orders = append(orders, a.Order)
	}
	slices.Sort(orders)
	return slices.Compact(orders)
}

func (g *Group) orderDuration(order int) float64 {
	d := 0.0
	for _, a := range g.animations {
		if a.Order == order {
			d = max(d, a.TotalTime())
		}
	}
	return d
}

// Duration returns the group's length: the sum over orders of the longest
// animation in each order.
func (g *Group) Duration() float64 {
	total := 0.0
	for _, o := range g.orders() {
		total += g.orderDuration(o)
	}
	return total
}

// Elapsed returns the scaled time since Play within the current loop.
func (g *Group) Elapsed() float64 { return g.elapsed }

// Progress returns Elapsed over Duration in [0, 1], or 0 for an empty group.
func (g *Group) Progress() float64 {
	d := g.Duration()
	if d <= 0 {
		return 0
	}
	return clampUnit(g.elapsed / d)
}

func (g *Group) IsPlaying() bool { return g.playing }
func (g *Group) IsPaused() bool  { return g.paused }
func (g *Group) IsReverse() bool { return g.reverse }

// IsDone reports whether the group was stopped or ran to completion.
func (g *Group) IsDone() bool { return g.finished }

// Play starts the group from the beginning and records saved as the alpha
// values to restore on Stop. A paused group resumes instead and saved is
// ignored. Play reports whether it resumed.
func (g *Group) Play(reverse bool, saved map[widget.ID]float64) bool {
	if g.paused {
		g.paused = false
		g.playing = true
		return true
	}
	g.playing = true
	g.finished = false
	g.reverse = reverse
	g.elapsed = 0
	g.saved = saved
	for _, a := range g.animations {
		a.elapsed = 0
	}
	return false
}

// Pause suspends a playing group and reports whether it was playing.
func (g *Group) Pause() bool {
	if !g.playing {
		return false
	}
	g.playing = false
	g.paused = true
	return true
}

// Stop ends the group and returns the alpha values to restore, which is
// nil when SetToFinalAlpha is set.
func (g *Group) Stop() map[widget.ID]float64 {
	g.playing = false
	g.paused = false
	g.finished = true
	saved := g.saved
	g.saved = nil
	if g.SetToFinalAlpha {
		return nil
	}
	return saved
}

// Finish jumps to the end of the group and returns the final alpha values.
func (g *Group) Finish() []Change {
	g.playing = false
	g.paused = false
	g.finished = true
	g.saved = nil
	g.elapsed = g.Duration()
	return g.apply()
}

// Advance moves a playing group forward by elapsed seconds, scaled by
// SpeedMultiplier. It returns the zero Step when the group is not playing.
func (g *Group) Advance(elapsed float64) Step {
	if !g.playing {
		return Step{}
	}
	g.elapsed += elapsed * g.SpeedMultiplier
	st := Step{Changes: g.apply()}

	total := g.Duration()
	if g.elapsed < total {
		return st
	}
	switch g.Looping {
	case LoopNone:
		g.playing = false
		g.finished = true
		g.saved = nil
		st.Finished = true
	case LoopBounce:
		g.reverse = !g.reverse
		fallthrough
	case LoopRepeat:
		g.elapsed -= total
		for _, a := range g.animations {
			a.elapsed = 0
		}
		st.Looped = true
	}
	return st
}

// apply distributes the group's elapsed time over its orders and returns
// the alpha for each target. Within and across orders the last started
// Alpha animation for a target wins; orders that have not begun write
// nothing.
func (g *Group) apply() []Change {
	var out []Change
	start := 0.0
	for _, order := range g.orders() {
		dur := g.orderDuration(order)
		in := min(max(g.elapsed-start, 0), dur)
		begun := g.elapsed >= start
		for _, a := range g.animations {
			if a.Order != order {
				continue
			}
			a.elapsed = min(in, a.TotalTime())
			if begun && a.Type == TypeAlpha {
				out = setChange(out, Change{ChildKey: a.ChildKey, Alpha: a.Alpha(g.reverse)})
			}
		}
		start += dur
	}
	return out
}

func setChange(changes []Change, c Change) []Change {
	for i := range changes {
		if changes[i].ChildKey == c.ChildKey {
			changes[i] = c
			return changes
		}
	}
	return append(changes, c)
}

// SetScript replaces the callback for e; nil removes it.
func (g *Group) SetScript(e Event, s Script) {
	if s == nil {
		delete(g.scripts, e)
		return
	}
	if g.scripts == nil {
		g.scripts = make(map[Event]Script)
	}
	g.scripts[e] = s
}

// Script returns the callback for e.
func (g *Group) Script(e Event) (Script, bool) {
	s, ok := g.scripts[e]
	return s, ok
}
