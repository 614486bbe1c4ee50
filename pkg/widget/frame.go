package widget

import "sort"

// DefaultFontSize is the size a FontString reports before SetFont is called.
const DefaultFontSize = 12

// Frame is a node in the UI object tree.
//
// Frames are owned by a [Registry]; cross references (parent, children,
// anchors) are IDs, never pointers. A *Frame obtained from the registry may
// be mutated in place, but callers should re-fetch it after any structural
// registry call rather than hold on to it.
type Frame struct {
	ID   ID
	Name string
	Type WidgetType

	// Parent is a weak back-reference; NoID for roots.
	Parent   ID
	Children []ID
	// ChildKeys maps symbolic names such as "Text" to child frames.
	ChildKeys map[string]ID

	// Anchors holds at most one anchor per point, in assignment order.
	Anchors []Anchor
	// Width and Height are the explicit size; 0 means derive from anchors.
	Width, Height float64

	Strata      FrameStrata
	Level       int
	FixedStrata bool
	FixedLevel  bool

	Visible         bool
	MouseEnabled    bool
	Movable         bool
	Resizable       bool
	ClampedToScreen bool

	// Alpha is the frame's own opacity in [0, 1]; NewFrame sets 1.
	Alpha float64

	Attributes map[string]Value

	// Text and FontSize are only meaningful for text-bearing widgets.
	Text     string
	FontSize float64

	events      map[string]struct{}
	registerAll bool
}

// NewFrame returns an unregistered, visible frame of the given type.
func NewFrame(t WidgetType, name string) *Frame {
	return &Frame{
		Type:     t,
		Name:     name,
		Visible:  true,
		Alpha:    1,
		Strata:   StrataMedium,
		FontSize: DefaultFontSize,
	}
}

// AnchorFor returns the anchor set on point p, if any.
func (f *Frame) AnchorFor(p AnchorPoint) (Anchor, bool) {
	for _, a := range f.Anchors {
		if a.Point == p {
			return a, true
		}
	}
	return Anchor{}, false
}

// setAnchor replaces the anchor on the same point or appends a new one.
func (f *Frame) setAnchor(a Anchor) {
	for i := range f.Anchors {
		if f.Anchors[i].Point == a.Point {
			f.Anchors[i] = a
			return
		}
	}
	f.Anchors = append(f.Anchors, a)
}

// Attribute returns a stored attribute or the nil value.
func (f *Frame) Attribute(key string) Value {
	return f.Attributes[key]
}

// SetAttribute stores v under key; a nil value deletes the key.
// It reports whether the stored value changed.
func (f *Frame) SetAttribute(key string, v Value) bool {
	old, had := f.Attributes[key]
	if v.IsNil() {
		if !had {
			return false
		}
		delete(f.Attributes, key)
		return true
	}
	if had && old.Equal(v) {
		return false
	}
	if f.Attributes == nil {
		f.Attributes = make(map[string]Value)
	}
	f.Attributes[key] = v
	return true
}

// IsRegisteredForEvent reports whether the frame listens to event.
func (f *Frame) IsRegisteredForEvent(event string) bool {
	if f.registerAll {
		return true
	}
	_, ok := f.events[event]
	return ok
}

// RegisteredEvents returns the explicitly registered event names, sorted.
func (f *Frame) RegisteredEvents() []string {
	out := make([]string, 0, len(f.events))
	for e := range f.events {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// ListensToAll reports whether RegisterAllEvents is in effect.
func (f *Frame) ListensToAll() bool {
	return f.registerAll
}

func (f *Frame) hasChild(id ID) bool {
	for _, c := range f.Children {
		if c == id {
			return true
		}
	}
	return false
}

func (f *Frame) removeChild(id ID) {
	for i, c := range f.Children {
		if c == id {
			f.Children = append(f.Children[:i], f.Children[i+1:]...)
			return
		}
	}
}

// hasParentRelativeAnchor reports whether any anchor falls back to the parent.
func (f *Frame) hasParentRelativeAnchor() bool {
	for _, a := range f.Anchors {
		if a.RelativeTo == NoID {
			return true
		}
	}
	return false
}
