// Package widget defines frames, their value types and the registry that owns them.
package widget

import "sort"

// Registry owns every frame in an arena keyed by ID.
//
// Frames are never removed, so the arena is a slice indexed by ID-1 and
// lookups are O(1). Mutating calls that would break an invariant (an anchor
// or parent cycle, a reference to an unknown ID) are ignored and report
// false; nothing here panics on bad input.
//
// A Registry is not safe for concurrent use; the host drives it from a
// single goroutine.
type Registry struct {
	frames []*Frame
	names  map[string]ID

	// listeners records, per event, the sequence number at which each frame
	// registered so that dispatch order is registration order.
	listeners map[string]map[ID]uint64
	allEvents map[ID]uint64
	seq       uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names:     make(map[string]ID),
		listeners: make(map[string]map[ID]uint64),
		allEvents: make(map[ID]uint64),
	}
}

// Register inserts f, assigns its ID and returns it. A named frame takes
// over the name even if an earlier frame used it; the name index always
// maps a name to exactly one frame.
func (r *Registry) Register(f *Frame) ID {
	id := ID(len(r.frames) + 1)
	f.ID = id
	r.frames = append(r.frames, f)
	if f.Name != "" {
		r.names[f.Name] = id
	}
	for e := range f.events {
		r.trackListener(e, id)
	}
	return id
}

// Get returns the frame with the given ID.
func (r *Registry) Get(id ID) (*Frame, bool) {
	if id == NoID || uint64(id) > uint64(len(r.frames)) {
		return nil, false
	}
	return r.frames[id-1], true
}

// Has reports whether id names a registered frame.
func (r *Registry) Has(id ID) bool {
	_, ok := r.Get(id)
	return ok
}

// Len returns the number of registered frames.
func (r *Registry) Len() int {
	return len(r.frames)
}

// IDByName returns the ID registered under name.
func (r *Registry) IDByName(name string) (ID, bool) {
	id, ok := r.names[name]
	return id, ok
}

// ByName returns the frame registered under name.
func (r *Registry) ByName(name string) (*Frame, bool) {
	id, ok := r.names[name]
	if !ok {
		return nil, false
	}
	return r.Get(id)
}

// AddChild appends child to parent's children unless already present.
// It does not touch child.Parent; use SetParent for a full reparent.
func (r *Registry) AddChild(parent, child ID) {
	p, ok := r.Get(parent)
	if !ok || p.hasChild(child) {
		return
	}
	p.Children = append(p.Children, child)
}

// SetChildKey exposes child under key on parent (e.g. parent.Text).
func (r *Registry) SetChildKey(parent ID, key string, child ID) bool {
	p, ok := r.Get(parent)
	if !ok || !r.Has(child) {
		return false
	}
	if p.ChildKeys == nil {
		p.ChildKeys = make(map[string]ID)
	}
	p.ChildKeys[key] = child
	return true
}

// Roots returns the frames without a parent in ID order.
func (r *Registry) Roots() []ID {
	var out []ID
	for _, f := range r.frames {
		if f.Parent == NoID {
			out = append(out, f.ID)
		}
	}
	return out
}

// anchorTargets returns the frames f is positioned relative to. An anchor
// without an explicit target resolves against the parent.
func (r *Registry) anchorTargets(f *Frame) []ID {
	var out []ID
	for _, a := range f.Anchors {
		t := a.RelativeTo
		if t == NoID {
			t = f.Parent
		}
		if t != NoID {
			out = append(out, t)
		}
	}
	return out
}

// WouldCreateAnchorCycle reports whether positioning id relative to
// candidate would make id depend on itself. It walks the anchor graph
// breadth-first from candidate with a visited set, so it terminates even on
// an already malformed graph.
func (r *Registry) WouldCreateAnchorCycle(id, candidate ID) bool {
	if candidate == NoID {
		return false
	}
	if id == candidate {
		return true
	}
	seen := map[ID]bool{candidate: true}
	queue := []ID{candidate}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		f, ok := r.Get(cur)
		if !ok {
			continue
		}
		for _, t := range r.anchorTargets(f) {
			if t == id {
				return true
			}
			if !seen[t] {
				seen[t] = true
				queue = append(queue, t)
			}
		}
	}
	return false
}

// WouldCreateParentCycle reports whether making parent the parent of child
// would make child its own ancestor.
func (r *Registry) WouldCreateParentCycle(child, parent ID) bool {
	seen := make(map[ID]bool)
	for cur := parent; cur != NoID && !seen[cur]; {
		if cur == child {
			return true
		}
		seen[cur] = true
		f, ok := r.Get(cur)
		if !ok {
			return false
		}
		cur = f.Parent
	}
	return false
}

// SetPoint assigns a to frame id, replacing any anchor on the same point.
// The call is a no-op returning false when the frame or an explicit
// relative frame is unknown, or when the assignment would close an anchor
// cycle; the frame's anchors are then left untouched.
func (r *Registry) SetPoint(id ID, a Anchor) bool {
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	target := a.RelativeTo
	if target != NoID && !r.Has(target) {
		return false
	}
	if target == NoID {
		target = f.Parent
	}
	if r.WouldCreateAnchorCycle(id, target) {
		return false
	}
	f.setAnchor(a)
	return true
}

// SetAllPoints anchors the top-left and bottom-right corners of id to the
// same corners of rel (NoID for the parent).
func (r *Registry) SetAllPoints(id, rel ID) bool {
	if !r.SetPoint(id, Anchor{Point: PointTopLeft, RelativeTo: rel, RelativePoint: PointTopLeft}) {
		return false
	}
	return r.SetPoint(id, Anchor{Point: PointBottomRight, RelativeTo: rel, RelativePoint: PointBottomRight})
}

// ClearAllPoints removes every anchor from id.
func (r *Registry) ClearAllPoints(id ID) bool {
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	f.Anchors = nil
	return true
}

// ClearPoint removes the anchor on point p from id.
func (r *Registry) ClearPoint(id ID, p AnchorPoint) bool {
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	for i, a := range f.Anchors {
		if a.Point == p {
			f.Anchors = append(f.Anchors[:i], f.Anchors[i+1:]...)
			return true
		}
	}
	return false
}

// SetParent moves child under parent (NoID detaches it). The call is
// rejected when either frame is unknown, when child would become its own
// ancestor, or when child's parent-relative anchors would close an anchor
// cycle through the new parent.
//
// The child inherits the parent's strata and level+1 unless they are
// fixed, and the new values are pushed down to all descendants.
func (r *Registry) SetParent(child, parent ID) bool {
	c, ok := r.Get(child)
	if !ok {
		return false
	}
	var p *Frame
	if parent != NoID {
		if p, ok = r.Get(parent); !ok {
			return false
		}
		if r.WouldCreateParentCycle(child, parent) {
			return false
		}
		if c.hasParentRelativeAnchor() && r.WouldCreateAnchorCycle(child, parent) {
			return false
		}
	}

	if old, ok := r.Get(c.Parent); ok && c.Parent != parent {
		old.removeChild(child)
	}
	c.Parent = parent
	if p == nil {
		return true
	}
	if !c.FixedStrata {
		c.Strata = p.Strata
	}
	if !c.FixedLevel {
		c.Level = p.Level + 1
	}
	r.AddChild(parent, child)
	r.propagateStrataLevel(child)
	return true
}

// SetStrata sets the strata of id and pushes it to non-fixed descendants.
func (r *Registry) SetStrata(id ID, s FrameStrata) bool {
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	f.Strata = s
	r.propagateStrataLevel(id)
	return true
}

// SetLevel sets the level of id and renumbers non-fixed descendants.
func (r *Registry) SetLevel(id ID, level int) bool {
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	if level < 0 {
		level = 0
	}
	f.Level = level
	r.propagateStrataLevel(id)
	return true
}

// propagateStrataLevel walks the subtree below root breadth-first.
func (r *Registry) propagateStrataLevel(root ID) {
	seen := map[ID]bool{root: true}
	queue := []ID{root}
	for len(queue) > 0 {
		cur, _ := r.Get(queue[0])
		queue = queue[1:]
		if cur == nil {
			continue
		}
		for _, cid := range cur.Children {
			c, ok := r.Get(cid)
			if !ok || seen[cid] {
				continue
			}
			seen[cid] = true
			if !c.FixedStrata {
				c.Strata = cur.Strata
			}
			if !c.FixedLevel {
				c.Level = cur.Level + 1
			}
			queue = append(queue, cid)
		}
	}
}

// Depth returns the number of ancestors of id.
func (r *Registry) Depth(id ID) int {
	depth := 0
	seen := make(map[ID]bool)
	f, ok := r.Get(id)
	for ok && f.Parent != NoID && !seen[f.ID] {
		seen[f.ID] = true
		depth++
		f, ok = r.Get(f.Parent)
	}
	return depth
}

// IsVisible reports whether id and every ancestor are shown.
func (r *Registry) IsVisible(id ID) bool {
	seen := make(map[ID]bool)
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	for ok && !seen[f.ID] {
		if !f.Visible {
			return false
		}
		seen[f.ID] = true
		f, ok = r.Get(f.Parent)
	}
	return true
}

// EffectiveAlpha returns the product of the alpha of id and its ancestors,
// or 0 for an unknown frame.
func (r *Registry) EffectiveAlpha(id ID) float64 {
	seen := make(map[ID]bool)
	f, ok := r.Get(id)
	if !ok {
		return 0
	}
	alpha := 1.0
	for ok && !seen[f.ID] {
		alpha *= f.Alpha
		seen[f.ID] = true
		f, ok = r.Get(f.Parent)
	}
	return alpha
}

// RegisterEvent subscribes id to event. Registering twice is a no-op and
// keeps the original dispatch position.
func (r *Registry) RegisterEvent(id ID, event string) bool {
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	if _, dup := f.events[event]; dup {
		return true
	}
	if f.events == nil {
		f.events = make(map[string]struct{})
	}
	f.events[event] = struct{}{}
	r.trackListener(event, id)
	return true
}

func (r *Registry) trackListener(event string, id ID) {
	set := r.listeners[event]
	if set == nil {
		set = make(map[ID]uint64)
		r.listeners[event] = set
	}
	r.seq++
	set[id] = r.seq
}

// UnregisterEvent removes id from event's listeners. Unregistering an
// event that was never registered is a no-op.
func (r *Registry) UnregisterEvent(id ID, event string) bool {
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	delete(f.events, event)
	if set := r.listeners[event]; set != nil {
		delete(set, id)
		if len(set) == 0 {
			delete(r.listeners, event)
		}
	}
	return true
}

// RegisterAllEvents makes id receive every event.
func (r *Registry) RegisterAllEvents(id ID) bool {
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	if f.registerAll {
		return true
	}
	f.registerAll = true
	r.seq++
	r.allEvents[id] = r.seq
	return true
}

// UnregisterAllEvents clears every registration of id, including
// RegisterAllEvents.
func (r *Registry) UnregisterAllEvents(id ID) bool {
	f, ok := r.Get(id)
	if !ok {
		return false
	}
	for e := range f.events {
		if set := r.listeners[e]; set != nil {
			delete(set, id)
			if len(set) == 0 {
				delete(r.listeners, e)
			}
		}
	}
	f.events = nil
	f.registerAll = false
	delete(r.allEvents, id)
	return true
}

// IsEventRegistered reports whether id receives event.
func (r *Registry) IsEventRegistered(id ID, event string) bool {
	f, ok := r.Get(id)
	return ok && f.IsRegisteredForEvent(event)
}

// Listeners returns the frames receiving event, ordered by the time they
// registered for it (or for all events, whichever came first).
func (r *Registry) Listeners(event string) []ID {
	type entry struct {
		id  ID
		seq uint64
	}
	entries := make([]entry, 0, len(r.listeners[event])+len(r.allEvents))
	for id, seq := range r.listeners[event] {
		if all, ok := r.allEvents[id]; ok && all < seq {
			continue
		}
		entries = append(entries, entry{id, seq})
	}
	for id, seq := range r.allEvents {
		if own, ok := r.listeners[event][id]; ok && own < seq {
			continue
		}
		entries = append(entries, entry{id, seq})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]ID, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}
