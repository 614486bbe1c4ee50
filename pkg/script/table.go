package script

import (
	"sort"

	"github.com/go-drift/framehost/pkg/widget"
)

// Func is an opaque script callback. The host language decides what a
// failure is; Invoke returns it as an error.
type Func interface {
	Invoke(self widget.ID, args []widget.Value) error
}

// FuncOf adapts a Go function to Func.
type FuncOf func(self widget.ID, args []widget.Value) error

// Invoke calls f.
func (f FuncOf) Invoke(self widget.ID, args []widget.Value) error {
	return f(self, args)
}

type slot struct {
	id widget.ID
	h  Handler
}

// Table stores primary callbacks and hooks keyed by frame and handler.
type Table struct {
	primary map[slot]Func
	hooks   map[slot][]Func
	// updateFailed marks frames whose primary OnUpdate has failed.
	updateFailed map[widget.ID]bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		primary:      make(map[slot]Func),
		hooks:        make(map[slot][]Func),
		updateFailed: make(map[widget.ID]bool),
	}
}

// SetScript replaces the primary callback; a nil fn clears it.
func (t *Table) SetScript(id widget.ID, h Handler, fn Func) {
	k := slot{id, h}
	if h == OnUpdate {
		delete(t.updateFailed, id)
	}
	if fn == nil {
		delete(t.primary, k)
		return
	}
	t.primary[k] = fn
}

// Script returns the primary callback, if any.
func (t *Table) Script(id widget.ID, h Handler) (Func, bool) {
	fn, ok := t.primary[slot{id, h}]
	return fn, ok
}

// HookScript appends fn to the hooks of (id, h). Hooks cannot be removed.
func (t *Table) HookScript(id widget.ID, h Handler, fn Func) {
	if fn == nil {
		return
	}
	k := slot{id, h}
	t.hooks[k] = append(t.hooks[k], fn)
}

// Hooks returns the hooks of (id, h) in the order they were added.
func (t *Table) Hooks(id widget.ID, h Handler) []Func {
	return t.hooks[slot{id, h}]
}

// HasHandler reports whether (id, h) has a primary callback or any hook.
func (t *Table) HasHandler(id widget.ID, h Handler) bool {
	k := slot{id, h}
	_, ok := t.primary[k]
	return ok || len(t.hooks[k]) > 0
}

// ClearScripts drops every primary callback of id. Hooks stay.
func (t *Table) ClearScripts(id widget.ID) {
	for k := range t.primary {
		if k.id == id {
			delete(t.primary, k)
		}
	}
}

// FramesWith returns, in id order, the frames that have a primary callback
// or hook for h.
func (t *Table) FramesWith(h Handler) []widget.ID {
	seen := make(map[widget.ID]bool)
	var out []widget.ID
	add := func(k slot) {
		if k.h == h && !seen[k.id] {
			seen[k.id] = true
			out = append(out, k.id)
		}
	}
	for k := range t.primary {
		add(k)
	}
	for k, hooks := range t.hooks {
		if len(hooks) > 0 {
			add(k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
