package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/go-drift/framehost/pkg/widget"
)

// maxTreeDepth limits recursion on malformed trees.
const maxTreeDepth = 500

// SafeFloat wraps a float64 to handle Inf/NaN in JSON encoding.
type SafeFloat float64

func (f SafeFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(v, -1) {
		return []byte(`"-Infinity"`), nil
	}
	if math.IsNaN(v) {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// FrameNode is one frame in a serialized tree snapshot.
type FrameNode struct {
	ID       uint64      `json:"id"`
	Name     string      `json:"name,omitempty"`
	Key      string      `json:"key,omitempty"`
	Type     string      `json:"type"`
	X        SafeFloat   `json:"x"`
	Y        SafeFloat   `json:"y"`
	Width    SafeFloat   `json:"width"`
	Height   SafeFloat   `json:"height"`
	Stored   *SizeNode   `json:"stored,omitempty"`
	Visible  bool        `json:"visible"`
	Strata   string      `json:"strata"`
	Level    int         `json:"level"`
	Text     string      `json:"text,omitempty"`
	Keys     []string    `json:"keys,omitempty"`
	Events   []string    `json:"events,omitempty"`
	Children []FrameNode `json:"children,omitempty"`
}

// SizeNode is an explicit size that differs from the resolved one.
type SizeNode struct {
	Width  SafeFloat `json:"width"`
	Height SafeFloat `json:"height"`
}

// TreeSnapshot captures the whole frame forest at one point in time.
type TreeSnapshot struct {
	Session string      `json:"session"`
	Elapsed float64     `json:"elapsed"`
	Frames  int         `json:"frames"`
	Roots   []FrameNode `json:"roots"`
}

// Snapshot serializes every root frame and its descendants.
func (e *Engine) Snapshot() TreeSnapshot {
	s := TreeSnapshot{
		Session: e.Session(),
		Elapsed: e.Elapsed().Seconds(),
		Frames:  e.registry.Len(),
	}
	for _, id := range e.registry.Roots() {
		s.Roots = append(s.Roots, e.snapshotFrame(id, 0))
	}
	return s
}

func (e *Engine) snapshotFrame(id widget.ID, depth int) FrameNode {
	f, _ := e.registry.Get(id)
	rect := e.Rect(id)
	n := FrameNode{
		ID:      uint64(id),
		Name:    f.Name,
		Key:     e.parentKey(f),
		Type:    f.Type.String(),
		X:       SafeFloat(rect.Left),
		Y:       SafeFloat(rect.Top),
		Width:   SafeFloat(e.Width(id)),
		Height:  SafeFloat(e.Height(id)),
		Visible: f.Visible,
		Strata:  f.Strata.String(),
		Level:   f.Level,
		Text:    f.Text,
		Keys:    childKeys(f),
		Events:  f.RegisteredEvents(),
	}
	if storedDiffers(f, float64(n.Width), float64(n.Height)) {
		n.Stored = &SizeNode{Width: SafeFloat(f.Width), Height: SafeFloat(f.Height)}
	}
	if depth >= maxTreeDepth {
		return n
	}
	for _, c := range f.Children {
		if e.registry.Has(c) {
			n.Children = append(n.Children, e.snapshotFrame(c, depth+1))
		}
	}
	return n
}

// DumpOptions filters DumpTree output.
type DumpOptions struct {
	// Filter keeps lines whose display name contains it, ignoring case.
	// Descendants of non-matching frames are still visited.
	Filter string
	// VisibleOnly skips hidden frames and their subtrees.
	VisibleOnly bool
}

// DumpTree writes an indented, human-readable frame tree to w. Roots are
// sorted by name.
func (e *Engine) DumpTree(w io.Writer, opts DumpOptions) error {
	roots := e.registry.Roots()
	sort.SliceStable(roots, func(i, j int) bool {
		a, _ := e.registry.Get(roots[i])
		b, _ := e.registry.Get(roots[j])
		return a.Name < b.Name
	})
	filter := strings.ToLower(opts.Filter)
	for _, id := range roots {
		if err := e.dumpFrame(w, id, 0, filter, opts.VisibleOnly); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) dumpFrame(w io.Writer, id widget.ID, depth int, filter string, visibleOnly bool) error {
	f, ok := e.registry.Get(id)
	if !ok || depth > maxTreeDepth {
		return nil
	}
	if visibleOnly && !f.Visible {
		return nil
	}
	name := e.displayName(f)
	if filter == "" || strings.Contains(strings.ToLower(name), filter) {
		if _, err := io.WriteString(w, e.frameLine(f, name, depth)+"\n"); err != nil {
			return err
		}
	}
	for _, c := range f.Children {
		if err := e.dumpFrame(w, c, depth+1, filter, visibleOnly); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) frameLine(f *widget.Frame, name string, depth int) string {
	width, height := e.Width(f.ID), e.Height(f.ID)
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&b, "%s [%s] (%dx%d)", name, f.Type, int(width), int(height))
	if storedDiffers(f, width, height) {
		fmt.Fprintf(&b, " [stored=%dx%d]", int(f.Width), int(f.Height))
	}
	if f.Visible {
		b.WriteString(" visible")
	} else {
		b.WriteString(" hidden")
	}
	if f.Text != "" {
		fmt.Fprintf(&b, " text=%q", f.Text)
	}
	if f.Type == widget.TypeFontString {
		fmt.Fprintf(&b, " size=%g", f.FontSize)
	}
	if keys := childKeys(f); len(keys) > 0 {
		fmt.Fprintf(&b, " keys=[%s]", strings.Join(keys, ", "))
	}
	return b.String()
}

// displayName is the global name, else the key under which the parent
// holds the frame, else "(anonymous)".
func (e *Engine) displayName(f *widget.Frame) string {
	if f.Name != "" {
		return f.Name
	}
	if key := e.parentKey(f); key != "" {
		return "." + key
	}
	return "(anonymous)"
}

func (e *Engine) parentKey(f *widget.Frame) string {
	p, ok := e.registry.Get(f.Parent)
	if !ok {
		return ""
	}
	for _, k := range childKeys(p) {
		if p.ChildKeys[k] == f.ID {
			return k
		}
	}
	return ""
}

func childKeys(f *widget.Frame) []string {
	if len(f.ChildKeys) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f.ChildKeys))
	for k := range f.ChildKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func storedDiffers(f *widget.Frame, width, height float64) bool {
	if f.Width <= 0 && f.Height <= 0 {
		return false
	}
	return math.Abs(f.Width-width) > 0.5 || math.Abs(f.Height-height) > 0.5
}
