package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/framehost/pkg/widget"
)

// Finder locates frames in the frame tree.
type Finder interface {
	// Evaluate returns all matching frames (depth-first pre-order from the
	// roots).
	Evaluate(r *widget.Registry) []widget.ID
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	ids      []widget.ID
	finder   Finder
	registry *widget.Registry
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() widget.ID {
	if len(r.ids) == 0 {
		panic(fmt.Sprintf("Finder found no frames: %s", r.describe()))
	}
	return r.ids[0]
}

// FirstOrNone returns the first match, or widget.NoID if none.
func (r FinderResult) FirstOrNone() widget.ID {
	if len(r.ids) == 0 {
		return widget.NoID
	}
	return r.ids[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) widget.ID {
	if index < 0 || index >= len(r.ids) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.ids), r.describe()))
	}
	return r.ids[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []widget.ID {
	return r.ids
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.ids)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.ids) > 0
}

// Frame returns the first matched frame. Panics if no matches.
func (r FinderResult) Frame() *widget.Frame {
	f, _ := r.registry.Get(r.First())
	return f
}

type nameFinder struct {
	name string
}

func (f *nameFinder) Evaluate(r *widget.Registry) []widget.ID {
	return collectMatches(r, func(fr *widget.Frame) bool { return fr.Name == f.name })
}

func (f *nameFinder) Description() string {
	return fmt.Sprintf("ByName(%q)", f.name)
}

// ByName finds frames with the given global name.
func ByName(name string) Finder {
	return &nameFinder{name: name}
}

type typeFinder struct {
	typeName string
}

func (f *typeFinder) Evaluate(r *widget.Registry) []widget.ID {
	return collectMatches(r, func(fr *widget.Frame) bool { return fr.Type.IsA(f.typeName) })
}

func (f *typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.typeName)
}

// ByType finds frames whose widget type is, or derives from, typeName.
func ByType(typeName string) Finder {
	return &typeFinder{typeName: typeName}
}

type textFinder struct {
	text string
}

func (f *textFinder) Evaluate(r *widget.Registry) []widget.ID {
	return collectMatches(r, func(fr *widget.Frame) bool { return fr.Text == f.text })
}

func (f *textFinder) Description() string {
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText finds frames whose text equals text exactly.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

type textContainingFinder struct {
	substring string
}

func (f *textContainingFinder) Evaluate(r *widget.Registry) []widget.ID {
	return collectMatches(r, func(fr *widget.Frame) bool {
		return fr.Text != "" && strings.Contains(fr.Text, f.substring)
	})
}

func (f *textContainingFinder) Description() string {
	return fmt.Sprintf("ByTextContaining(%q)", f.substring)
}

// ByTextContaining finds frames whose text contains substring.
func ByTextContaining(substring string) Finder {
	return &textContainingFinder{substring: substring}
}

type predicateFinder struct {
	fn   func(*widget.Frame) bool
	desc string
}

func (f *predicateFinder) Evaluate(r *widget.Registry) []widget.ID {
	return collectMatches(r, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate finds frames for which fn returns true.
func ByPredicate(fn func(*widget.Frame) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(r *widget.Registry) []widget.ID {
	ancestors := f.of.Evaluate(r)
	seen := make(map[widget.ID]bool)
	var result []widget.ID
	for _, id := range f.matching.Evaluate(r) {
		if seen[id] {
			continue
		}
		for _, a := range ancestors {
			if isAncestorOf(r, a, id) {
				seen[id] = true
				result = append(result, id)
				break
			}
		}
	}
	return result
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant finds frames matching matching that are descendants of a
// frame matched by of.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(r *widget.Registry) []widget.ID {
	descendants := f.of.Evaluate(r)
	var result []widget.ID
	for _, id := range f.matching.Evaluate(r) {
		for _, d := range descendants {
			if isAncestorOf(r, id, d) {
				result = append(result, id)
				break
			}
		}
	}
	return result
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor finds frames matching matching that are ancestors of a frame
// matched by of.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func isAncestorOf(r *widget.Registry, ancestor, descendant widget.ID) bool {
	f, ok := r.Get(descendant)
	for ok && f.Parent != widget.NoID {
		if f.Parent == ancestor {
			return true
		}
		f, ok = r.Get(f.Parent)
	}
	return false
}

func collectMatches(r *widget.Registry, predicate func(*widget.Frame) bool) []widget.ID {
	var result []widget.ID
	for _, root := range r.Roots() {
		walkTree(r, root, func(f *widget.Frame) {
			if predicate(f) {
				result = append(result, f.ID)
			}
		})
	}
	return result
}

func walkTree(r *widget.Registry, id widget.ID, visitor func(*widget.Frame)) {
	f, ok := r.Get(id)
	if !ok {
		return
	}
	visitor(f)
	for _, c := range f.Children {
		walkTree(r, c, visitor)
	}
}
