// Package template answers read-only template lookups for frame creation.
package template

import (
	"strings"

	"github.com/go-drift/framehost/pkg/widget"
)

// Info is what frame creation needs to know about a template.
type Info struct {
	FrameType string
	Width     float64
	Height    float64
}

// Source looks up template info by name. A name may list several
// templates separated by commas.
type Source interface {
	TemplateInfo(name string) (Info, bool)
}

// Entry is one template definition. Inherits is a comma-separated list of
// parent templates. Zero sizes leave the inherited size alone.
type Entry struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Inherits string  `yaml:"inherits"`
}

// Catalog is an in-memory Source.
type Catalog struct {
	entries map[string]Entry
}

// NewCatalog returns a catalog holding entries. Later entries replace
// earlier ones with the same name.
func NewCatalog(entries ...Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add stores e, replacing any template of the same name.
func (c *Catalog) Add(e Entry) {
	c.entries[e.Name] = e
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.entries) }

// Chain returns the templates named by names with all their ancestors,
// most basic first. Each template appears once; unknown names are skipped.
func (c *Catalog) Chain(names string) []Entry {
	var chain []Entry
	visited := make(map[string]bool)
	for _, name := range splitNames(names) {
		c.collect(name, &chain, visited)
	}
	return chain
}

func (c *Catalog) collect(name string, chain *[]Entry, visited map[string]bool) {
	if visited[name] {
		return
	}
	visited[name] = true
	e, ok := c.entries[name]
	if !ok {
		return
	}
	for _, parent := range splitNames(e.Inherits) {
		c.collect(parent, chain, visited)
	}
	*chain = append(*chain, e)
}

// TemplateInfo resolves names through inheritance. The frame type comes
// from the first template in the chain that declares one, sizes from the
// most derived template that sets them.
func (c *Catalog) TemplateInfo(names string) (Info, bool) {
	chain := c.Chain(names)
	if len(chain) == 0 {
		return Info{}, false
	}
	info := Info{FrameType: widget.TypeFrame.String()}
	typed := false
	for _, e := range chain {
		if !typed && e.Type != "" {
			info.FrameType = e.Type
			typed = true
		}
		if e.Width != 0 {
			info.Width = e.Width
		}
		if e.Height != 0 {
			info.Height = e.Height
		}
	}
	return info, true
}

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
