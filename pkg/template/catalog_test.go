package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateInfoDirect(t *testing.T) {
	c := NewCatalog(Entry{Name: "UIPanelButtonTemplate", Type: "Button", Width: 120, Height: 22})

	info, ok := c.TemplateInfo("UIPanelButtonTemplate")
	require.True(t, ok)
	assert.Equal(t, Info{FrameType: "Button", Width: 120, Height: 22}, info)

	_, ok = c.TemplateInfo("Missing")
	assert.False(t, ok)
	_, ok = c.TemplateInfo("")
	assert.False(t, ok)
}

func TestTemplateInfoInheritance(t *testing.T) {
	c := NewCatalog(
		Entry{Name: "Base", Type: "CheckButton", Width: 32, Height: 32},
		Entry{Name: "Wide", Inherits: "Base", Width: 200},
		Entry{Name: "Typed", Type: "Button", Inherits: "Wide"},
	)

	info, ok := c.TemplateInfo("Wide")
	require.True(t, ok)
	assert.Equal(t, Info{FrameType: "CheckButton", Width: 200, Height: 32}, info)

	// The most basic declared type wins; sizes come from the derived end.
	info, ok = c.TemplateInfo("Typed")
	require.True(t, ok)
	assert.Equal(t, "CheckButton", info.FrameType)
	assert.Equal(t, 200.0, info.Width)

	names := make([]string, 0, 3)
	for _, e := range c.Chain("Typed") {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Base", "Wide", "Typed"}, names)
}

func TestTemplateInfoCommaList(t *testing.T) {
	c := NewCatalog(
		Entry{Name: "A", Width: 10},
		Entry{Name: "B", Height: 20},
	)
	info, ok := c.TemplateInfo(" A , B ,")
	require.True(t, ok)
	assert.Equal(t, Info{FrameType: "Frame", Width: 10, Height: 20}, info)
}

func TestTemplateChainStopsOnCycle(t *testing.T) {
	c := NewCatalog(
		Entry{Name: "X", Inherits: "Y", Width: 1},
		Entry{Name: "Y", Inherits: "X", Width: 2},
	)
	chain := c.Chain("X")
	require.Len(t, chain, 2)
	assert.Equal(t, "Y", chain[0].Name)
	assert.Equal(t, "X", chain[1].Name)

	info, _ := c.TemplateInfo("X")
	assert.Equal(t, 1.0, info.Width)
}

func TestAddReplaces(t *testing.T) {
	c := NewCatalog(Entry{Name: "T", Width: 1})
	c.Add(Entry{Name: "T", Width: 5})
	assert.Equal(t, 1, c.Len())

	info, _ := c.TemplateInfo("T")
	assert.Equal(t, 5.0, info.Width)
}
