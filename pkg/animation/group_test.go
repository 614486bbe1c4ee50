package animation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/framehost/pkg/widget"
)

func fade(g *Group, from, to, dur float64) *Animation {
	a := g.CreateAnimation(TypeAlpha, "")
	a.FromAlpha, a.ToAlpha, a.Duration = from, to, dur
	return a
}

func TestNewGroupDefaults(t *testing.T) {
	g := NewGroup(3, "Pulse")

	assert.False(t, g.IsPlaying())
	assert.False(t, g.IsPaused())
	assert.False(t, g.IsDone())
	assert.Equal(t, LoopNone, g.Looping)
	assert.Equal(t, 1.0, g.SpeedMultiplier)
	assert.Equal(t, 0.0, g.Duration())
	assert.Equal(t, 0.0, g.Progress())

	a := g.CreateAnimation(ParseType("alpha"), "fade")
	assert.Equal(t, TypeAlpha, a.Type)
	assert.Equal(t, 1, a.Order)
	assert.Equal(t, 0.0, a.FromAlpha)
	assert.Equal(t, 1.0, a.ToAlpha)
	assert.Same(t, g, a.Group())
	assert.Equal(t, TypeAnimation, ParseType("Wobble"))
}

func TestDurationSumsOrders(t *testing.T) {
	g := NewGroup(1, "")
	g.CreateAnimation(TypeAlpha, "").Duration = 0.2
	tr := g.CreateAnimation(TypeTranslation, "")
	tr.Duration = 0.25
	tr.StartDelay = 0.05
	second := g.CreateAnimation(TypeAlpha, "")
	second.Duration = 0.1
	second.Order = 2

	assert.InDelta(t, 0.4, g.Duration(), 1e-9)
}

func TestAdvanceInterpolatesAlpha(t *testing.T) {
	g := NewGroup(1, "")
	fade(g, 0, 1, 1)
	g.Play(false, nil)

	st := g.Advance(0.5)
	require.Len(t, st.Changes, 1)
	assert.Equal(t, "", st.Changes[0].ChildKey)
	assert.InDelta(t, 0.5, st.Changes[0].Alpha, 1e-9)
	assert.False(t, st.Finished)
	assert.InDelta(t, 0.5, g.Progress(), 1e-9)

	st = g.Advance(0.6)
	assert.True(t, st.Finished)
	assert.InDelta(t, 1.0, st.Changes[0].Alpha, 1e-9)
	assert.False(t, g.IsPlaying())
	assert.True(t, g.IsDone())

	assert.Equal(t, Step{}, g.Advance(1))
}

func TestAdvanceAppliesSmoothingAndDelay(t *testing.T) {
	g := NewGroup(1, "")
	a := fade(g, 0, 1, 1)
	a.StartDelay = 0.5
	a.Smoothing = SmoothIn
	g.Play(false, nil)

	st := g.Advance(0.25)
	assert.False(t, a.IsActive())
	assert.InDelta(t, 0.0, st.Changes[0].Alpha, 1e-9)

	st = g.Advance(0.75)
	assert.True(t, a.IsActive())
	assert.InDelta(t, 0.25, st.Changes[0].Alpha, 1e-9)
}

func TestOrdersRunInSequence(t *testing.T) {
	g := NewGroup(1, "")
	fade(g, 0, 0.5, 0.1)
	b := fade(g, 0.5, 1, 0.1)
	b.Order = 2
	g.Play(false, nil)

	st := g.Advance(0.05)
	require.Len(t, st.Changes, 1)
	assert.InDelta(t, 0.25, st.Changes[0].Alpha, 1e-9)

	st = g.Advance(0.1)
	assert.False(t, st.Finished)
	assert.InDelta(t, 0.75, st.Changes[0].Alpha, 1e-9)

	st = g.Advance(0.1)
	assert.True(t, st.Finished)
	assert.InDelta(t, 1.0, st.Changes[0].Alpha, 1e-9)
}

func TestChildKeyTargets(t *testing.T) {
	g := NewGroup(1, "")
	fade(g, 0, 1, 1)
	c := fade(g, 1, 0, 1)
	c.ChildKey = "Icon"
	g.CreateAnimation(TypeScale, "").Duration = 1

	assert.Equal(t, []string{"", "Icon"}, g.AlphaTargets())

	g.Play(false, nil)
	st := g.Advance(0.25)
	require.Len(t, st.Changes, 2)
	assert.InDelta(t, 0.25, st.Changes[0].Alpha, 1e-9)
	assert.Equal(t, "Icon", st.Changes[1].ChildKey)
	assert.InDelta(t, 0.75, st.Changes[1].Alpha, 1e-9)
}

func TestLoopRepeatAndBounce(t *testing.T) {
	g := NewGroup(1, "")
	fade(g, 0, 1, 0.1)
	g.Looping = LoopRepeat
	g.Play(false, nil)

	loops := 0
	for i := 0; i < 5; i++ {
		if g.Advance(0.11).Looped {
			loops++
		}
	}
	assert.Equal(t, 5, loops)
	assert.True(t, g.IsPlaying())
	assert.False(t, g.IsReverse())

	g.Looping = LoopBounce
	g.Play(false, nil)
	st := g.Advance(0.1)
	assert.True(t, st.Looped)
	assert.True(t, g.IsReverse())

	st = g.Advance(0.025)
	assert.InDelta(t, 0.75, st.Changes[0].Alpha, 1e-9)
}

func TestSpeedMultiplier(t *testing.T) {
	g := NewGroup(1, "")
	fade(g, 0, 1, 1)
	g.SpeedMultiplier = 2
	g.Play(false, nil)

	st := g.Advance(0.25)
	assert.InDelta(t, 0.5, st.Changes[0].Alpha, 1e-9)
	assert.InDelta(t, 0.5, g.Elapsed(), 1e-9)
}

func TestPauseResumesWithoutRestart(t *testing.T) {
	g := NewGroup(1, "")
	fade(g, 0, 1, 1)
	g.Play(false, map[widget.ID]float64{1: 0.9})
	g.Advance(0.4)

	assert.True(t, g.Pause())
	assert.False(t, g.Pause())
	assert.True(t, g.IsPaused())
	assert.False(t, g.IsPlaying())
	assert.Equal(t, Step{}, g.Advance(1))

	assert.True(t, g.Play(false, nil))
	assert.True(t, g.IsPlaying())
	assert.InDelta(t, 0.4, g.Elapsed(), 1e-9)
	assert.Equal(t, map[widget.ID]float64{1: 0.9}, g.Stop())
}

func TestStopRestoresUnlessFinalAlpha(t *testing.T) {
	g := NewGroup(1, "")
	fade(g, 0, 1, 1)

	g.Play(false, map[widget.ID]float64{1: 0.7})
	assert.Equal(t, map[widget.ID]float64{1: 0.7}, g.Stop())
	assert.True(t, g.IsDone())
	assert.Nil(t, g.Stop())

	g.SetToFinalAlpha = true
	g.Play(false, map[widget.ID]float64{1: 0.7})
	assert.Nil(t, g.Stop())
}

func TestFinishJumpsToEnd(t *testing.T) {
	g := NewGroup(1, "")
	fade(g, 0, 1, 10)
	g.Play(false, nil)

	changes := g.Finish()
	require.Len(t, changes, 1)
	assert.InDelta(t, 1.0, changes[0].Alpha, 1e-9)
	assert.True(t, g.IsDone())
	assert.False(t, g.IsPlaying())
	assert.InDelta(t, 10.0, g.Elapsed(), 1e-9)
}

func TestGroupScripts(t *testing.T) {
	g := NewGroup(1, "")
	ev, ok := ParseEvent("OnFinished")
	require.True(t, ok)
	_, ok = ParseEvent("OnClick")
	assert.False(t, ok)

	boom := errors.New("boom")
	g.SetScript(ev, ScriptFunc(func(*Group, []widget.Value) error { return boom }))
	s, ok := g.Script(OnFinished)
	require.True(t, ok)
	assert.ErrorIs(t, s.Invoke(g, nil), boom)

	g.SetScript(OnFinished, nil)
	_, ok = g.Script(OnFinished)
	assert.False(t, ok)
	assert.Equal(t, "OnUpdate", OnUpdate.String())
}

func TestParseLoopType(t *testing.T) {
	assert.Equal(t, LoopRepeat, ParseLoopType("repeat"))
	assert.Equal(t, LoopBounce, ParseLoopType("BOUNCE"))
	assert.Equal(t, LoopNone, ParseLoopType("forever"))
	assert.Equal(t, "BOUNCE", LoopBounce.String())
}
