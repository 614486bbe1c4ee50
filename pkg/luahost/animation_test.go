package luahost

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func (fx *fixture) step(d time.Duration) {
	fx.clock.Advance(d)
	fx.Engine().Step(d)
}

func num(t *testing.T, v lua.LValue) float64 {
	t.Helper()
	n, ok := v.(lua.LNumber)
	require.True(t, ok, "expected number, got %s", v.Type())
	return float64(n)
}

func TestAlphaMethods(t *testing.T) {
	fx := newFixture(t)
	fx.run(t, `
		local p = CreateFrame("Frame", "Outer", UIParent)
		local c = CreateFrame("Frame", "Inner", p)
		p:SetAlpha(0.5)
		c:SetAlpha(0.5)
	`)

	assert.Equal(t, lua.LNumber(0.5), fx.eval(t, "Inner:GetAlpha()"))
	assert.Equal(t, lua.LNumber(0.25), fx.eval(t, "Inner:GetEffectiveAlpha()"))

	fx.run(t, `Inner:SetAlpha(4)`)
	assert.Equal(t, lua.LNumber(1), fx.eval(t, "Inner:GetAlpha()"))
}

func TestAnimationGroupDefaults(t *testing.T) {
	fx := newFixture(t)
	fx.run(t, `
		local f = CreateFrame("Frame", "Pulse", UIParent)
		ag = f:CreateAnimationGroup("$parentGroup")
		anim = ag:CreateAnimation("Alpha", "fade")
	`)

	assert.Equal(t, lua.LString("PulseGroup"), fx.eval(t, "ag:GetName()"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:GetParent() == Pulse"))
	assert.Equal(t, lua.LFalse, fx.eval(t, "ag:IsPlaying()"))
	assert.Equal(t, lua.LFalse, fx.eval(t, "ag:IsDone()"))
	assert.Equal(t, lua.LString("NONE"), fx.eval(t, "ag:GetLooping()"))
	assert.Equal(t, lua.LNumber(0), fx.eval(t, "ag:GetDuration()"))
	assert.Equal(t, lua.LNumber(1), fx.eval(t, "ag:GetAnimationSpeedMultiplier()"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "select(1, Pulse:GetAnimationGroups()) == ag"))

	assert.Equal(t, lua.LString("Alpha"), fx.eval(t, "anim:GetObjectType()"))
	assert.Equal(t, lua.LString("fade"), fx.eval(t, "anim:GetName()"))
	assert.Equal(t, lua.LNumber(1), fx.eval(t, "anim:GetOrder()"))
	assert.Equal(t, lua.LNumber(0), fx.eval(t, "anim:GetFromAlpha()"))
	assert.Equal(t, lua.LNumber(1), fx.eval(t, "anim:GetToAlpha()"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "anim:GetParent() == ag"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "anim:GetRegionParent() == Pulse"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "select(1, ag:GetAnimations()) == anim"))
}

func TestAnimationSetters(t *testing.T) {
	fx := newFixture(t)
	fx.run(t, `
		local f = CreateFrame("Frame", nil, UIParent)
		ag = f:CreateAnimationGroup()
		local a1 = ag:CreateAnimation("Alpha")
		a1:SetDuration(0.2)
		a1:SetFromAlpha(0.2)
		a1:SetToAlpha(0.8)
		a1:SetSmoothing("in_out")
		a1:SetStartDelay(0.1)
		local a2 = ag:CreateAnimation("Translation")
		a2:SetDuration(0.1)
		a2:SetOrder(2)
		ag:SetLooping("bounce")
		ag:SetAnimationSpeedMultiplier(2)
		ag:SetToFinalAlpha(true)
		first = a1
	`)

	assert.Equal(t, lua.LString("IN_OUT"), fx.eval(t, "first:GetSmoothing()"))
	assert.Equal(t, lua.LNumber(0.2), fx.eval(t, "first:GetFromAlpha()"))
	assert.Equal(t, lua.LNumber(0.1), fx.eval(t, "first:GetStartDelay()"))
	assert.Equal(t, lua.LString("BOUNCE"), fx.eval(t, "ag:GetLooping()"))
	assert.Equal(t, lua.LNumber(2), fx.eval(t, "ag:GetAnimationSpeedMultiplier()"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:IsSetToFinalAlpha()"))
	assert.InDelta(t, 0.4, num(t, fx.eval(t, "ag:GetDuration()")), 1e-9)

	fx.run(t, `ag:RemoveAnimations()`)
	assert.Equal(t, lua.LNumber(0), fx.eval(t, "ag:GetDuration()"))
}

func TestAnimationGroupPlaysDuringStep(t *testing.T) {
	fx := newFixture(t)
	fx.run(t, `
		played, finished = 0, nil
		local f = CreateFrame("Frame", "Fader", UIParent)
		f:SetAlpha(1)
		ag = f:CreateAnimationGroup()
		local anim = ag:CreateAnimation("Alpha")
		anim:SetDuration(1)
		anim:SetFromAlpha(0)
		anim:SetToAlpha(1)
		ag:SetScript("OnPlay", function(self) played = played + 1 end)
		ag:SetScript("OnFinished", function(self, requested)
			finished = requested
			assert(self == ag)
		end)
		ag:Play()
	`)

	assert.Equal(t, lua.LNumber(1), fx.eval(t, "played"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:IsPlaying()"))

	fx.step(500 * time.Millisecond)
	assert.InDelta(t, 0.5, num(t, fx.eval(t, "Fader:GetAlpha()")), 1e-9)
	assert.InDelta(t, 0.5, num(t, fx.eval(t, "ag:GetProgress()")), 1e-9)
	assert.Equal(t, lua.LNil, fx.eval(t, "finished"))

	fx.step(600 * time.Millisecond)
	assert.Equal(t, lua.LFalse, fx.eval(t, "finished"))
	assert.Equal(t, lua.LFalse, fx.eval(t, "ag:IsPlaying()"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:IsDone()"))
	assert.InDelta(t, 1.0, num(t, fx.eval(t, "Fader:GetAlpha()")), 1e-9)
	assert.Empty(t, fx.rec.Errors())
}

func TestAnimationOrdersRunInSequence(t *testing.T) {
	fx := newFixture(t)
	fx.run(t, `
		done = false
		local f = CreateFrame("Frame", "Seq", UIParent)
		local ag = f:CreateAnimationGroup()
		local a1 = ag:CreateAnimation("Alpha")
		a1:SetDuration(0.1)
		a1:SetFromAlpha(0)
		a1:SetToAlpha(0.5)
		local a2 = ag:CreateAnimation("Alpha")
		a2:SetDuration(0.1)
		a2:SetFromAlpha(0.5)
		a2:SetToAlpha(1)
		a2:SetOrder(2)
		ag:SetScript("OnFinished", function() done = true end)
		ag:Play()
	`)

	fx.step(150 * time.Millisecond)
	assert.Equal(t, lua.LFalse, fx.eval(t, "done"))
	assert.InDelta(t, 0.75, num(t, fx.eval(t, "Seq:GetAlpha()")), 1e-9)

	fx.step(100 * time.Millisecond)
	assert.Equal(t, lua.LTrue, fx.eval(t, "done"))
}

func TestAnimationRepeatLoops(t *testing.T) {
	fx := newFixture(t)
	fx.run(t, `
		loops = 0
		local f = CreateFrame("Frame", nil, UIParent)
		ag = f:CreateAnimationGroup()
		ag:SetLooping("REPEAT")
		ag:CreateAnimation("Alpha"):SetDuration(0.1)
		ag:SetScript("OnLoop", function(self, state) loops = loops + 1; lastState = state end)
		ag:Play()
	`)

	for i := 0; i < 5; i++ {
		fx.step(110 * time.Millisecond)
	}
	assert.Equal(t, lua.LNumber(5), fx.eval(t, "loops"))
	assert.Equal(t, lua.LString("FORWARD"), fx.eval(t, "lastState"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:IsPlaying()"))
}

func TestAnimationPauseStopAndFinish(t *testing.T) {
	fx := newFixture(t)
	fx.run(t, `
		stopped = nil
		local f = CreateFrame("Frame", "Ctl", UIParent)
		f:SetAlpha(0.6)
		ag = f:CreateAnimationGroup()
		local anim = ag:CreateAnimation("Alpha")
		anim:SetDuration(1)
		ag:SetScript("OnStop", function(self, requested) stopped = requested end)
		ag:Play()
		ag:Pause()
	`)

	assert.Equal(t, lua.LFalse, fx.eval(t, "ag:IsPlaying()"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:IsPaused()"))
	fx.step(500 * time.Millisecond)
	assert.Equal(t, lua.LNumber(0), fx.eval(t, "ag:GetElapsed()"))

	fx.run(t, `ag:Play()`)
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:IsPlaying()"))
	assert.Equal(t, lua.LFalse, fx.eval(t, "ag:IsPaused()"))
	fx.step(250 * time.Millisecond)
	assert.InDelta(t, 0.25, num(t, fx.eval(t, "Ctl:GetAlpha()")), 1e-9)

	fx.run(t, `ag:Stop()`)
	assert.Equal(t, lua.LTrue, fx.eval(t, "stopped"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:IsDone()"))
	assert.InDelta(t, 0.6, num(t, fx.eval(t, "Ctl:GetAlpha()")), 1e-9)

	fx.run(t, `ag:Play(); ag:Finish()`)
	assert.Equal(t, lua.LFalse, fx.eval(t, "ag:IsPlaying()"))
	assert.Equal(t, lua.LNumber(1), fx.eval(t, "Ctl:GetAlpha()"))
}

func TestAnimationScripts(t *testing.T) {
	fx := newFixture(t)
	fx.run(t, `
		local f = CreateFrame("Frame", nil, UIParent)
		ag = f:CreateAnimationGroup()
		handler = function() end
	`)

	assert.Equal(t, lua.LFalse, fx.eval(t, "ag:HasScript('OnFinished')"))
	fx.run(t, `ag:SetScript("OnFinished", handler)`)
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:HasScript('OnFinished')"))
	assert.Equal(t, lua.LTrue, fx.eval(t, "ag:GetScript('OnFinished') == handler"))
	fx.run(t, `ag:SetScript("OnFinished", nil)`)
	assert.Equal(t, lua.LFalse, fx.eval(t, "ag:HasScript('OnFinished')"))
	assert.Equal(t, lua.LFalse, fx.eval(t, "ag:HasScript('OnClick')"))

	assert.Error(t, fx.DoString(`ag:SetScript("OnClick", handler)`))
}

func TestAnimationScriptErrorReported(t *testing.T) {
	fx := newFixture(t)
	fx.run(t, `
		local f = CreateFrame("Frame", "Boom", UIParent)
		local ag = f:CreateAnimationGroup("BoomGroup")
		ag:CreateAnimation("Alpha"):SetDuration(0.1)
		ag:SetScript("OnFinished", function() error("nope") end)
		ag:Play()
	`)

	fx.step(200 * time.Millisecond)
	errs := fx.rec.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "animation.OnFinished", errs[0].Op)
	assert.Equal(t, "BoomGroup", errs[0].Source)
}
