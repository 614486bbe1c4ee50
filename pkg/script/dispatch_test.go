package script

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/framehost/pkg/errors"
	"github.com/go-drift/framehost/pkg/widget"
)

type recordingObserver struct {
	ran    map[Handler]int
	failed map[Handler]int
	fired  map[string]int
}

func newObserver() *recordingObserver {
	return &recordingObserver{
		ran:    make(map[Handler]int),
		failed: make(map[Handler]int),
		fired:  make(map[string]int),
	}
}

func (o *recordingObserver) HandlerRan(h Handler, ok bool) {
	o.ran[h]++
	if !ok {
		o.failed[h]++
	}
}

func (o *recordingObserver) EventFired(event string, listeners int) {
	o.fired[event] += listeners
}

func setup(t *testing.T) (Context, *errors.Recorder) {
	t.Helper()
	rec := &errors.Recorder{}
	return Context{
		Registry: widget.NewRegistry(),
		Scripts:  NewTable(),
		Errors:   rec,
	}, rec
}

func logTo(log *[]string, label string) Func {
	return FuncOf(func(self widget.ID, args []widget.Value) error {
		*log = append(*log, label)
		return nil
	})
}

func TestRunOrdersPrimaryBeforeHooks(t *testing.T) {
	ctx, rec := setup(t)
	f := ctx.Registry.Register(widget.NewFrame(widget.TypeButton, "B"))

	var log []string
	ctx.Scripts.HookScript(f, OnClick, logTo(&log, "h2"))
	ctx.Scripts.SetScript(f, OnClick, logTo(&log, "h1"))
	ctx.Scripts.HookScript(f, OnClick, logTo(&log, "h3"))

	assert.True(t, Run(ctx, f, OnClick))
	assert.Equal(t, []string{"h1", "h2", "h3"}, log)
	assert.Zero(t, rec.Len())
}

func TestFireCallsPrimaryThenHooks(t *testing.T) {
	ctx, _ := setup(t)
	f := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
	ctx.Registry.RegisterEvent(f, "E")

	var log []string
	ctx.Scripts.SetScript(f, OnEvent, logTo(&log, "h1"))
	ctx.Scripts.HookScript(f, OnEvent, logTo(&log, "h2"))
	ctx.Scripts.HookScript(f, OnEvent, logTo(&log, "h3"))

	assert.Equal(t, 1, Fire(ctx, "E"))
	assert.Equal(t, []string{"h1", "h2", "h3"}, log)
}

func TestHooksRunWithoutPrimaryAndAfterFailure(t *testing.T) {
	ctx, rec := setup(t)
	f := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, "Failing"))

	var log []string
	ctx.Scripts.HookScript(f, OnShow, logTo(&log, "hook"))
	assert.True(t, Run(ctx, f, OnShow), "no primary counts as success")
	assert.Equal(t, []string{"hook"}, log)

	ctx.Scripts.SetScript(f, OnShow, FuncOf(func(widget.ID, []widget.Value) error {
		return fmt.Errorf("boom")
	}))
	assert.False(t, Run(ctx, f, OnShow))
	assert.Equal(t, []string{"hook", "hook"}, log)

	require.Len(t, rec.Errors(), 1)
	e := rec.Errors()[0]
	assert.Equal(t, "script.OnShow", e.Op)
	assert.Equal(t, errors.KindScript, e.Kind)
	assert.Equal(t, "Failing", e.Source)
}

func TestPanickingCallbackIsReported(t *testing.T) {
	ctx, rec := setup(t)
	f := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))

	var log []string
	ctx.Scripts.SetScript(f, OnLoad, FuncOf(func(widget.ID, []widget.Value) error {
		panic("bad addon")
	}))
	ctx.Scripts.HookScript(f, OnLoad, logTo(&log, "after"))

	assert.False(t, Run(ctx, f, OnLoad))
	assert.Equal(t, []string{"after"}, log)
	require.Len(t, rec.Panics(), 1)
	assert.Equal(t, "bad addon", rec.Panics()[0].Value)
	assert.Equal(t, "frame#1", rec.Panics()[0].Source)
}

func TestFirePassesEventNameAndArgs(t *testing.T) {
	ctx, _ := setup(t)
	f := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
	ctx.Registry.RegisterEvent(f, "ADDON_LOADED")

	var gotSelf widget.ID
	var gotArgs []widget.Value
	ctx.Scripts.SetScript(f, OnEvent, FuncOf(func(self widget.ID, args []widget.Value) error {
		gotSelf = self
		gotArgs = args
		return nil
	}))

	Fire(ctx, "ADDON_LOADED", widget.String("MyAddon"), widget.Number(2))

	assert.Equal(t, f, gotSelf)
	require.Len(t, gotArgs, 3)
	assert.Equal(t, widget.String("ADDON_LOADED"), gotArgs[0])
	assert.Equal(t, widget.String("MyAddon"), gotArgs[1])
	assert.Equal(t, widget.Number(2), gotArgs[2])
}

func TestFireDispatchesInRegistrationOrder(t *testing.T) {
	ctx, _ := setup(t)
	var log []string
	ids := make([]widget.ID, 3)
	for i := range ids {
		ids[i] = ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
		ctx.Scripts.SetScript(ids[i], OnEvent, logTo(&log, fmt.Sprint("f", i)))
	}
	ctx.Registry.RegisterEvent(ids[2], "E")
	ctx.Registry.RegisterEvent(ids[0], "E")
	ctx.Registry.RegisterEvent(ids[1], "E")

	Fire(ctx, "E")
	assert.Equal(t, []string{"f2", "f0", "f1"}, log)
}

func TestFireSkipsUnregisteredFrames(t *testing.T) {
	ctx, _ := setup(t)
	obs := newObserver()
	ctx.Observer = obs
	f := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))

	calls := 0
	ctx.Scripts.SetScript(f, OnEvent, FuncOf(func(widget.ID, []widget.Value) error {
		calls++
		return nil
	}))

	ctx.Registry.RegisterEvent(f, "X")
	assert.Equal(t, 1, Fire(ctx, "X"))
	ctx.Registry.UnregisterEvent(f, "X")
	assert.Equal(t, 0, Fire(ctx, "X"))
	assert.Equal(t, 1, calls)

	assert.Equal(t, 1, obs.fired["X"])
	assert.Equal(t, 1, obs.ran[OnEvent])
}

func TestFireContinuesAfterListenerError(t *testing.T) {
	ctx, rec := setup(t)
	obs := newObserver()
	ctx.Observer = obs
	a := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
	b := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
	ctx.Registry.RegisterEvent(a, "E")
	ctx.Registry.RegisterEvent(b, "E")

	var log []string
	ctx.Scripts.SetScript(a, OnEvent, FuncOf(func(widget.ID, []widget.Value) error {
		return fmt.Errorf("first listener failed")
	}))
	ctx.Scripts.SetScript(b, OnEvent, logTo(&log, "b"))

	assert.Equal(t, 2, Fire(ctx, "E"))
	assert.Equal(t, []string{"b"}, log)
	assert.Equal(t, 1, rec.Len())
	assert.Equal(t, 1, obs.failed[OnEvent])
}

func TestFireUsesListenerSnapshot(t *testing.T) {
	ctx, _ := setup(t)
	a := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
	b := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
	ctx.Registry.RegisterEvent(a, "E")

	var log []string
	ctx.Scripts.SetScript(a, OnEvent, FuncOf(func(widget.ID, []widget.Value) error {
		log = append(log, "a")
		ctx.Registry.RegisterEvent(b, "E")
		return nil
	}))
	ctx.Scripts.SetScript(b, OnEvent, logTo(&log, "b"))

	Fire(ctx, "E")
	assert.Equal(t, []string{"a"}, log)
	Fire(ctx, "E")
	assert.Equal(t, []string{"a", "a", "b"}, log)
}

func TestUpdateRunsVisibleFramesAndSkipsFailedOnes(t *testing.T) {
	ctx, rec := setup(t)
	good := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
	bad := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
	hidden := ctx.Registry.Register(widget.NewFrame(widget.TypeFrame, ""))
	fh, _ := ctx.Registry.Get(hidden)
	fh.Visible = false

	var elapsed []float64
	ctx.Scripts.SetScript(good, OnUpdate, FuncOf(func(_ widget.ID, args []widget.Value) error {
		n, _ := args[0].AsNumber()
		elapsed = append(elapsed, n)
		return nil
	}))
	badCalls := 0
	ctx.Scripts.SetScript(bad, OnUpdate, FuncOf(func(widget.ID, []widget.Value) error {
		badCalls++
		return fmt.Errorf("runaway")
	}))
	hiddenCalls := 0
	ctx.Scripts.SetScript(hidden, OnUpdate, FuncOf(func(widget.ID, []widget.Value) error {
		hiddenCalls++
		return nil
	}))

	assert.Equal(t, 2, Update(ctx, 0.05))
	assert.Equal(t, 1, Update(ctx, 0.1))

	assert.Equal(t, []float64{0.05, 0.1}, elapsed)
	assert.Equal(t, 1, badCalls)
	assert.Zero(t, hiddenCalls)
	assert.Equal(t, 1, rec.Len())

	// A fresh script gets another chance.
	ctx.Scripts.SetScript(bad, OnUpdate, FuncOf(func(widget.ID, []widget.Value) error {
		badCalls++
		return nil
	}))
	assert.Equal(t, 2, Update(ctx, 0.1))
	assert.Equal(t, 2, badCalls)
}
