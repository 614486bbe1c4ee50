package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/framehost/pkg/script"
	"github.com/go-drift/framehost/pkg/timer"
	"github.com/go-drift/framehost/pkg/widget"
)

func TestStepTraceBufferWraps(t *testing.T) {
	b := NewStepTraceBuffer(3, time.Millisecond)
	assert.Equal(t, 3, b.Capacity())
	assert.Empty(t, b.Snapshot().Samples)

	for i := 1; i <= 5; i++ {
		d := time.Duration(0)
		if i%2 == 0 {
			d = 2 * time.Millisecond
		}
		b.Add(StepSample{Timestamp: int64(i)}, d)
	}

	tl := b.Snapshot()
	require.Len(t, tl.Samples, 3)
	assert.Equal(t, []int64{3, 4, 5}, []int64{tl.Samples[0].Timestamp, tl.Samples[1].Timestamp, tl.Samples[2].Timestamp})
	assert.Equal(t, 2, tl.SlowSteps)
	assert.Equal(t, 1.0, tl.ThresholdMs)
}

func TestStepTraceDefaults(t *testing.T) {
	b := NewStepTraceBuffer(0, 0)
	assert.Equal(t, stepTraceSamplesDefault, b.Capacity())
	assert.Equal(t, defaultSlowStepThreshold, b.Threshold())
}

func TestEngineStepRecordsSample(t *testing.T) {
	h := newHarness(t)
	h.trace = NewStepTraceBuffer(10, 0)

	f := h.CreateFrame(FrameSpec{})
	h.Scripts().SetScript(f, script.OnUpdate, script.FuncOf(func(widget.ID, []widget.Value) error { return nil }))
	h.Scheduler().After(100*time.Millisecond, timer.CallbackFunc(func(*timer.Handle) error { return nil }))
	h.Scheduler().After(time.Second, timer.CallbackFunc(func(*timer.Handle) error { return nil }))

	h.clock.Advance(100 * time.Millisecond)
	s := h.Step(100 * time.Millisecond)

	assert.Equal(t, 1, s.Counts.OnUpdate)
	assert.Equal(t, 1, s.Counts.TimersFired)
	assert.Equal(t, 1, s.Counts.TimersPending)
	assert.Equal(t, 2, s.Counts.Frames)
	assert.InDelta(t, 0.1, s.SimTime, 1e-9)

	tl := h.Trace().Snapshot()
	require.Len(t, tl.Samples, 1)
	assert.Equal(t, s, tl.Samples[0])
}
