package engine

import (
	"sync"
	"time"
)

const (
	stepTraceSamplesDefault  = 240
	defaultSlowStepThreshold = 16667 * time.Microsecond
)

// StepPhaseTimings captures wall time spent in each step phase (ms).
type StepPhaseTimings struct {
	UpdateMs     float64 `json:"updateMs"`
	AnimationsMs float64 `json:"animationsMs"`
	TimersMs     float64 `json:"timersMs"`
}

// StepCounts captures per-step workload indicators.
type StepCounts struct {
	Frames        int `json:"frames"`
	OnUpdate      int `json:"onUpdate"`
	TimersFired   int `json:"timersFired"`
	TimersPending int `json:"timersPending"`
	Animations    int `json:"animations"`
}

// StepSample is a single simulation step trace sample.
type StepSample struct {
	Timestamp int64            `json:"ts"`
	SimTime   float64          `json:"simTime"`
	StepMs    float64          `json:"stepMs"`
	Phases    StepPhaseTimings `json:"phases"`
	Counts    StepCounts       `json:"counts"`
}

// StepTimeline is the debug server response shape.
type StepTimeline struct {
	Samples     []StepSample `json:"samples"`
	SlowSteps   int          `json:"slowSteps"`
	ThresholdMs float64      `json:"thresholdMs"`
}

// StepTraceBuffer stores recent step samples in a ring buffer. It is safe
// for concurrent use so the debug server can read while the engine steps.
type StepTraceBuffer struct {
	mu        sync.RWMutex
	samples   []StepSample
	index     int
	count     int
	slow      int
	threshold time.Duration
}

// NewStepTraceBuffer creates a trace buffer. Non-positive arguments select
// the defaults (240 samples, one 60Hz frame).
func NewStepTraceBuffer(capacity int, threshold time.Duration) *StepTraceBuffer {
	if capacity <= 0 {
		capacity = stepTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultSlowStepThreshold
	}
	return &StepTraceBuffer{
		samples:   make([]StepSample, capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *StepTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Threshold returns the slow step threshold.
func (b *StepTraceBuffer) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Add records a sample and counts it as slow when d exceeds the threshold.
func (b *StepTraceBuffer) Add(sample StepSample, d time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if d > b.threshold {
		b.slow++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of samples and stats.
func (b *StepTraceBuffer) Snapshot() StepTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return StepTimeline{ThresholdMs: durationToMillis(b.threshold)}
	}

	result := make([]StepSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return StepTimeline{
		Samples:     result,
		SlowSteps:   b.slow,
		ThresholdMs: durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Step runs one simulation step: OnUpdate with elapsed, then playing
// animation groups, then every timer due at the clock's current time. The
// caller advances the clock first. The sample is recorded in the trace
// buffer when one is configured.
func (e *Engine) Step(elapsed time.Duration) StepSample {
	start := time.Now()
	ran := e.Update(elapsed.Seconds())
	updated := time.Now()
	animated := e.Animate(elapsed.Seconds())
	mid := time.Now()
	fired := e.Tick()
	end := time.Now()

	sample := StepSample{
		Timestamp: end.UnixMilli(),
		SimTime:   e.Elapsed().Seconds(),
		StepMs:    durationToMillis(end.Sub(start)),
		Phases: StepPhaseTimings{
			UpdateMs:     durationToMillis(updated.Sub(start)),
			AnimationsMs: durationToMillis(mid.Sub(updated)),
			TimersMs:     durationToMillis(end.Sub(mid)),
		},
		Counts: StepCounts{
			Frames:        e.registry.Len(),
			OnUpdate:      ran,
			TimersFired:   fired,
			TimersPending: e.scheduler.Pending(),
			Animations:    animated,
		},
	}
	if e.trace != nil {
		e.trace.Add(sample, end.Sub(start))
	}
	return sample
}
