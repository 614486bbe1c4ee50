package testing

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-drift/framehost/pkg/engine"
	fherrors "github.com/go-drift/framehost/pkg/errors"
	"github.com/go-drift/framehost/pkg/luahost"
	"github.com/go-drift/framehost/pkg/template"
	"github.com/go-drift/framehost/pkg/timer"
	"github.com/go-drift/framehost/pkg/widget"
)

const (
	// DefaultTestWidth is the default screen width for the test engine.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default screen height for the test engine.
	DefaultTestHeight = 600
)

// ErrSettleTimeout is returned when PumpUntilIdle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpUntilIdle timed out: timers still pending")

// Option configures a Tester.
type Option func(*engine.Options)

// WithScreen sets the screen size.
func WithScreen(width, height float64) Option {
	return func(o *engine.Options) {
		o.ScreenWidth = width
		o.ScreenHeight = height
	}
}

// WithTemplates makes the given templates available to CreateFrame.
func WithTemplates(entries ...template.Entry) Option {
	return func(o *engine.Options) {
		o.Templates = template.NewCatalog(entries...)
	}
}

// WithLogger routes engine logs to l. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *engine.Options) {
		o.Logger = l
	}
}

// Tester runs addon scripts against an isolated engine. Time only moves
// through Pump, and callback failures are recorded instead of logged.
type Tester struct {
	engine *engine.Engine
	host   *luahost.Host
	clock  *timer.ManualClock
	errors *fherrors.Recorder
	stdout bytes.Buffer
}

// NewTester creates a tester. Call Cleanup when done, or use
// NewTesterWithT instead.
func NewTester(opts ...Option) (*Tester, error) {
	t := &Tester{
		clock:  timer.NewManualClock(),
		errors: &fherrors.Recorder{},
	}
	eo := engine.Options{
		Clock:        t.clock,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Errors:       t.errors,
		ScreenWidth:  DefaultTestWidth,
		ScreenHeight: DefaultTestHeight,
		Trace:        engine.NewStepTraceBuffer(0, 0),
	}
	for _, opt := range opts {
		opt(&eo)
	}
	e, err := engine.New(eo)
	if err != nil {
		return nil, err
	}
	t.engine = e
	t.host = luahost.New(e, luahost.Options{Stdout: &t.stdout})
	return t, nil
}

// NewTesterWithT creates a tester that is closed via t.Cleanup(). This is
// the recommended constructor for tests.
func NewTesterWithT(t *testing.T, opts ...Option) *Tester {
	t.Helper()
	tester, err := NewTester(opts...)
	if err != nil {
		t.Fatalf("NewTester: %v", err)
	}
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup releases the Lua state.
func (t *Tester) Cleanup() {
	t.host.Close()
}

// Engine returns the engine under test.
func (t *Tester) Engine() *engine.Engine { return t.engine }

// Host returns the Lua host.
func (t *Tester) Host() *luahost.Host { return t.host }

// Clock returns the manual clock.
func (t *Tester) Clock() *timer.ManualClock { return t.clock }

// Errors returns the recorder receiving callback failures.
func (t *Tester) Errors() *fherrors.Recorder { return t.errors }

// Output returns everything scripts have printed so far.
func (t *Tester) Output() string { return t.stdout.String() }

// Run executes a Lua chunk.
func (t *Tester) Run(src string) error {
	return t.host.DoString(src)
}

// MustRun executes a Lua chunk and panics on error.
func (t *Tester) MustRun(src string) {
	if err := t.Run(src); err != nil {
		panic(err)
	}
}

// Load executes a Lua file.
func (t *Tester) Load(path string) error {
	return t.host.DoFile(path)
}

// Fire dispatches an event and returns the number of frames notified.
func (t *Tester) Fire(event string, args ...widget.Value) int {
	return t.engine.Fire(event, args...)
}

// Pump advances the clock by d and runs one step.
func (t *Tester) Pump(d time.Duration) engine.StepSample {
	t.clock.Advance(d)
	return t.engine.Step(d)
}

// PumpFor runs steps of size step until total has elapsed.
func (t *Tester) PumpFor(total, step time.Duration) {
	if step <= 0 {
		step = total
	}
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		t.Pump(step)
	}
}

// PumpUntilIdle pumps in steps of size step until no timers are pending
// and no animation group is playing. It returns ErrSettleTimeout if work
// remains after timeout. A non-positive step pumps the whole timeout at
// once.
func (t *Tester) PumpUntilIdle(step, timeout time.Duration) error {
	if step <= 0 {
		step = timeout
	}
	for elapsed := time.Duration(0); !t.idle(); elapsed += step {
		if elapsed >= timeout {
			return ErrSettleTimeout
		}
		t.Pump(step)
	}
	return nil
}

func (t *Tester) idle() bool {
	return t.engine.Scheduler().Pending() == 0 && t.engine.AnimationsPlaying() == 0
}

// Find evaluates finder against the frame tree.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{
		ids:      finder.Evaluate(t.engine.Registry()),
		finder:   finder,
		registry: t.engine.Registry(),
	}
}
