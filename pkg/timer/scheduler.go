// Package timer schedules one-shot and repeating callbacks against a Clock.
//
// The scheduler never runs on its own: the host calls Tick with the current
// time and every due callback runs synchronously inside that call.
package timer

import (
	"container/heap"
	"strconv"
	"time"

	"github.com/go-drift/framehost/pkg/errors"
)

// Callback is an opaque timer callback. h is nil for timers created by After.
type Callback interface {
	Fire(h *Handle) error
}

// CallbackFunc adapts a Go function to Callback.
type CallbackFunc func(h *Handle) error

// Fire calls f.
func (f CallbackFunc) Fire(h *Handle) error { return f(h) }

// Observer is notified after each timer invocation and whenever the queue
// size changes.
type Observer interface {
	TimerFired(ok bool)
	TimersPending(n int)
}

type pending struct {
	fireAt   time.Time
	interval time.Duration
	repeat   bool
	// remaining counts invocations left for bounded tickers; 0 is unbounded.
	remaining int
	handle    *Handle
	public    bool
	cb        Callback
}

// queue is a min-heap ordered by (fireAt, id).
type queue []*pending

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if !q[i].fireAt.Equal(q[j].fireAt) {
		return q[i].fireAt.Before(q[j].fireAt)
	}
	return q[i].handle.id < q[j].handle.id
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*pending)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithErrorHandler routes callback failures to h instead of the global handler.
func WithErrorHandler(h errors.ErrorHandler) Option {
	return func(s *Scheduler) { s.errors = h }
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// Scheduler holds pending timers. It is not safe for concurrent use.
type Scheduler struct {
	clock    Clock
	errors   errors.ErrorHandler
	observer Observer
	queue    queue
	nextID   uint64
}

// NewScheduler returns an empty scheduler reading time from clock.
// A nil clock means SystemClock.
func NewScheduler(clock Clock, opts ...Option) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	s := &Scheduler{clock: clock}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock { return s.clock }

// After runs cb once after delay. There is no handle; cb receives nil.
func (s *Scheduler) After(delay time.Duration, cb Callback) {
	s.schedule(delay, false, 0, cb, false)
}

// NewTimer runs cb once after delay and returns its handle.
func (s *Scheduler) NewTimer(delay time.Duration, cb Callback) *Handle {
	return s.schedule(delay, false, 0, cb, true)
}

// NewTicker runs cb every interval. iterations <= 0 repeats until cancelled.
func (s *Scheduler) NewTicker(interval time.Duration, cb Callback, iterations int) *Handle {
	if iterations < 0 {
		iterations = 0
	}
	return s.schedule(interval, true, iterations, cb, true)
}

func (s *Scheduler) schedule(delay time.Duration, repeat bool, iterations int, cb Callback, public bool) *Handle {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	h := &Handle{id: s.nextID, sched: s}
	heap.Push(&s.queue, &pending{
		fireAt:    s.clock.Now().Add(delay),
		interval:  delay,
		repeat:    repeat,
		remaining: iterations,
		handle:    h,
		public:    public,
		cb:        cb,
	})
	s.notifyPending()
	return h
}

// Tick runs every timer due at or before now, in (fire time, id) order,
// and returns the number of callbacks invoked.
//
// The due batch is selected up front. Cancellation is checked again right
// before each invocation, so a callback can cancel a sibling in the same
// batch. Timers created during the batch wait for the next Tick, and a
// ticker fires at most once per Tick.
func (s *Scheduler) Tick(now time.Time) int {
	var batch []*pending
	for len(s.queue) > 0 && !s.queue[0].fireAt.After(now) {
		batch = append(batch, heap.Pop(&s.queue).(*pending))
	}

	fired := 0
	var again []*pending
	for _, t := range batch {
		if t.handle.cancelled {
			continue
		}
		var arg *Handle
		if t.public {
			arg = t.handle
		}
		ok := errors.Call(s.errors, "timer.fire", errors.KindTimer, "timer#"+strconv.FormatUint(t.handle.id, 10), func() error {
			return t.cb.Fire(arg)
		})
		fired++
		if s.observer != nil {
			s.observer.TimerFired(ok)
		}

		if !t.repeat || t.handle.cancelled {
			continue
		}
		if t.remaining > 0 {
			t.remaining--
			if t.remaining == 0 {
				continue
			}
		}
		t.fireAt = t.fireAt.Add(t.interval)
		again = append(again, t)
	}
	for _, t := range again {
		heap.Push(&s.queue, t)
	}
	if len(batch) > 0 {
		s.notifyPending()
	}
	return fired
}

// TickNow is Tick at the clock's current time.
func (s *Scheduler) TickNow() int {
	return s.Tick(s.clock.Now())
}

// Pending returns the number of queued timers that have not been cancelled.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.handle.cancelled {
			n++
		}
	}
	return n
}

// Next returns the fire time of the earliest live timer.
func (s *Scheduler) Next() (time.Time, bool) {
	var next time.Time
	found := false
	for _, t := range s.queue {
		if t.handle.cancelled {
			continue
		}
		if !found || t.fireAt.Before(next) {
			next, found = t.fireAt, true
		}
	}
	return next, found
}

func (s *Scheduler) notifyPending() {
	if s.observer != nil {
		s.observer.TimersPending(s.Pending())
	}
}
