package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/go-drift/framehost/pkg/script"
)

const namespace = "framehost"

// Metrics exports dispatch and timer activity to Prometheus. It implements
// script.Observer and timer.Observer.
type Metrics struct {
	eventsFired   *prometheus.CounterVec
	handlerRuns   *prometheus.CounterVec
	handlerErrors *prometheus.CounterVec
	timersFired   prometheus.Counter
	timersFailed  prometheus.Counter
	timersPending prometheus.Gauge
	frames        prometheus.Gauge
	animations    prometheus.Gauge
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) (m *Metrics, err error) {
	// promauto panics on duplicate registration; surface it as an error.
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	f := promauto.With(reg)
	return &Metrics{
		eventsFired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_fired_total",
			Help:      "Game events dispatched, by event name.",
		}, []string{"event"}),
		handlerRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_runs_total",
			Help:      "Script callbacks invoked, by handler kind.",
		}, []string{"handler"}),
		handlerErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_errors_total",
			Help:      "Script callbacks that failed, by handler kind.",
		}, []string{"handler"}),
		timersFired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timers_fired_total",
			Help:      "Timer callbacks invoked.",
		}),
		timersFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timer_errors_total",
			Help:      "Timer callbacks that failed.",
		}),
		timersPending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timers_pending",
			Help:      "Live timers waiting to fire.",
		}),
		frames: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frames",
			Help:      "Frames registered.",
		}),
		animations: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "animations_playing",
			Help:      "Animation groups currently playing.",
		}),
	}, nil
}

// HandlerRan implements script.Observer.
func (m *Metrics) HandlerRan(h script.Handler, ok bool) {
	m.handlerRuns.WithLabelValues(h.String()).Inc()
	if !ok {
		m.handlerErrors.WithLabelValues(h.String()).Inc()
	}
}

// EventFired implements script.Observer.
func (m *Metrics) EventFired(event string, _ int) {
	m.eventsFired.WithLabelValues(event).Inc()
}

// TimerFired implements timer.Observer.
func (m *Metrics) TimerFired(ok bool) {
	m.timersFired.Inc()
	if !ok {
		m.timersFailed.Inc()
	}
}

// TimersPending implements timer.Observer.
func (m *Metrics) TimersPending(n int) {
	m.timersPending.Set(float64(n))
}

// AnimationsPlaying records the number of playing animation groups.
func (m *Metrics) AnimationsPlaying(n int) {
	m.animations.Set(float64(n))
}
