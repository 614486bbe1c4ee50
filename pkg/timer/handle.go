package timer

// Handle refers to a timer created by NewTimer or NewTicker. It exists
// before the timer is queued, so a callback can cancel its own timer.
type Handle struct {
	id        uint64
	cancelled bool
	sched     *Scheduler
}

// ID returns the timer's scheduling id.
func (h *Handle) ID() uint64 { return h.id }

// Cancel stops the timer. It takes effect immediately, including for a
// timer already selected in the current Tick but not yet invoked.
func (h *Handle) Cancel() {
	if h.cancelled {
		return
	}
	h.cancelled = true
	if h.sched != nil {
		h.sched.notifyPending()
	}
}

// IsCancelled reports whether Cancel was called.
func (h *Handle) IsCancelled() bool { return h.cancelled }
