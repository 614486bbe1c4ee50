package script

import (
	"strconv"

	"github.com/go-drift/framehost/pkg/errors"
	"github.com/go-drift/framehost/pkg/widget"
)

// Observer is notified of dispatch activity. Metrics collectors implement it.
type Observer interface {
	HandlerRan(h Handler, ok bool)
	EventFired(event string, listeners int)
}

// Context carries the state a dispatch reads and mutates.
type Context struct {
	Registry *widget.Registry
	Scripts  *Table
	// Errors receives callback failures; nil means the global handler.
	Errors   errors.ErrorHandler
	Observer Observer
}

// Run invokes handler h of frame id: the primary callback first, then each
// hook in order. Failures are reported and never stop later callbacks. Run
// reports whether the primary callback, if any, succeeded.
func Run(ctx Context, id widget.ID, h Handler, args ...widget.Value) bool {
	ok, _ := run(ctx, id, h, args)
	return ok
}

// run returns whether the primary succeeded and how many callbacks ran.
func run(ctx Context, id widget.ID, h Handler, args []widget.Value) (bool, int) {
	primaryOK := true
	ran := 0
	op := "script." + h.String()
	source := frameLabel(ctx.Registry, id)

	if fn, ok := ctx.Scripts.Script(id, h); ok {
		primaryOK = invoke(ctx, op, source, h, id, fn, args)
		ran++
	}
	// Copy so a hook added while running does not run in this pass.
	hooks := append([]Func(nil), ctx.Scripts.Hooks(id, h)...)
	for _, fn := range hooks {
		invoke(ctx, op, source, h, id, fn, args)
		ran++
	}
	return primaryOK, ran
}

func invoke(ctx Context, op, source string, h Handler, id widget.ID, fn Func, args []widget.Value) bool {
	ok := errors.Call(ctx.Errors, op, errors.KindScript, source, func() error {
		return fn.Invoke(id, args)
	})
	if ctx.Observer != nil {
		ctx.Observer.HandlerRan(h, ok)
	}
	return ok
}

// Fire delivers event to every listener in registration order by running
// its OnEvent handler with the event name followed by args. The listener
// set is captured before the first callback runs. Fire returns the number
// of listeners.
func Fire(ctx Context, event string, args ...widget.Value) int {
	listeners := ctx.Registry.Listeners(event)
	full := make([]widget.Value, 0, len(args)+1)
	full = append(full, widget.String(event))
	full = append(full, args...)

	for _, id := range listeners {
		run(ctx, id, OnEvent, full)
	}
	if ctx.Observer != nil {
		ctx.Observer.EventFired(event, len(listeners))
	}
	return len(listeners)
}

// Update runs OnUpdate with the elapsed seconds on every visible frame, in
// id order. A frame whose primary OnUpdate has failed is skipped until a
// new OnUpdate script is set. Update returns the number of frames run.
func Update(ctx Context, elapsed float64) int {
	n := 0
	for _, id := range ctx.Scripts.FramesWith(OnUpdate) {
		if ctx.Scripts.updateFailed[id] || !ctx.Registry.IsVisible(id) {
			continue
		}
		ok, _ := run(ctx, id, OnUpdate, []widget.Value{widget.Number(elapsed)})
		if !ok {
			ctx.Scripts.updateFailed[id] = true
		}
		n++
	}
	return n
}

func frameLabel(r *widget.Registry, id widget.ID) string {
	if r != nil {
		if f, ok := r.Get(id); ok && f.Name != "" {
			return f.Name
		}
	}
	return "frame#" + strconv.FormatUint(uint64(id), 10)
}
