// Package engine owns the shared host state: the frame registry, the
// script table and the timer scheduler. Scripting bindings drive the host
// through an *Engine; the engine fires the side-effect handlers (OnShow,
// OnSizeChanged, ...) that plain registry calls do not.
//
// An Engine is not safe for concurrent use. Callbacks run synchronously on
// the goroutine that called into the engine and may call back into it.
package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/framehost/pkg/animation"
	"github.com/go-drift/framehost/pkg/errors"
	"github.com/go-drift/framehost/pkg/layout"
	"github.com/go-drift/framehost/pkg/script"
	"github.com/go-drift/framehost/pkg/template"
	"github.com/go-drift/framehost/pkg/text"
	"github.com/go-drift/framehost/pkg/timer"
	"github.com/go-drift/framehost/pkg/widget"
)

// RootName is the name of the screen-sized root frame created by New.
const RootName = "UIParent"

// Options configures a new Engine. Zero values select defaults.
type Options struct {
	// Clock drives timers and GetTime. Defaults to timer.SystemClock.
	Clock timer.Clock
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Errors receives callback failures. Defaults to an errors.LogHandler
	// writing to Logger.
	Errors errors.ErrorHandler
	// Registerer enables metrics when non-nil.
	Registerer prometheus.Registerer
	// Templates answers template lookups in CreateFrame.
	Templates template.Source
	// ScreenWidth and ScreenHeight size the root frame. Default 1024x768.
	ScreenWidth  float64
	ScreenHeight float64
	// Trace records Step samples when non-nil.
	Trace *StepTraceBuffer
}

// FrameSpec describes a frame to create.
type FrameSpec struct {
	// Type is a widget type name; empty means the template's type or Frame.
	Type string
	// Name may contain $parent, replaced by the parent's name.
	Name string
	// Parent defaults to the root frame.
	Parent widget.ID
	// Template is a comma-separated template list.
	Template string
}

// Engine is the single owner of the simulated UI state.
type Engine struct {
	registry  *widget.Registry
	scripts   *script.Table
	scheduler *timer.Scheduler
	clock     timer.Clock
	start     time.Time

	logger    *slog.Logger
	errors    errors.ErrorHandler
	metrics   *Metrics
	templates template.Source
	session   ulid.ULID

	screen layout.Size
	root   widget.ID
	trace  *StepTraceBuffer

	animations []*animation.Group
}

// New creates an engine with a root frame named UIParent sized to the screen.
func New(opts Options) (*Engine, error) {
	if opts.Clock == nil {
		opts.Clock = timer.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ScreenWidth <= 0 {
		opts.ScreenWidth = 1024
	}
	if opts.ScreenHeight <= 0 {
		opts.ScreenHeight = 768
	}

	session := ulid.Make()
	logger := opts.Logger.With(
		slog.String("component", "engine"),
		slog.String("session", session.String()),
	)
	if opts.Errors == nil {
		opts.Errors = &errors.LogHandler{Logger: logger}
	}

	e := &Engine{
		registry:  widget.NewRegistry(),
		scripts:   script.NewTable(),
		clock:     opts.Clock,
		start:     opts.Clock.Now(),
		logger:    logger,
		errors:    opts.Errors,
		templates: opts.Templates,
		session:   session,
		screen:    layout.Size{Width: opts.ScreenWidth, Height: opts.ScreenHeight},
		trace:     opts.Trace,
	}

	timerOpts := []timer.Option{timer.WithErrorHandler(opts.Errors)}
	if opts.Registerer != nil {
		m, err := NewMetrics(opts.Registerer)
		if err != nil {
			return nil, err
		}
		e.metrics = m
		timerOpts = append(timerOpts, timer.WithObserver(m))
	}
	e.scheduler = timer.NewScheduler(opts.Clock, timerOpts...)

	root := widget.NewFrame(widget.TypeFrame, RootName)
	root.Width, root.Height = opts.ScreenWidth, opts.ScreenHeight
	e.root = e.registry.Register(root)
	e.frameAdded()

	logger.Debug("engine started", slog.Float64("screen_width", opts.ScreenWidth), slog.Float64("screen_height", opts.ScreenHeight))
	return e, nil
}

// Registry returns the frame registry.
func (e *Engine) Registry() *widget.Registry { return e.registry }

// Scripts returns the script table.
func (e *Engine) Scripts() *script.Table { return e.scripts }

// Scheduler returns the timer scheduler.
func (e *Engine) Scheduler() *timer.Scheduler { return e.scheduler }

// Trace returns the step trace buffer, or nil.
func (e *Engine) Trace() *StepTraceBuffer { return e.trace }

// Logger returns the engine's session logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Errors returns the engine's error handler.
func (e *Engine) Errors() errors.ErrorHandler { return e.errors }

// Metrics returns the metrics collector, or nil when disabled.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Session returns the engine's unique session id.
func (e *Engine) Session() string { return e.session.String() }

// Root returns the id of UIParent.
func (e *Engine) Root() widget.ID { return e.root }

// Screen returns the screen size.
func (e *Engine) Screen() layout.Size { return e.screen }

// Context returns the dispatch context for script calls.
func (e *Engine) Context() script.Context {
	ctx := script.Context{
		Registry: e.registry,
		Scripts:  e.scripts,
		Errors:   e.errors,
	}
	if e.metrics != nil {
		ctx.Observer = e.metrics
	}
	return ctx
}

// CreateFrame creates and registers a frame. Unknown type names create a
// plain Frame, as the game does.
func (e *Engine) CreateFrame(spec FrameSpec) widget.ID {
	parent := spec.Parent
	if parent == widget.NoID || !e.registry.Has(parent) {
		parent = e.root
	}

	typeName := spec.Type
	var info template.Info
	var hasInfo bool
	if spec.Template != "" && e.templates != nil {
		info, hasInfo = e.templates.TemplateInfo(spec.Template)
		if hasInfo && typeName == "" {
			typeName = info.FrameType
		}
	}
	wt, ok := widget.ParseWidgetType(typeName)
	if !ok && typeName != "" {
		e.logger.Debug("unknown frame type", slog.String("type", typeName))
	}

	f := widget.NewFrame(wt, e.expandName(spec.Name, parent))
	if hasInfo {
		f.Width, f.Height = info.Width, info.Height
	}
	id := e.registry.Register(f)
	e.registry.SetParent(id, parent)
	e.frameAdded()

	if spec.Template != "" {
		e.instantiateTemplateChildren(id, spec.Template)
	}
	return id
}

// expandName substitutes $parent/$Parent with the parent's name.
func (e *Engine) expandName(name string, parent widget.ID) string {
	if !strings.Contains(name, "$parent") && !strings.Contains(name, "$Parent") {
		return name
	}
	parentName := ""
	if p, ok := e.registry.Get(parent); ok {
		parentName = p.Name
	}
	return strings.NewReplacer("$parent", parentName, "$Parent", parentName).Replace(name)
}

// instantiateTemplateChildren creates the child regions well-known
// templates provide.
func (e *Engine) instantiateTemplateChildren(id widget.ID, tmpl string) {
	f, _ := e.registry.Get(id)
	name := f.Name
	child := func(t widget.WidgetType, suffix, key string, parent widget.ID) widget.ID {
		childName := ""
		if name != "" && suffix != "" {
			childName = name + suffix
		}
		c := e.registry.Register(widget.NewFrame(t, childName))
		e.registry.SetParent(c, parent)
		e.registry.SetChildKey(parent, key, c)
		e.frameAdded()
		return c
	}

	if strings.Contains(tmpl, "CheckButton") || strings.Contains(tmpl, "CheckBox") {
		child(widget.TypeFontString, "Text", "Text", id)
	}
	if strings.Contains(tmpl, "ScrollFrame") {
		bar := child(widget.TypeSlider, "ScrollBar", "ScrollBar", id)
		if b, ok := e.registry.Get(bar); ok {
			b.Visible = false
		}
		child(widget.TypeTexture, "", "ThumbTexture", bar)
	}
}

func (e *Engine) frameAdded() {
	if e.metrics != nil {
		e.metrics.frames.Set(float64(e.registry.Len()))
	}
}

// SetPoint anchors a frame. Rejected assignments are logged at debug level.
func (e *Engine) SetPoint(id widget.ID, a widget.Anchor) bool {
	if e.registry.SetPoint(id, a) {
		return true
	}
	e.logger.Debug("anchor rejected",
		slog.Uint64("frame", uint64(id)),
		slog.String("point", a.Point.String()),
		slog.Uint64("relative_to", uint64(a.RelativeTo)))
	return false
}

// SetAllPoints anchors both corners of id to rel (NoID for the parent).
// Rejected assignments are logged at debug level.
func (e *Engine) SetAllPoints(id, rel widget.ID) bool {
	if e.registry.SetAllPoints(id, rel) {
		return true
	}
	e.logger.Debug("anchor rejected",
		slog.Uint64("frame", uint64(id)),
		slog.String("point", "ALL"),
		slog.Uint64("relative_to", uint64(rel)))
	return false
}

// ClearAllPoints removes every anchor from id.
func (e *Engine) ClearAllPoints(id widget.ID) bool {
	if e.registry.ClearAllPoints(id) {
		return true
	}
	e.logger.Debug("clear points rejected", slog.Uint64("frame", uint64(id)))
	return false
}

// ClearPoint removes the anchor on p. Clearing a point that has no anchor
// is not logged.
func (e *Engine) ClearPoint(id widget.ID, p widget.AnchorPoint) bool {
	if !e.registry.Has(id) {
		e.logger.Debug("clear point rejected",
			slog.Uint64("frame", uint64(id)),
			slog.String("point", p.String()))
		return false
	}
	return e.registry.ClearPoint(id, p)
}

// SetParent reparents a frame. Rejected reparents are logged at debug level.
func (e *Engine) SetParent(child, parent widget.ID) bool {
	if e.registry.SetParent(child, parent) {
		return true
	}
	e.logger.Debug("reparent rejected",
		slog.Uint64("frame", uint64(child)),
		slog.Uint64("parent", uint64(parent)))
	return false
}

// SetShown shows or hides a frame, running OnShow or OnHide when the flag
// actually changes.
func (e *Engine) SetShown(id widget.ID, shown bool) bool {
	f, ok := e.registry.Get(id)
	if !ok {
		return false
	}
	if f.Visible == shown {
		return true
	}
	f.Visible = shown
	h := script.OnHide
	if shown {
		h = script.OnShow
	}
	script.Run(e.Context(), id, h)
	return true
}

// SetSize sets the explicit size, running OnSizeChanged when it changes.
func (e *Engine) SetSize(id widget.ID, width, height float64) bool {
	f, ok := e.registry.Get(id)
	if !ok {
		return false
	}
	if f.Width == width && f.Height == height {
		return true
	}
	f.Width, f.Height = width, height
	script.Run(e.Context(), id, script.OnSizeChanged, widget.Number(width), widget.Number(height))
	return true
}

// SetAttribute stores an attribute, running OnAttributeChanged on change.
func (e *Engine) SetAttribute(id widget.ID, key string, v widget.Value) bool {
	f, ok := e.registry.Get(id)
	if !ok {
		return false
	}
	if f.SetAttribute(key, v) {
		script.Run(e.Context(), id, script.OnAttributeChanged, widget.String(key), v)
	}
	return true
}

// Fire dispatches a game event and returns the number of listeners.
func (e *Engine) Fire(event string, args ...widget.Value) int {
	n := script.Fire(e.Context(), event, args...)
	e.logger.Debug("event fired", slog.String("event", event), slog.Int("listeners", n))
	return n
}

// RunScript runs handler h of a frame and reports whether its primary
// callback succeeded.
func (e *Engine) RunScript(id widget.ID, h script.Handler, args ...widget.Value) bool {
	return script.Run(e.Context(), id, h, args...)
}

// Update runs OnUpdate handlers with elapsed seconds.
func (e *Engine) Update(elapsed float64) int {
	return script.Update(e.Context(), elapsed)
}

// Tick fires every timer due at the clock's current time.
func (e *Engine) Tick() int {
	return e.scheduler.Tick(e.clock.Now())
}

// Now returns the clock's current time.
func (e *Engine) Now() time.Time { return e.clock.Now() }

// Elapsed returns the time since the engine was created.
func (e *Engine) Elapsed() time.Duration { return e.clock.Now().Sub(e.start) }

// Width returns the effective width. A FontString with no width of its
// own reports the width of its text.
func (e *Engine) Width(id widget.ID) float64 {
	w := layout.CalculateWidth(e.registry, id)
	if w == 0 {
		if f, ok := e.registry.Get(id); ok && f.Type == widget.TypeFontString {
			return text.Width(f.Text, f.FontSize)
		}
	}
	return w
}

// Height returns the effective height. A FontString with no height of its
// own reports the height of its text.
func (e *Engine) Height(id widget.ID) float64 {
	h := layout.CalculateHeight(e.registry, id)
	if h == 0 {
		if f, ok := e.registry.Get(id); ok && f.Type == widget.TypeFontString {
			return text.Height(f.Text, f.FontSize)
		}
	}
	return h
}

// Rect returns the frame's rectangle in screen space.
func (e *Engine) Rect(id widget.ID) layout.Rect {
	return layout.ComputeRect(e.registry, id, e.screen)
}
