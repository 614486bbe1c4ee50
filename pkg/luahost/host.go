// Package luahost binds an engine to an embedded Lua interpreter and exposes
// the subset of the game's addon API that the engine models: CreateFrame,
// frame methods, animation groups, C_Timer, GetTime and the Lua error
// handler.
//
// A Host is not safe for concurrent use. Lua callbacks run synchronously on
// the goroutine that drives the engine.
package luahost

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/go-drift/framehost/pkg/animation"
	"github.com/go-drift/framehost/pkg/engine"
	"github.com/go-drift/framehost/pkg/errors"
	"github.com/go-drift/framehost/pkg/widget"
)

const (
	frameTypeName  = "framehost.Frame"
	handleTypeName = "framehost.TimerHandle"
)

// Options configures a Host.
type Options struct {
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout io.Writer
}

// Host owns a Lua state wired to an engine.
type Host struct {
	L      *lua.LState
	engine *engine.Engine
	logger *slog.Logger
	stdout io.Writer

	methods *lua.LTable
	frames  map[widget.ID]*lua.LUserData
	fields  map[widget.ID]*lua.LTable
	groups  map[*animation.Group]*lua.LUserData
	anims   map[*animation.Animation]*lua.LUserData

	errorHandler lua.LValue
	defaultEH    *lua.LFunction
}

// New creates a Lua state with the standard libraries and the host globals.
func New(e *engine.Engine, opts Options) *Host {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	h := &Host{
		L:      lua.NewState(),
		engine: e,
		logger: e.Logger().With(slog.String("component", "luahost")),
		stdout: opts.Stdout,
		frames: make(map[widget.ID]*lua.LUserData),
		fields: make(map[widget.ID]*lua.LTable),
		groups: make(map[*animation.Group]*lua.LUserData),
		anims:  make(map[*animation.Animation]*lua.LUserData),
	}
	h.errorHandler = lua.LNil
	h.registerFrameType()
	h.registerTimerType()
	h.registerAnimationTypes()
	h.registerGlobals()
	return h
}

// Close releases the Lua state.
func (h *Host) Close() { h.L.Close() }

// Engine returns the engine the host drives.
func (h *Host) Engine() *engine.Engine { return h.engine }

// DoString runs a chunk of Lua source.
func (h *Host) DoString(src string) error {
	if err := h.L.DoString(src); err != nil {
		return &errors.HostError{Op: "luahost.dostring", Kind: errors.KindBinding, Err: err, Timestamp: time.Now()}
	}
	return nil
}

// DoFile runs a Lua file.
func (h *Host) DoFile(path string) error {
	h.logger.Debug("loading script", slog.String("path", path))
	if err := h.L.DoFile(path); err != nil {
		return &errors.HostError{Op: "luahost.dofile", Kind: errors.KindBinding, Source: path, Err: err, Timestamp: time.Now()}
	}
	return nil
}

func (h *Host) registerGlobals() {
	L := h.L
	L.SetGlobal("CreateFrame", L.NewFunction(h.createFrame))
	L.SetGlobal("GetTime", L.NewFunction(h.getTime))
	L.SetGlobal("print", L.NewFunction(h.print))
	L.SetGlobal("seterrorhandler", L.NewFunction(h.setErrorHandler))
	L.SetGlobal("geterrorhandler", L.NewFunction(h.getErrorHandler))
	L.SetGlobal(engine.RootName, h.frameValue(h.engine.Root()))

	h.defaultEH = L.NewFunction(func(L *lua.LState) int {
		h.logger.Warn("lua error", slog.String("msg", L.ToStringMeta(L.Get(1)).String()))
		return 0
	})
}

// CreateFrame(frameType [, name [, parent [, template]]])
func (h *Host) createFrame(L *lua.LState) int {
	frameType := L.CheckString(1)
	name := L.OptString(2, "")
	parent := widget.NoID
	if L.GetTop() >= 3 && L.Get(3) != lua.LNil {
		id, ok := h.resolveFrame(L.Get(3))
		if !ok {
			L.ArgError(3, "parent must be a frame")
			return 0
		}
		parent = id
	}
	tmpl := L.OptString(4, "")

	id := h.engine.CreateFrame(engine.FrameSpec{Type: frameType, Name: name, Parent: parent, Template: tmpl})
	h.publish(id)
	L.Push(h.frameValue(id))
	return 1
}

// publish binds the named frames of a new subtree to globals.
func (h *Host) publish(id widget.ID) {
	f, ok := h.engine.Registry().Get(id)
	if !ok {
		return
	}
	if f.Name != "" {
		h.L.SetGlobal(f.Name, h.frameValue(id))
	}
	for _, c := range f.Children {
		h.publish(c)
	}
}

func (h *Host) getTime(L *lua.LState) int {
	L.Push(lua.LNumber(h.engine.Elapsed().Seconds()))
	return 1
}

func (h *Host) print(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(h.stdout, strings.Join(parts, "\t"))
	return 0
}

func (h *Host) setErrorHandler(L *lua.LState) int {
	v := L.Get(1)
	switch v.(type) {
	case *lua.LFunction, *lua.LNilType:
		h.errorHandler = v
	default:
		L.ArgError(1, "function expected")
	}
	return 0
}

func (h *Host) getErrorHandler(L *lua.LState) int {
	if h.errorHandler == lua.LNil {
		L.Push(h.defaultEH)
	} else {
		L.Push(h.errorHandler)
	}
	return 1
}

// call runs a Lua function in protected mode. A failure goes to the Lua
// error handler and is returned for the engine to report.
func (h *Host) call(fn *lua.LFunction, args ...lua.LValue) error {
	err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err == nil {
		return nil
	}
	h.notifyErrorHandler(err)
	return err
}

func (h *Host) notifyErrorHandler(err error) {
	fn, ok := h.errorHandler.(*lua.LFunction)
	if !ok {
		return
	}
	msg := err.Error()
	if apiErr, ok := err.(*lua.ApiError); ok {
		msg = apiErr.Object.String()
	}
	if herr := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LString(msg)); herr != nil {
		h.logger.Warn("error handler failed", slog.Any("err", herr))
	}
}

// toValue converts a Lua value for storage in the engine.
func (h *Host) toValue(v lua.LValue) widget.Value {
	switch v := v.(type) {
	case lua.LBool:
		return widget.Bool(bool(v))
	case lua.LNumber:
		return widget.Number(float64(v))
	case lua.LString:
		return widget.String(string(v))
	case *lua.LNilType:
		return widget.Nil()
	default:
		return widget.Opaque(v)
	}
}

// toLua converts an engine value back to Lua.
func (h *Host) toLua(v widget.Value) lua.LValue {
	switch v.Kind() {
	case widget.KindBool:
		b, _ := v.AsBool()
		return lua.LBool(b)
	case widget.KindNumber:
		n, _ := v.AsNumber()
		return lua.LNumber(n)
	case widget.KindString:
		s, _ := v.AsString()
		return lua.LString(s)
	case widget.KindOpaque:
		o, _ := v.AsOpaque()
		switch o := o.(type) {
		case lua.LValue:
			return o
		case widget.ID:
			return h.frameValue(o)
		}
	}
	return lua.LNil
}

func seconds(n lua.LNumber) time.Duration {
	return time.Duration(float64(n) * float64(time.Second))
}
