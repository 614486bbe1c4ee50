package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/go-drift/framehost/pkg/timer"
)

func (h *Host) registerTimerType() {
	L := h.L
	mt := L.NewTypeMetatable(handleTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"Cancel":      h.handleCancel,
		"IsCancelled": h.handleIsCancelled,
	}))

	ct := L.NewTable()
	L.SetFuncs(ct, map[string]lua.LGFunction{
		"After":     h.timerAfter,
		"NewTimer":  h.timerNew,
		"NewTicker": h.tickerNew,
	})
	L.SetGlobal("C_Timer", ct)
}

func (h *Host) checkHandle(L *lua.LState, n int) *timer.Handle {
	ud := L.CheckUserData(n)
	if th, ok := ud.Value.(*timer.Handle); ok {
		return th
	}
	L.ArgError(n, "timer handle expected")
	return nil
}

func (h *Host) handleCancel(L *lua.LState) int {
	h.checkHandle(L, 1).Cancel()
	return 0
}

func (h *Host) handleIsCancelled(L *lua.LState) int {
	L.Push(lua.LBool(h.checkHandle(L, 1).IsCancelled()))
	return 1
}

// timerCallback calls fn with the handle userdata, or with no arguments for
// C_Timer.After.
type timerCallback struct {
	host *Host
	fn   *lua.LFunction
	ud   *lua.LUserData
}

func (c *timerCallback) Fire(*timer.Handle) error {
	if c.ud == nil {
		return c.host.call(c.fn)
	}
	return c.host.call(c.fn, c.ud)
}

func (h *Host) newHandle(L *lua.LState, cb *timerCallback, th *timer.Handle) int {
	ud := L.NewUserData()
	ud.Value = th
	L.SetMetatable(ud, L.GetTypeMetatable(handleTypeName))
	cb.ud = ud
	L.Push(ud)
	return 1
}

// C_Timer.After(seconds, callback)
func (h *Host) timerAfter(L *lua.LState) int {
	d := seconds(L.CheckNumber(1))
	fn := L.CheckFunction(2)
	h.engine.Scheduler().After(d, &timerCallback{host: h, fn: fn})
	return 0
}

// C_Timer.NewTimer(seconds, callback)
func (h *Host) timerNew(L *lua.LState) int {
	d := seconds(L.CheckNumber(1))
	cb := &timerCallback{host: h, fn: L.CheckFunction(2)}
	return h.newHandle(L, cb, h.engine.Scheduler().NewTimer(d, cb))
}

// C_Timer.NewTicker(seconds, callback [, iterations])
func (h *Host) tickerNew(L *lua.LState) int {
	d := seconds(L.CheckNumber(1))
	cb := &timerCallback{host: h, fn: L.CheckFunction(2)}
	iterations := L.OptInt(3, 0)
	return h.newHandle(L, cb, h.engine.Scheduler().NewTicker(d, cb, iterations))
}
