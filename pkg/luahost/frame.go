package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/go-drift/framehost/pkg/script"
	"github.com/go-drift/framehost/pkg/widget"
)

// luaFunc adapts a Lua function to script.Func. The frame is passed as
// self, followed by the handler arguments.
type luaFunc struct {
	host *Host
	fn   *lua.LFunction
}

func (f luaFunc) Invoke(self widget.ID, args []widget.Value) error {
	largs := make([]lua.LValue, 0, len(args)+1)
	largs = append(largs, f.host.frameValue(self))
	for _, a := range args {
		largs = append(largs, f.host.toLua(a))
	}
	return f.host.call(f.fn, largs...)
}

func (h *Host) registerFrameType() {
	L := h.L
	h.methods = L.SetFuncs(L.NewTable(), h.frameMethods())
	mt := L.NewTypeMetatable(frameTypeName)
	L.SetField(mt, "__index", L.NewFunction(h.frameIndex))
	L.SetField(mt, "__newindex", L.NewFunction(h.frameNewIndex))
	L.SetField(mt, "__tostring", L.NewFunction(h.frameToString))
}

// frameValue returns the single userdata that represents id.
func (h *Host) frameValue(id widget.ID) lua.LValue {
	if id == widget.NoID || !h.engine.Registry().Has(id) {
		return lua.LNil
	}
	if ud, ok := h.frames[id]; ok {
		return ud
	}
	ud := h.L.NewUserData()
	ud.Value = id
	h.L.SetMetatable(ud, h.L.GetTypeMetatable(frameTypeName))
	h.frames[id] = ud
	return ud
}

// resolveFrame accepts a frame userdata or the name of a global frame.
func (h *Host) resolveFrame(v lua.LValue) (widget.ID, bool) {
	if s, ok := v.(lua.LString); ok {
		v = h.L.GetGlobal(string(s))
	}
	ud, ok := v.(*lua.LUserData)
	if !ok {
		return widget.NoID, false
	}
	id, ok := ud.Value.(widget.ID)
	return id, ok && h.engine.Registry().Has(id)
}

func (h *Host) checkFrame(L *lua.LState, n int) (widget.ID, *widget.Frame) {
	ud := L.CheckUserData(n)
	if id, ok := ud.Value.(widget.ID); ok {
		if f, ok := h.engine.Registry().Get(id); ok {
			return id, f
		}
	}
	L.ArgError(n, "frame expected")
	return widget.NoID, nil
}

func (h *Host) frameIndex(L *lua.LState) int {
	id, f := h.checkFrame(L, 1)
	key := L.Get(2)
	if t, ok := h.fields[id]; ok {
		if v := t.RawGet(key); v != lua.LNil {
			L.Push(v)
			return 1
		}
	}
	if s, ok := key.(lua.LString); ok {
		if m := h.methods.RawGetString(string(s)); m != lua.LNil {
			L.Push(m)
			return 1
		}
		if c, ok := f.ChildKeys[string(s)]; ok {
			L.Push(h.frameValue(c))
			return 1
		}
	}
	L.Push(lua.LNil)
	return 1
}

func (h *Host) frameNewIndex(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	key := L.Get(2)
	if key == lua.LNil {
		L.ArgError(2, "table index is nil")
		return 0
	}
	t, ok := h.fields[id]
	if !ok {
		t = L.NewTable()
		h.fields[id] = t
	}
	t.RawSet(key, L.Get(3))
	return 0
}

func (h *Host) frameToString(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	name := f.Name
	if name == "" {
		name = "(anonymous)"
	}
	L.Push(lua.LString(f.Type.String() + ": " + name))
	return 1
}

func (h *Host) frameMethods() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		// Identity and hierarchy.
		"GetName":        h.getName,
		"GetObjectType":  h.getObjectType,
		"IsObjectType":   h.isObjectType,
		"GetParent":      h.getParent,
		"SetParent":      h.setParent,
		"GetChildren":    h.getChildren,
		"GetNumChildren": h.getNumChildren,
		"GetRegions":     h.getRegions,
		"SetParentKey":   h.setParentKey,
		"CreateFontString": func(L *lua.LState) int {
			return h.createRegion(L, "FontString")
		},
		"CreateTexture": func(L *lua.LState) int {
			return h.createRegion(L, "Texture")
		},

		// Anchors.
		"SetPoint":       h.setPoint,
		"SetAllPoints":   h.setAllPoints,
		"ClearAllPoints": h.clearAllPoints,
		"ClearPoint":     h.clearPoint,
		"GetPoint":       h.getPoint,
		"GetNumPoints":   h.getNumPoints,

		// Size and geometry.
		"SetSize":   h.setSize,
		"SetWidth":  h.setWidth,
		"SetHeight": h.setHeight,
		"GetWidth":  h.getWidth,
		"GetHeight": h.getHeight,
		"GetSize":   h.getSize,
		"GetRect":   h.getRect,
		"GetLeft":   h.getLeft,
		"GetRight":  h.getRight,
		"GetTop":    h.getTop,
		"GetBottom": h.getBottom,

		// Visibility.
		"Show":      h.show,
		"Hide":      h.hide,
		"SetShown":  h.setShown,
		"IsShown":   h.isShown,
		"IsVisible": h.isVisible,

		// Alpha and animation.
		"SetAlpha":             h.setAlpha,
		"GetAlpha":             h.getAlpha,
		"GetEffectiveAlpha":    h.getEffectiveAlpha,
		"CreateAnimationGroup": h.createAnimationGroup,
		"GetAnimationGroups":   h.getAnimationGroups,

		// Events and scripts.
		"RegisterEvent":       h.registerEvent,
		"RegisterUnitEvent":   h.registerEvent,
		"UnregisterEvent":     h.unregisterEvent,
		"RegisterAllEvents":   h.registerAllEvents,
		"UnregisterAllEvents": h.unregisterAllEvents,
		"IsEventRegistered":   h.isEventRegistered,
		"SetScript":           h.setScript,
		"GetScript":           h.getScript,
		"HookScript":          h.hookScript,
		"HasScript":           h.hasScript,

		"SetAttribute": h.setAttribute,
		"GetAttribute": h.getAttribute,

		// Strata and level.
		"SetFrameStrata":      h.setFrameStrata,
		"GetFrameStrata":      h.getFrameStrata,
		"SetFrameLevel":       h.setFrameLevel,
		"GetFrameLevel":       h.getFrameLevel,
		"SetFixedFrameStrata": flagSetter(h, func(f *widget.Frame, b bool) { f.FixedStrata = b }),
		"SetFixedFrameLevel":  flagSetter(h, func(f *widget.Frame, b bool) { f.FixedLevel = b }),
		"HasFixedFrameStrata": flagGetter(h, func(f *widget.Frame) bool { return f.FixedStrata }),
		"HasFixedFrameLevel":  flagGetter(h, func(f *widget.Frame) bool { return f.FixedLevel }),

		// Flags.
		"EnableMouse":        flagSetter(h, func(f *widget.Frame, b bool) { f.MouseEnabled = b }),
		"IsMouseEnabled":     flagGetter(h, func(f *widget.Frame) bool { return f.MouseEnabled }),
		"SetMovable":         flagSetter(h, func(f *widget.Frame, b bool) { f.Movable = b }),
		"IsMovable":          flagGetter(h, func(f *widget.Frame) bool { return f.Movable }),
		"SetResizable":       flagSetter(h, func(f *widget.Frame, b bool) { f.Resizable = b }),
		"IsResizable":        flagGetter(h, func(f *widget.Frame) bool { return f.Resizable }),
		"SetClampedToScreen": flagSetter(h, func(f *widget.Frame, b bool) { f.ClampedToScreen = b }),
		"IsClampedToScreen":  flagGetter(h, func(f *widget.Frame) bool { return f.ClampedToScreen }),

		// Text.
		"SetText":         h.setText,
		"GetText":         h.getText,
		"SetFont":         h.setFont,
		"GetStringWidth":  h.getStringWidth,
		"GetStringHeight": h.getStringHeight,
	}
}

func flagSetter(h *Host, set func(*widget.Frame, bool)) lua.LGFunction {
	return func(L *lua.LState) int {
		_, f := h.checkFrame(L, 1)
		enable := true
		if L.GetTop() >= 2 {
			enable = lua.LVAsBool(L.Get(2))
		}
		set(f, enable)
		return 0
	}
}

func flagGetter(h *Host, get func(*widget.Frame) bool) lua.LGFunction {
	return func(L *lua.LState) int {
		_, f := h.checkFrame(L, 1)
		L.Push(lua.LBool(get(f)))
		return 1
	}
}

func (h *Host) checkHandler(L *lua.LState, n int) script.Handler {
	name := L.CheckString(n)
	hk, ok := script.ParseHandler(name)
	if !ok {
		L.ArgError(n, "unknown script handler "+name)
	}
	return hk
}
