package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/go-drift/framehost/pkg/engine"
	"github.com/go-drift/framehost/pkg/script"
	"github.com/go-drift/framehost/pkg/text"
	"github.com/go-drift/framehost/pkg/widget"
)

func isRegion(t widget.WidgetType) bool {
	return t == widget.TypeFontString || t == widget.TypeTexture
}

func (h *Host) getName(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	if f.Name == "" {
		L.Push(lua.LNil)
	} else {
		L.Push(lua.LString(f.Name))
	}
	return 1
}

func (h *Host) getObjectType(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(lua.LString(f.Type.String()))
	return 1
}

func (h *Host) isObjectType(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(lua.LBool(f.Type.IsA(L.CheckString(2))))
	return 1
}

func (h *Host) getParent(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(h.frameValue(f.Parent))
	return 1
}

func (h *Host) setParent(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	parent := widget.NoID
	if v := L.Get(2); v != lua.LNil {
		p, ok := h.resolveFrame(v)
		if !ok {
			L.ArgError(2, "parent must be a frame")
			return 0
		}
		parent = p
	}
	h.engine.SetParent(id, parent)
	return 0
}

func (h *Host) childIDs(f *widget.Frame, regions bool) []widget.ID {
	var out []widget.ID
	for _, c := range f.Children {
		if cf, ok := h.engine.Registry().Get(c); ok && isRegion(cf.Type) == regions {
			out = append(out, c)
		}
	}
	return out
}

func (h *Host) pushFrames(L *lua.LState, ids []widget.ID) int {
	for _, id := range ids {
		L.Push(h.frameValue(id))
	}
	return len(ids)
}

func (h *Host) getChildren(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	return h.pushFrames(L, h.childIDs(f, false))
}

func (h *Host) getRegions(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	return h.pushFrames(L, h.childIDs(f, true))
}

func (h *Host) getNumChildren(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(lua.LNumber(len(h.childIDs(f, false))))
	return 1
}

func (h *Host) setParentKey(L *lua.LState) int {
	id, f := h.checkFrame(L, 1)
	h.engine.Registry().SetChildKey(f.Parent, L.CheckString(2), id)
	return 0
}

// createRegion implements CreateFontString and CreateTexture:
// (name, layer, template).
func (h *Host) createRegion(L *lua.LState, typ string) int {
	id, _ := h.checkFrame(L, 1)
	name := L.OptString(2, "")
	tmpl := L.OptString(4, "")
	child := h.engine.CreateFrame(engine.FrameSpec{Type: typ, Name: name, Parent: id, Template: tmpl})
	h.publish(child)
	L.Push(h.frameValue(child))
	return 1
}

// SetPoint accepts:
//
//	SetPoint(point)
//	SetPoint(point, x, y)
//	SetPoint(point, relativeTo)
//	SetPoint(point, relativeTo, relativePoint)
//	SetPoint(point, relativeTo, relativePoint, x, y)
//
// relativeTo may be a frame, a global frame name or nil for the parent.
func (h *Host) setPoint(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	point := widget.PointCenter
	if L.GetTop() >= 2 {
		p, ok := widget.ParseAnchorPoint(L.CheckString(2))
		if !ok {
			L.ArgError(2, "invalid anchor point")
			return 0
		}
		point = p
	}
	a := widget.Anchor{Point: point, RelativePoint: point}

	extra := L.GetTop() - 2
	if extra > 0 {
		if x, ok := L.Get(3).(lua.LNumber); ok && extra <= 2 {
			a.X = float64(x)
			a.Y = float64(L.OptNumber(4, 0))
		} else {
			a.RelativeTo = h.checkRelative(L, 3)
			if rp, ok := L.Get(4).(lua.LString); ok {
				if p, ok := widget.ParseAnchorPoint(string(rp)); ok {
					a.RelativePoint = p
				}
			}
			a.X = float64(L.OptNumber(5, 0))
			a.Y = float64(L.OptNumber(6, 0))
		}
	}
	h.engine.SetPoint(id, a)
	return 0
}

func (h *Host) checkRelative(L *lua.LState, n int) widget.ID {
	v := L.Get(n)
	if v == lua.LNil {
		return widget.NoID
	}
	rel, ok := h.resolveFrame(v)
	if !ok {
		L.ArgError(n, "couldn't find relative frame")
	}
	return rel
}

func (h *Host) setAllPoints(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	if L.Get(2) == lua.LFalse {
		return 0
	}
	rel := widget.NoID
	if r, ok := h.resolveFrame(L.Get(2)); ok {
		rel = r
	}
	h.engine.SetAllPoints(id, rel)
	return 0
}

func (h *Host) clearAllPoints(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.ClearAllPoints(id)
	return 0
}

func (h *Host) clearPoint(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	if p, ok := widget.ParseAnchorPoint(L.CheckString(2)); ok {
		h.engine.ClearPoint(id, p)
	}
	return 0
}

// GetPoint(index) returns point, relativeTo, relativePoint, x, y. An
// anchor with no explicit target reports the parent.
func (h *Host) getPoint(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	i := L.OptInt(2, 1) - 1
	if i < 0 || i >= len(f.Anchors) {
		return 0
	}
	a := f.Anchors[i]
	rel := a.RelativeTo
	if rel == widget.NoID {
		rel = f.Parent
	}
	L.Push(lua.LString(a.Point.String()))
	L.Push(h.frameValue(rel))
	L.Push(lua.LString(a.RelativePoint.String()))
	L.Push(lua.LNumber(a.X))
	L.Push(lua.LNumber(a.Y))
	return 5
}

func (h *Host) getNumPoints(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(lua.LNumber(len(f.Anchors)))
	return 1
}

func (h *Host) setSize(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.SetSize(id, float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
	return 0
}

func (h *Host) setWidth(L *lua.LState) int {
	id, f := h.checkFrame(L, 1)
	h.engine.SetSize(id, float64(L.CheckNumber(2)), f.Height)
	return 0
}

func (h *Host) setHeight(L *lua.LState) int {
	id, f := h.checkFrame(L, 1)
	h.engine.SetSize(id, f.Width, float64(L.CheckNumber(2)))
	return 0
}

func (h *Host) getWidth(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LNumber(h.engine.Width(id)))
	return 1
}

func (h *Host) getHeight(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LNumber(h.engine.Height(id)))
	return 1
}

func (h *Host) getSize(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LNumber(h.engine.Width(id)))
	L.Push(lua.LNumber(h.engine.Height(id)))
	return 2
}

// GetRect returns left, bottom, width, height. Scripts see y-up coordinates
// with the origin at the bottom-left of the screen.
func (h *Host) getRect(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	r := h.engine.Rect(id)
	L.Push(lua.LNumber(r.Left))
	L.Push(lua.LNumber(h.engine.Screen().Height - r.Bottom))
	L.Push(lua.LNumber(r.Width()))
	L.Push(lua.LNumber(r.Height()))
	return 4
}

func (h *Host) getLeft(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LNumber(h.engine.Rect(id).Left))
	return 1
}

func (h *Host) getRight(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LNumber(h.engine.Rect(id).Right))
	return 1
}

func (h *Host) getTop(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LNumber(h.engine.Screen().Height - h.engine.Rect(id).Top))
	return 1
}

func (h *Host) getBottom(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LNumber(h.engine.Screen().Height - h.engine.Rect(id).Bottom))
	return 1
}

func (h *Host) show(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.SetShown(id, true)
	return 0
}

func (h *Host) hide(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.SetShown(id, false)
	return 0
}

func (h *Host) setShown(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.SetShown(id, lua.LVAsBool(L.Get(2)))
	return 0
}

func (h *Host) isShown(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(lua.LBool(f.Visible))
	return 1
}

func (h *Host) isVisible(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LBool(h.engine.Registry().IsVisible(id)))
	return 1
}

func (h *Host) registerEvent(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LBool(h.engine.Registry().RegisterEvent(id, L.CheckString(2))))
	return 1
}

func (h *Host) unregisterEvent(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LBool(h.engine.Registry().UnregisterEvent(id, L.CheckString(2))))
	return 1
}

func (h *Host) registerAllEvents(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.Registry().RegisterAllEvents(id)
	return 0
}

func (h *Host) unregisterAllEvents(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.Registry().UnregisterAllEvents(id)
	return 0
}

func (h *Host) isEventRegistered(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LBool(h.engine.Registry().IsEventRegistered(id, L.CheckString(2))))
	return 1
}

func (h *Host) setScript(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	hk := h.checkHandler(L, 2)
	switch fn := L.Get(3).(type) {
	case *lua.LFunction:
		h.engine.Scripts().SetScript(id, hk, luaFunc{host: h, fn: fn})
	case *lua.LNilType:
		h.engine.Scripts().SetScript(id, hk, nil)
	default:
		L.ArgError(3, "function or nil expected")
	}
	return 0
}

func (h *Host) getScript(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	hk := h.checkHandler(L, 2)
	if fn, ok := h.engine.Scripts().Script(id, hk); ok {
		if lf, ok := fn.(luaFunc); ok {
			L.Push(lf.fn)
			return 1
		}
	}
	L.Push(lua.LNil)
	return 1
}

func (h *Host) hookScript(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	hk := h.checkHandler(L, 2)
	fn := L.CheckFunction(3)
	h.engine.Scripts().HookScript(id, hk, luaFunc{host: h, fn: fn})
	return 0
}

func (h *Host) hasScript(L *lua.LState) int {
	h.checkFrame(L, 1)
	_, ok := script.ParseHandler(L.CheckString(2))
	L.Push(lua.LBool(ok))
	return 1
}

func (h *Host) setAttribute(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.SetAttribute(id, L.CheckString(2), h.toValue(L.Get(3)))
	return 0
}

func (h *Host) getAttribute(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(h.toLua(f.Attribute(L.CheckString(2))))
	return 1
}

func (h *Host) setFrameStrata(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	s, ok := widget.ParseFrameStrata(L.CheckString(2))
	if !ok {
		L.ArgError(2, "invalid frame strata")
		return 0
	}
	h.engine.Registry().SetStrata(id, s)
	return 0
}

func (h *Host) getFrameStrata(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(lua.LString(f.Strata.String()))
	return 1
}

func (h *Host) setFrameLevel(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.Registry().SetLevel(id, L.CheckInt(2))
	return 0
}

func (h *Host) getFrameLevel(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(lua.LNumber(f.Level))
	return 1
}

// textTarget is the frame holding the text of f: f itself for text
// widgets, else its "Text" child when it has one.
func (h *Host) textTarget(f *widget.Frame) *widget.Frame {
	if f.Type == widget.TypeFontString || f.Type == widget.TypeEditBox {
		return f
	}
	if c, ok := f.ChildKeys["Text"]; ok {
		if cf, ok := h.engine.Registry().Get(c); ok {
			return cf
		}
	}
	return f
}

func (h *Host) setText(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	s := ""
	if v := L.Get(2); v != lua.LNil {
		s = L.ToStringMeta(v).String()
	}
	h.textTarget(f).Text = s
	return 0
}

func (h *Host) getText(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(lua.LString(h.textTarget(f).Text))
	return 1
}

// SetFont(path, size, flags); only the size is modelled.
func (h *Host) setFont(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	size := float64(L.OptNumber(3, widget.DefaultFontSize))
	if size <= 0 {
		L.Push(lua.LFalse)
		return 1
	}
	h.textTarget(f).FontSize = size
	L.Push(lua.LTrue)
	return 1
}

func (h *Host) getStringWidth(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	t := h.textTarget(f)
	L.Push(lua.LNumber(text.Width(t.Text, t.FontSize)))
	return 1
}

func (h *Host) getStringHeight(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	t := h.textTarget(f)
	L.Push(lua.LNumber(text.Height(t.Text, t.FontSize)))
	return 1
}
