package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/go-drift/framehost/pkg/animation"
	"github.com/go-drift/framehost/pkg/widget"
)

const (
	groupTypeName = "framehost.AnimationGroup"
	animTypeName  = "framehost.Animation"
)

// groupScript adapts a Lua function to animation.Script. The group is
// passed as self, followed by the handler arguments.
type groupScript struct {
	host *Host
	fn   *lua.LFunction
}

func (s groupScript) Invoke(g *animation.Group, args []widget.Value) error {
	largs := make([]lua.LValue, 0, len(args)+1)
	largs = append(largs, s.host.groupValue(g))
	for _, a := range args {
		largs = append(largs, s.host.toLua(a))
	}
	return s.host.call(s.fn, largs...)
}

func (h *Host) registerAnimationTypes() {
	L := h.L
	mt := L.NewTypeMetatable(groupTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), h.groupMethods()))
	mt = L.NewTypeMetatable(animTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), h.animMethods()))
}

// groupValue returns the single userdata that represents g.
func (h *Host) groupValue(g *animation.Group) *lua.LUserData {
	if ud, ok := h.groups[g]; ok {
		return ud
	}
	ud := h.L.NewUserData()
	ud.Value = g
	h.L.SetMetatable(ud, h.L.GetTypeMetatable(groupTypeName))
	h.groups[g] = ud
	return ud
}

// animValue returns the single userdata that represents a.
func (h *Host) animValue(a *animation.Animation) *lua.LUserData {
	if ud, ok := h.anims[a]; ok {
		return ud
	}
	ud := h.L.NewUserData()
	ud.Value = a
	h.L.SetMetatable(ud, h.L.GetTypeMetatable(animTypeName))
	h.anims[a] = ud
	return ud
}

func (h *Host) checkGroup(L *lua.LState, n int) *animation.Group {
	ud := L.CheckUserData(n)
	if g, ok := ud.Value.(*animation.Group); ok {
		return g
	}
	L.ArgError(n, "animation group expected")
	return nil
}

func (h *Host) checkAnim(L *lua.LState, n int) *animation.Animation {
	ud := L.CheckUserData(n)
	if a, ok := ud.Value.(*animation.Animation); ok {
		return a
	}
	L.ArgError(n, "animation expected")
	return nil
}

func (h *Host) checkGroupEvent(L *lua.LState, n int) animation.Event {
	name := L.CheckString(n)
	ev, ok := animation.ParseEvent(name)
	if !ok {
		L.ArgError(n, "unknown script handler "+name)
	}
	return ev
}

// frame:SetAlpha(alpha)
func (h *Host) setAlpha(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	h.engine.SetAlpha(id, float64(L.CheckNumber(2)))
	return 0
}

func (h *Host) getAlpha(L *lua.LState) int {
	_, f := h.checkFrame(L, 1)
	L.Push(lua.LNumber(f.Alpha))
	return 1
}

func (h *Host) getEffectiveAlpha(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	L.Push(lua.LNumber(h.engine.Registry().EffectiveAlpha(id)))
	return 1
}

// frame:CreateAnimationGroup([name [, template]])
func (h *Host) createAnimationGroup(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	g, _ := h.engine.CreateAnimationGroup(id, L.OptString(2, ""))
	L.Push(h.groupValue(g))
	return 1
}

func (h *Host) getAnimationGroups(L *lua.LState) int {
	id, _ := h.checkFrame(L, 1)
	groups := h.engine.AnimationGroups(id)
	for _, g := range groups {
		L.Push(h.groupValue(g))
	}
	return len(groups)
}

func (h *Host) groupMethods() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		// Playback.
		"Play": func(L *lua.LState) int {
			h.engine.PlayAnimation(h.checkGroup(L, 1), lua.LVAsBool(L.Get(2)))
			return 0
		},
		"Restart": func(L *lua.LState) int {
			g := h.checkGroup(L, 1)
			if g.IsPlaying() || g.IsPaused() {
				h.engine.StopAnimation(g)
			}
			h.engine.PlayAnimation(g, lua.LVAsBool(L.Get(2)))
			return 0
		},
		"Pause": func(L *lua.LState) int {
			h.engine.PauseAnimation(h.checkGroup(L, 1))
			return 0
		},
		"Stop": func(L *lua.LState) int {
			h.engine.StopAnimation(h.checkGroup(L, 1))
			return 0
		},
		"Finish": func(L *lua.LState) int {
			h.engine.FinishAnimation(h.checkGroup(L, 1))
			return 0
		},

		// State.
		"IsPlaying": groupFlag(h, (*animation.Group).IsPlaying),
		"IsPaused":  groupFlag(h, (*animation.Group).IsPaused),
		"IsDone":    groupFlag(h, (*animation.Group).IsDone),
		"IsReverse": groupFlag(h, (*animation.Group).IsReverse),

		// Looping.
		"SetLooping": func(L *lua.LState) int {
			h.checkGroup(L, 1).Looping = animation.ParseLoopType(L.OptString(2, "NONE"))
			return 0
		},
		"GetLooping":   h.groupGetLooping,
		"GetLoopState": h.groupGetLooping,

		// Timing.
		"GetDuration": groupNumber(h, (*animation.Group).Duration),
		"GetElapsed":  groupNumber(h, (*animation.Group).Elapsed),
		"GetProgress": groupNumber(h, (*animation.Group).Progress),
		"SetAnimationSpeedMultiplier": func(L *lua.LState) int {
			h.checkGroup(L, 1).SpeedMultiplier = float64(L.CheckNumber(2))
			return 0
		},
		"GetAnimationSpeedMultiplier": groupNumber(h, func(g *animation.Group) float64 { return g.SpeedMultiplier }),

		// Alpha.
		"SetToFinalAlpha": func(L *lua.LState) int {
			h.checkGroup(L, 1).SetToFinalAlpha = lua.LVAsBool(L.Get(2))
			return 0
		},
		"IsSetToFinalAlpha": groupFlag(h, func(g *animation.Group) bool { return g.SetToFinalAlpha }),

		// Scripts.
		"SetScript": h.groupSetScript,
		"GetScript": h.groupGetScript,
		"HasScript": h.groupHasScript,

		// Identity.
		"GetName": func(L *lua.LState) int {
			g := h.checkGroup(L, 1)
			if g.Name == "" {
				L.Push(lua.LNil)
			} else {
				L.Push(lua.LString(g.Name))
			}
			return 1
		},
		"GetObjectType": func(L *lua.LState) int {
			h.checkGroup(L, 1)
			L.Push(lua.LString("AnimationGroup"))
			return 1
		},
		"GetParent": func(L *lua.LState) int {
			L.Push(h.frameValue(h.checkGroup(L, 1).Owner))
			return 1
		},

		// Animations.
		"CreateAnimation": h.groupCreateAnimation,
		"GetAnimations": func(L *lua.LState) int {
			anims := h.checkGroup(L, 1).Animations()
			for _, a := range anims {
				L.Push(h.animValue(a))
			}
			return len(anims)
		},
		"RemoveAnimations": func(L *lua.LState) int {
			h.checkGroup(L, 1).RemoveAnimations()
			return 0
		},
	}
}

func groupFlag(h *Host, get func(*animation.Group) bool) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LBool(get(h.checkGroup(L, 1))))
		return 1
	}
}

func groupNumber(h *Host, get func(*animation.Group) float64) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LNumber(get(h.checkGroup(L, 1))))
		return 1
	}
}

func (h *Host) groupGetLooping(L *lua.LState) int {
	L.Push(lua.LString(h.checkGroup(L, 1).Looping.String()))
	return 1
}

func (h *Host) groupSetScript(L *lua.LState) int {
	g := h.checkGroup(L, 1)
	ev := h.checkGroupEvent(L, 2)
	switch fn := L.Get(3).(type) {
	case *lua.LFunction:
		g.SetScript(ev, groupScript{host: h, fn: fn})
	case *lua.LNilType:
		g.SetScript(ev, nil)
	default:
		L.ArgError(3, "function or nil expected")
	}
	return 0
}

func (h *Host) groupGetScript(L *lua.LState) int {
	g := h.checkGroup(L, 1)
	ev := h.checkGroupEvent(L, 2)
	if s, ok := g.Script(ev); ok {
		if gs, ok := s.(groupScript); ok {
			L.Push(gs.fn)
			return 1
		}
	}
	L.Push(lua.LNil)
	return 1
}

// group:HasScript(handler) reports whether a callback is set.
func (h *Host) groupHasScript(L *lua.LState) int {
	g := h.checkGroup(L, 1)
	ev, ok := animation.ParseEvent(L.CheckString(2))
	if ok {
		_, ok = g.Script(ev)
	}
	L.Push(lua.LBool(ok))
	return 1
}

// group:CreateAnimation([type [, name]])
func (h *Host) groupCreateAnimation(L *lua.LState) int {
	g := h.checkGroup(L, 1)
	a := g.CreateAnimation(animation.ParseType(L.OptString(2, "Animation")), L.OptString(3, ""))
	L.Push(h.animValue(a))
	return 1
}

func (h *Host) animMethods() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"SetDuration":   animSetter(h, func(a *animation.Animation, v float64) { a.Duration = v }),
		"GetDuration":   animGetter(h, func(a *animation.Animation) float64 { return a.Duration }),
		"SetStartDelay": animSetter(h, func(a *animation.Animation, v float64) { a.StartDelay = v }),
		"GetStartDelay": animGetter(h, func(a *animation.Animation) float64 { return a.StartDelay }),
		"SetEndDelay":   animSetter(h, func(a *animation.Animation, v float64) { a.EndDelay = v }),
		"GetEndDelay":   animGetter(h, func(a *animation.Animation) float64 { return a.EndDelay }),
		"SetFromAlpha":  animSetter(h, func(a *animation.Animation, v float64) { a.FromAlpha = v }),
		"GetFromAlpha":  animGetter(h, func(a *animation.Animation) float64 { return a.FromAlpha }),
		"SetToAlpha":    animSetter(h, func(a *animation.Animation, v float64) { a.ToAlpha = v }),
		"GetToAlpha":    animGetter(h, func(a *animation.Animation) float64 { return a.ToAlpha }),

		"GetElapsed":        animGetter(h, (*animation.Animation).Elapsed),
		"GetProgress":       animGetter(h, (*animation.Animation).Progress),
		"GetSmoothProgress": animGetter(h, (*animation.Animation).SmoothProgress),

		"SetOrder": func(L *lua.LState) int {
			h.checkAnim(L, 1).Order = L.CheckInt(2)
			return 0
		},
		"GetOrder": func(L *lua.LState) int {
			L.Push(lua.LNumber(h.checkAnim(L, 1).Order))
			return 1
		},
		"SetSmoothing": func(L *lua.LState) int {
			h.checkAnim(L, 1).Smoothing = animation.ParseSmoothing(L.CheckString(2))
			return 0
		},
		"GetSmoothing": func(L *lua.LState) int {
			L.Push(lua.LString(h.checkAnim(L, 1).Smoothing.String()))
			return 1
		},
		"SetChildKey": func(L *lua.LState) int {
			h.checkAnim(L, 1).ChildKey = L.OptString(2, "")
			return 0
		},
		"GetChildKey": func(L *lua.LState) int {
			if k := h.checkAnim(L, 1).ChildKey; k != "" {
				L.Push(lua.LString(k))
			} else {
				L.Push(lua.LNil)
			}
			return 1
		},

		"GetName": func(L *lua.LState) int {
			if n := h.checkAnim(L, 1).Name; n != "" {
				L.Push(lua.LString(n))
			} else {
				L.Push(lua.LNil)
			}
			return 1
		},
		"GetObjectType": func(L *lua.LState) int {
			L.Push(lua.LString(h.checkAnim(L, 1).Type.String()))
			return 1
		},
		"GetParent": func(L *lua.LState) int {
			L.Push(h.groupValue(h.checkAnim(L, 1).Group()))
			return 1
		},
		"GetRegionParent": func(L *lua.LState) int {
			L.Push(h.frameValue(h.checkAnim(L, 1).Group().Owner))
			return 1
		},
	}
}

func animSetter(h *Host, set func(*animation.Animation, float64)) lua.LGFunction {
	return func(L *lua.LState) int {
		set(h.checkAnim(L, 1), float64(L.CheckNumber(2)))
		return 0
	}
}

func animGetter(h *Host, get func(*animation.Animation) float64) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LNumber(get(h.checkAnim(L, 1))))
		return 1
	}
}
