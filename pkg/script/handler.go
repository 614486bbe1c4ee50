// Package script holds per-frame script handlers and dispatches events.
//
// Every frame has, per [Handler] kind, at most one primary callback set by
// SetScript and an append-only list of hooks added by HookScript. Running a
// handler always runs the primary first and then every hook, whether or not
// the primary exists or fails. Dispatch state is passed explicitly through a
// [Context]; nothing here is global.
package script

import "strings"

// Handler is a script handler kind such as OnEvent or OnClick.
type Handler uint8

const (
	OnEvent Handler = iota
	OnUpdate
	OnShow
	OnHide
	OnClick
	OnEnter
	OnLeave
	OnMouseDown
	OnMouseUp
	OnDragStart
	OnDragStop
	OnReceiveDrag
	OnMouseWheel
	OnSizeChanged
	OnLoad
	OnAttributeChanged
	OnKeyDown
	OnKeyUp
	OnChar
	OnEnterPressed
	OnEscapePressed
	OnTabPressed
	OnSpacePressed
	OnEditFocusGained
	OnEditFocusLost
	OnTextChanged
	OnValueChanged
	OnMinMaxChanged
	OnTooltipCleared
	OnPostClick
	PreClick
	PostClick
	OnEnable
	OnDisable

	handlerCount
)

var handlerNames = [...]string{
	OnEvent:            "OnEvent",
	OnUpdate:           "OnUpdate",
	OnShow:             "OnShow",
	OnHide:             "OnHide",
	OnClick:            "OnClick",
	OnEnter:            "OnEnter",
	OnLeave:            "OnLeave",
	OnMouseDown:        "OnMouseDown",
	OnMouseUp:          "OnMouseUp",
	OnDragStart:        "OnDragStart",
	OnDragStop:         "OnDragStop",
	OnReceiveDrag:      "OnReceiveDrag",
	OnMouseWheel:       "OnMouseWheel",
	OnSizeChanged:      "OnSizeChanged",
	OnLoad:             "OnLoad",
	OnAttributeChanged: "OnAttributeChanged",
	OnKeyDown:          "OnKeyDown",
	OnKeyUp:            "OnKeyUp",
	OnChar:             "OnChar",
	OnEnterPressed:     "OnEnterPressed",
	OnEscapePressed:    "OnEscapePressed",
	OnTabPressed:       "OnTabPressed",
	OnSpacePressed:     "OnSpacePressed",
	OnEditFocusGained:  "OnEditFocusGained",
	OnEditFocusLost:    "OnEditFocusLost",
	OnTextChanged:      "OnTextChanged",
	OnValueChanged:     "OnValueChanged",
	OnMinMaxChanged:    "OnMinMaxChanged",
	OnTooltipCleared:   "OnTooltipCleared",
	OnPostClick:        "OnPostClick",
	PreClick:           "PreClick",
	PostClick:          "PostClick",
	OnEnable:           "OnEnable",
	OnDisable:          "OnDisable",
}

func (h Handler) String() string {
	if h < handlerCount {
		return handlerNames[h]
	}
	return "Unknown"
}

// ParseHandler looks up a handler by name, ignoring case.
func ParseHandler(name string) (Handler, bool) {
	for i, n := range handlerNames {
		if strings.EqualFold(n, name) {
			return Handler(i), true
		}
	}
	return 0, false
}

// Handlers returns every handler kind in declaration order.
func Handlers() []Handler {
	out := make([]Handler, handlerCount)
	for i := range out {
		out[i] = Handler(i)
	}
	return out
}
