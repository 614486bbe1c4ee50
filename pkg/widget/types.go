package widget

import "strings"

// ID identifies a frame for the lifetime of the process. IDs are assigned
// in increasing order starting at 1 and are never reused.
type ID uint64

// NoID is the zero ID; it never names a frame.
const NoID ID = 0

// WidgetType is the closed set of frame kinds the host knows about.
type WidgetType uint8

const (
	TypeFrame WidgetType = iota
	TypeButton
	TypeFontString
	TypeTexture
	TypeEditBox
	TypeScrollFrame
	TypeSlider
	TypeCheckButton
	TypeStatusBar
	TypeCooldown
	TypeModel
	TypeModelScene
	TypePlayerModel
	TypeColorSelect
	TypeMessageFrame
	TypeSimpleHTML
	TypeGameTooltip
	TypeMinimap
)

var widgetTypeNames = [...]string{
	TypeFrame:        "Frame",
	TypeButton:       "Button",
	TypeFontString:   "FontString",
	TypeTexture:      "Texture",
	TypeEditBox:      "EditBox",
	TypeScrollFrame:  "ScrollFrame",
	TypeSlider:       "Slider",
	TypeCheckButton:  "CheckButton",
	TypeStatusBar:    "StatusBar",
	TypeCooldown:     "Cooldown",
	TypeModel:        "Model",
	TypeModelScene:   "ModelScene",
	TypePlayerModel:  "PlayerModel",
	TypeColorSelect:  "ColorSelect",
	TypeMessageFrame: "MessageFrame",
	TypeSimpleHTML:   "SimpleHTML",
	TypeGameTooltip:  "GameTooltip",
	TypeMinimap:      "Minimap",
}

func (t WidgetType) String() string {
	if int(t) < len(widgetTypeNames) {
		return widgetTypeNames[t]
	}
	return "Frame"
}

// ParseWidgetType maps a script-supplied type name to a WidgetType.
// Matching is case-insensitive; several aliases used by the game's own
// templates collapse onto the closest base type.
func ParseWidgetType(s string) (WidgetType, bool) {
	switch strings.ToLower(s) {
	case "frame":
		return TypeFrame, true
	case "button", "dropdownbutton", "itembutton", "containedalertframe":
		return TypeButton, true
	case "fontstring":
		return TypeFontString, true
	case "texture":
		return TypeTexture, true
	case "editbox":
		return TypeEditBox, true
	case "scrollframe":
		return TypeScrollFrame, true
	case "slider":
		return TypeSlider, true
	case "checkbutton":
		return TypeCheckButton, true
	case "statusbar":
		return TypeStatusBar, true
	case "cooldown":
		return TypeCooldown, true
	case "model", "dressupmodel":
		return TypeModel, true
	case "modelscene":
		return TypeModelScene, true
	case "playermodel", "cinematicmodel", "tabardmodel":
		return TypePlayerModel, true
	case "colorselect":
		return TypeColorSelect, true
	case "messageframe", "scrollingmessageframe":
		return TypeMessageFrame, true
	case "simplehtml":
		return TypeSimpleHTML, true
	case "gametooltip":
		return TypeGameTooltip, true
	case "minimap":
		return TypeMinimap, true
	}
	return TypeFrame, false
}

// IsA reports whether a frame of type t answers true to IsObjectType(name).
// Every widget is a Frame except the region types; CheckButton is also a Button.
func (t WidgetType) IsA(name string) bool {
	if strings.EqualFold(name, t.String()) {
		return true
	}
	switch strings.ToLower(name) {
	case "frame":
		return t != TypeFontString && t != TypeTexture
	case "button":
		return t == TypeCheckButton
	case "region", "object", "scriptobject":
		return true
	}
	return false
}

// AnchorPoint names one of the nine attachment points of a frame.
type AnchorPoint uint8

const (
	PointCenter AnchorPoint = iota
	PointTop
	PointBottom
	PointLeft
	PointRight
	PointTopLeft
	PointTopRight
	PointBottomLeft
	PointBottomRight
)

var anchorPointNames = [...]string{
	PointCenter:      "CENTER",
	PointTop:         "TOP",
	PointBottom:      "BOTTOM",
	PointLeft:        "LEFT",
	PointRight:       "RIGHT",
	PointTopLeft:     "TOPLEFT",
	PointTopRight:    "TOPRIGHT",
	PointBottomLeft:  "BOTTOMLEFT",
	PointBottomRight: "BOTTOMRIGHT",
}

func (p AnchorPoint) String() string {
	if int(p) < len(anchorPointNames) {
		return anchorPointNames[p]
	}
	return "CENTER"
}

// ParseAnchorPoint parses a point name case-insensitively.
func ParseAnchorPoint(s string) (AnchorPoint, bool) {
	upper := strings.ToUpper(s)
	for i, name := range anchorPointNames {
		if name == upper {
			return AnchorPoint(i), true
		}
	}
	return PointCenter, false
}

// FrameStrata is the coarse draw-order layer of a frame.
type FrameStrata uint8

const (
	StrataWorld FrameStrata = iota
	StrataBackground
	StrataLow
	StrataMedium
	StrataHigh
	StrataDialog
	StrataFullscreen
	StrataFullscreenDialog
	StrataTooltip
)

var strataNames = [...]string{
	StrataWorld:            "WORLD",
	StrataBackground:       "BACKGROUND",
	StrataLow:              "LOW",
	StrataMedium:           "MEDIUM",
	StrataHigh:             "HIGH",
	StrataDialog:           "DIALOG",
	StrataFullscreen:       "FULLSCREEN",
	StrataFullscreenDialog: "FULLSCREEN_DIALOG",
	StrataTooltip:          "TOOLTIP",
}

func (s FrameStrata) String() string {
	if int(s) < len(strataNames) {
		return strataNames[s]
	}
	return "MEDIUM"
}

// ParseFrameStrata parses a strata name case-insensitively.
func ParseFrameStrata(s string) (FrameStrata, bool) {
	upper := strings.ToUpper(s)
	for i, name := range strataNames {
		if name == upper {
			return FrameStrata(i), true
		}
	}
	return StrataMedium, false
}

// Anchor ties one point of a frame to a point of another frame.
type Anchor struct {
	Point AnchorPoint
	// RelativeTo is the frame anchored to; NoID means the frame's parent.
	RelativeTo    ID
	RelativePoint AnchorPoint
	X, Y          float64
}
