package animation

import (
	"fmt"
	"strings"
)

// Smoothing curves transform linear animation progress into eased progress.
//
// Each curve takes a value t in [0, 1] and returns a transformed value in
// [0, 1]. The curves are quadratic; an [Animation] picks one through its
// [Smoothing] setting.

// LinearCurve returns linear progress (no easing).
func LinearCurve(t float64) float64 {
	return clampUnit(t)
}

// EaseIn starts slowly and accelerates.
func EaseIn(t float64) float64 {
	t = clampUnit(t)
	return t * t
}

// EaseOut starts quickly and decelerates.
func EaseOut(t float64) float64 {
	inv := 1 - clampUnit(t)
	return 1 - inv*inv
}

// EaseInOut accelerates through the first half and decelerates through
// the second.
func EaseInOut(t float64) float64 {
	t = clampUnit(t)
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// Smoothing names the easing an animation applies to its progress.
type Smoothing int

const (
	SmoothNone Smoothing = iota
	SmoothIn
	SmoothOut
	SmoothInOut
)

// ParseSmoothing maps a script smoothing name to a Smoothing. Matching is
// case-insensitive; "INOUT" is accepted for IN_OUT and anything unknown is
// SmoothNone.
func ParseSmoothing(s string) Smoothing {
	switch strings.ToUpper(s) {
	case "IN":
		return SmoothIn
	case "OUT":
		return SmoothOut
	case "IN_OUT", "INOUT":
		return SmoothInOut
	default:
		return SmoothNone
	}
}

// String returns the script name of the smoothing.
func (s Smoothing) String() string {
	switch s {
	case SmoothNone:
		return "NONE"
	case SmoothIn:
		return "IN"
	case SmoothOut:
		return "OUT"
	case SmoothInOut:
		return "IN_OUT"
	default:
		return fmt.Sprintf("Smoothing(%d)", int(s))
	}
}

// Curve returns the easing function for s.
func (s Smoothing) Curve() func(float64) float64 {
	switch s {
	case SmoothIn:
		return EaseIn
	case SmoothOut:
		return EaseOut
	case SmoothInOut:
		return EaseInOut
	default:
		return LinearCurve
	}
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
