package layout

import "math"

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Offset is a point in screen coordinates (origin top-left, y down).
type Offset struct {
	X float64
	Y float64
}

// Size holds width and height in UI units.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle using left, top, right, bottom edges.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Offset {
	return Offset{
		X: (r.Left + r.Right) * 0.5,
		Y: (r.Top + r.Bottom) * 0.5,
	}
}

// Contains reports whether p lies inside r, edges inclusive.
func (r Rect) Contains(p Offset) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// ApproxEqual compares two rects within epsilon.
func (r Rect) ApproxEqual(o Rect) bool {
	return floatEqual(r.Left, o.Left) && floatEqual(r.Top, o.Top) &&
		floatEqual(r.Right, o.Right) && floatEqual(r.Bottom, o.Bottom)
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
