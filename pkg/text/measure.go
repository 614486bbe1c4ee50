// Package text measures FontString contents.
//
// Measurements use the fixed-width basicfont face scaled to the requested
// font size. They are stable across platforms, which matters more for a
// headless host than matching the game's real glyph metrics.
package text

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var face = basicfont.Face7x13

// faceHeight is the line height of the base face in pixels.
var faceHeight = float64(face.Metrics().Height.Ceil())

// Width returns the width of the widest line of s at the given font size.
func Width(s string, size float64) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	widest := 0.0
	for _, line := range strings.Split(s, "\n") {
		w := float64(font.MeasureString(face, line)) / 64
		if w > widest {
			widest = w
		}
	}
	return widest * size / faceHeight
}

// Height returns the height of s, one font size per line.
func Height(s string, size float64) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	return float64(Lines(s)) * size
}

// Lines returns the number of lines in s.
func Lines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
