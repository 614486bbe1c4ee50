// Package animation implements frame animation groups: ordered sets of
// timed animations that a host advances once per simulation step.
//
// A [Group] owns its [Animation] values and knows nothing about frames
// beyond the owner's ID. Advancing a group yields the alpha [Change]s the
// host applies to frames; script callbacks are stored on the group and run
// by the host so failures flow through its error handler.
package animation

import (
	"fmt"
	"strings"
)

// Type is the kind of an animation. Only Alpha changes frame state; the
// other kinds contribute timing only.
type Type int

const (
	TypeAnimation Type = iota
	TypeAlpha
	TypeTranslation
	TypeScale
	TypeRotation
	TypeLineTranslation
	TypeLineScale
	TypePath
	TypeFlipBook
	TypeVertexColor
	TypeTextureCoordTranslation
)

var typeNames = [...]string{
	TypeAnimation:               "Animation",
	TypeAlpha:                   "Alpha",
	TypeTranslation:             "Translation",
	TypeScale:                   "Scale",
	TypeRotation:                "Rotation",
	TypeLineTranslation:         "LineTranslation",
	TypeLineScale:               "LineScale",
	TypePath:                    "Path",
	TypeFlipBook:                "FlipBook",
	TypeVertexColor:             "VertexColor",
	TypeTextureCoordTranslation: "TextureCoordTranslation",
}

// ParseType maps a CreateAnimation type name to a Type, ignoring case.
// Unknown names yield TypeAnimation.
func ParseType(s string) Type {
	for t, name := range typeNames {
		if strings.EqualFold(name, s) {
			return Type(t)
		}
	}
	return TypeAnimation
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Animation is one timed step of a [Group]. Animations sharing an Order
// run in parallel; orders run one after another in ascending order.
//
// Timing is in seconds. An animation's total time is
// StartDelay + Duration + EndDelay.
type Animation struct {
	Type Type
	Name string

	// Order defaults to 1.
	Order      int
	Duration   float64
	StartDelay float64
	EndDelay   float64
	Smoothing  Smoothing

	// ChildKey targets the owner's keyed child instead of the owner.
	ChildKey string

	// FromAlpha and ToAlpha default to 0 and 1.
	FromAlpha float64
	ToAlpha   float64

	group   *Group
	elapsed float64
}

func newAnimation(g *Group, t Type, name string) *Animation {
	return &Animation{
		Type:    t,
		Name:    name,
		Order:   1,
		ToAlpha: 1,
		group:   g,
	}
}

// Group returns the group the animation belongs to.
func (a *Animation) Group() *Group { return a.group }

// TotalTime returns StartDelay + Duration + EndDelay.
func (a *Animation) TotalTime() float64 {
	return a.StartDelay + a.Duration + a.EndDelay
}

// Elapsed returns the time spent in the animation during the current pass.
func (a *Animation) Elapsed() float64 { return a.elapsed }

// IsActive reports whether the start delay has passed.
func (a *Animation) IsActive() bool { return a.elapsed >= a.StartDelay }

// Progress returns linear progress through Duration in [0, 1]. An
// animation with no duration is always complete.
func (a *Animation) Progress() float64 {
	if a.Duration <= 0 {
		return 1
	}
	t := a.elapsed - a.StartDelay
	if t < 0 {
		t = 0
	}
	if t > a.Duration {
		t = a.Duration
	}
	return t / a.Duration
}

// SmoothProgress returns Progress passed through the Smoothing curve.
func (a *Animation) SmoothProgress() float64 {
	return a.Smoothing.Curve()(a.Progress())
}

// Alpha returns the alpha at the current progress. When reverse is set the
// progress runs from 1 to 0.
func (a *Animation) Alpha(reverse bool) float64 {
	p := a.SmoothProgress()
	if reverse {
		p = 1 - p
	}
	return TweenFloat64(a.FromAlpha, a.ToAlpha).Evaluate(p)
}
