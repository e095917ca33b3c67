// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package hitbox implements the derived geometry and collision test for a
// physics line: the rectangle a contact point must fall within, in the
// line's normal direction, to be considered touching it, and the
// position/friction correction applied when it is. A single Line type
// covers both "normal" and "acceleration" line behavior — acceleration is
// just a non-zero AccelerationVector, not a distinct dispatch path.
package hitbox

import (
	"math"

	"github.com/gazed/trackphysics/geom"
	"github.com/gazed/trackphysics/vec2"
)

// DefaultHeight is the hitbox height used when a Builder does not
// override it.
const DefaultHeight = 10.0

// accelerationFactor scales a line's configured multiplier into the
// velocity nudge applied to points resting on it.
const accelerationFactor = 0.1

// maxExtensionRatio caps how far the left/right limit can reach past the
// line's own endpoints, as a fraction of its length.
const maxExtensionRatio = 0.25

// Line is the immutable, derived form of a track line used for collision.
// It is assembled once by a Builder and never mutated afterward.
type Line struct {
	endpoints     geom.Line
	flipped       bool
	leftExtended  bool
	rightExtended bool
	height        float64
	multiplier    float64
}

// Builder assembles a Line from its construction-time parameters, in the
// same chained-setter style the entity template builder uses.
type Builder struct {
	line Line
}

// NewBuilder starts building a Line with the given endpoints. Height
// defaults to DefaultHeight and the acceleration multiplier to 0 (a
// standard, non-accelerating line).
func NewBuilder(endpoints geom.Line) *Builder {
	return &Builder{line: Line{endpoints: endpoints, height: DefaultHeight}}
}

// Flipped marks the line's hitbox as facing the opposite side.
func (b *Builder) Flipped() *Builder { b.line.flipped = true; return b }

// ExtendLeft lets the hitbox reach past the line's first endpoint.
func (b *Builder) ExtendLeft() *Builder { b.line.leftExtended = true; return b }

// ExtendRight lets the hitbox reach past the line's second endpoint.
func (b *Builder) ExtendRight() *Builder { b.line.rightExtended = true; return b }

// Height overrides the hitbox height.
func (b *Builder) Height(h float64) *Builder { b.line.height = h; return b }

// Multiplier sets the acceleration multiplier applied to points resting on
// the line; 0 (the default) makes this a standard, non-accelerating line.
func (b *Builder) Multiplier(m float64) *Builder { b.line.multiplier = m; return b }

// Build returns the assembled Line.
func (b *Builder) Build() Line { return b.line }

// Endpoints returns the line's endpoints.
func (l Line) Endpoints() geom.Line { return l.endpoints }

// Flipped reports whether the line's hitbox faces the opposite side.
func (l Line) Flipped() bool { return l.flipped }

// Height returns the line's hitbox height.
func (l Line) Height() float64 { return l.height }

// Vector returns the displacement from the first endpoint to the second.
func (l Line) Vector() vec2.Vec2 { return l.endpoints.Vector() }

// Length returns the line's length.
func (l Line) Length() float64 { return l.Vector().Len() }

// InverseLengthSquared returns 1/length², used to project a point's offset
// onto the line without a repeated division.
func (l Line) InverseLengthSquared() float64 { return 1.0 / l.Vector().LenSq() }

// Unit returns the line's direction as a unit vector.
func (l Line) Unit() vec2.Vec2 { return l.Vector().Unit() }

// NormalUnit returns the line's unit normal: the direction rotated
// counter-clockwise, or clockwise if the line is flipped.
func (l Line) NormalUnit() vec2.Vec2 {
	if l.flipped {
		return l.Unit().RotateCW()
	}
	return l.Unit().RotateCCW()
}

func (l Line) extensionRatio() float64 {
	return math.Min(maxExtensionRatio, l.height/l.Length())
}

// LeftLimit returns the lower bound, in units of the line's length from
// its first endpoint, that a point's projection onto the line must clear
// to interact.
func (l Line) LeftLimit() float64 {
	if l.leftExtended {
		return -l.extensionRatio()
	}
	return 0.0
}

// RightLimit is LeftLimit's counterpart at the line's second endpoint.
func (l Line) RightLimit() float64 {
	if l.rightExtended {
		return 1.0 + l.extensionRatio()
	}
	return 1.0
}

// AccelerationVector is the velocity nudge applied to a point each frame
// it rests on the line; the zero vector for a standard line.
func (l Line) AccelerationVector() vec2.Vec2 {
	return l.Unit().Scale(l.multiplier * accelerationFactor)
}

// CheckInteraction reports whether a contact point at position, moving
// with velocity and anchored by previousPosition, is touching this line,
// and if so the corrected (position, previousPosition) pair. Velocity
// itself is never modified here — the caller re-derives it on the next
// frame's momentum step.
func (l Line) CheckInteraction(position, velocity, previousPosition vec2.Vec2, contactFriction float64) (newPosition, newPreviousPosition vec2.Vec2, hit bool) {
	offset := position.Sub(l.endpoints.P0)
	normal := l.NormalUnit()
	movingIntoLine := normal.Dot(velocity) > 0
	d := normal.Dot(offset)
	t := l.Vector().Dot(offset) * l.InverseLengthSquared()

	if !(movingIntoLine && 0 < d && d < l.height && l.LeftLimit() <= t && t <= l.RightLimit()) {
		return position, previousPosition, false
	}

	newPosition = position.Sub(normal.Scale(d))

	friction := normal.RotateCW().Scale(contactFriction * d)
	if previousPosition.X >= newPosition.X {
		friction.X = -friction.X
	}
	// Asymmetric with the x case above: the y flip is strict-less-than.
	// Historical tracks depend on the exact pair of inequalities.
	if previousPosition.Y < newPosition.Y {
		friction.Y = -friction.Y
	}

	newPreviousPosition = previousPosition.Add(friction).Sub(l.AccelerationVector())
	return newPosition, newPreviousPosition, true
}
