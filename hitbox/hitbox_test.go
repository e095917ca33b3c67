// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package hitbox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gazed/trackphysics/geom"
	"github.com/gazed/trackphysics/hitbox"
	"github.com/gazed/trackphysics/vec2"
)

func flatLine() hitbox.Line {
	return hitbox.NewBuilder(geom.Line{P0: vec2.New(-10, 0), P1: vec2.New(10, 0)}).Build()
}

func TestContactPointMovingIntoLineInteracts(t *testing.T) {
	l := flatLine()
	_, _, hit := l.CheckInteraction(vec2.New(1, 1), vec2.New(1, 1), vec2.Zero, 0)
	assert.True(t, hit)
}

func TestPointMovingOutOfLineDoesNotInteract(t *testing.T) {
	l := flatLine()
	_, _, hit := l.CheckInteraction(vec2.New(1, 1), vec2.New(-1, -1), vec2.Zero, 0)
	assert.False(t, hit)
}

func TestPointAboveLineDoesNotInteract(t *testing.T) {
	l := flatLine()
	_, _, hit := l.CheckInteraction(vec2.New(0, -1), vec2.New(1, 1), vec2.Zero, 0)
	assert.False(t, hit)
}

func TestFlippedLineInvertsWhichSideInteracts(t *testing.T) {
	l := hitbox.NewBuilder(geom.Line{P0: vec2.New(-10, 0), P1: vec2.New(10, 0)}).Flipped().Build()
	_, _, hit := l.CheckInteraction(vec2.New(0, -1), vec2.New(-1, -1), vec2.Zero, 0)
	assert.True(t, hit)
}

func TestPointBelowHitboxHeightDoesNotInteract(t *testing.T) {
	l := flatLine()
	_, _, hit := l.CheckInteraction(vec2.New(0, 12), vec2.New(1, 1), vec2.Zero, 0)
	assert.False(t, hit)
}

func TestPointBeyondEndpointsDoesNotInteractUnlessExtended(t *testing.T) {
	l := flatLine()
	_, _, hit := l.CheckInteraction(vec2.New(-11, 5), vec2.New(1, 1), vec2.Zero, 0)
	assert.False(t, hit)

	extended := hitbox.NewBuilder(geom.Line{P0: vec2.New(-10, 0), P1: vec2.New(10, 0)}).ExtendLeft().Build()
	_, _, hit = extended.CheckInteraction(vec2.New(-11, 5), vec2.New(1, 1), vec2.Zero, 0)
	assert.True(t, hit)
}

func TestExtensionRatioCapsAtQuarter(t *testing.T) {
	short := hitbox.NewBuilder(geom.Line{P0: vec2.New(0, 0), P1: vec2.New(12, 9)}).ExtendLeft().ExtendRight().Build()
	assert.Equal(t, -0.25, short.LeftLimit())
	assert.Equal(t, 1.25, short.RightLimit())

	long := hitbox.NewBuilder(geom.Line{P0: vec2.New(0, 0), P1: vec2.New(400, 300)}).ExtendLeft().ExtendRight().Build()
	assert.InDelta(t, -0.02, long.LeftLimit(), 1e-12)
	assert.InDelta(t, 1.02, long.RightLimit(), 1e-12)
}

func TestAccelerationLineIncreasesVelocityAlongDirection(t *testing.T) {
	accel := hitbox.NewBuilder(geom.Line{P0: vec2.New(-10, 10), P1: vec2.New(10, 10)}).Multiplier(1).Build()
	av := accel.AccelerationVector()
	assert.InDelta(t, 0.1, av.X, 1e-12)
	assert.InDelta(t, 0.0, av.Y, 1e-12)

	normal := hitbox.NewBuilder(geom.Line{P0: vec2.New(-10, 10), P1: vec2.New(10, 10)}).Build()
	assert.Equal(t, vec2.Zero, normal.AccelerationVector())
}

func TestInteractionIsIdempotent(t *testing.T) {
	l := flatLine()
	pos, prev, hit := l.CheckInteraction(vec2.New(1, 1), vec2.New(1, 1), vec2.Zero, 0.5)
	assert.True(t, hit)

	pos2, prev2, hit2 := l.CheckInteraction(pos, vec2.New(1, 1), prev, 0.5)
	assert.False(t, hit2, "distance from the hitbox top is now exactly zero, failing the strict 0<d test")
	assert.Equal(t, pos, pos2)
	assert.Equal(t, prev, prev2)
}
