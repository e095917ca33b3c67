// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vec2_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gazed/trackphysics/vec2"
)

func TestAddSub(t *testing.T) {
	a := vec2.New(1, 2)
	b := vec2.New(3, -1)
	assert.Equal(t, vec2.New(4, 1), a.Add(b))
	assert.Equal(t, vec2.New(-2, 3), a.Sub(b))
}

func TestDotCross(t *testing.T) {
	a := vec2.New(1, 0)
	b := vec2.New(0, 1)
	assert.Equal(t, 0.0, a.Dot(b))
	assert.Equal(t, 1.0, a.Cross(b))
	assert.Equal(t, -1.0, b.Cross(a))
}

func TestRotate(t *testing.T) {
	v := vec2.New(1, 0)
	assert.Equal(t, vec2.New(0, 1), v.RotateCCW())
	assert.Equal(t, vec2.New(0, -1), v.RotateCW())
}

func TestLenUnit(t *testing.T) {
	v := vec2.New(3, 4)
	assert.Equal(t, 5.0, v.Len())
	u := v.Unit()
	assert.True(t, u.Aeq(vec2.New(0.6, 0.8)))
}

func TestUnitZero(t *testing.T) {
	assert.Equal(t, vec2.Zero, vec2.Zero.Unit())
}

func TestPointHelpers(t *testing.T) {
	p := vec2.New(5, 5)
	q := p.TranslatedBy(vec2.New(1, 1))
	assert.Equal(t, vec2.New(6, 6), q)
	assert.Equal(t, vec2.New(1, 1), q.VectorFrom(p))
	assert.InDelta(t, 1.4142135623730951, q.DistanceFrom(p), 1e-12)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, vec2.Clamp(-5, 0, 1))
	assert.Equal(t, 1.0, vec2.Clamp(5, 0, 1))
	assert.Equal(t, 0.5, vec2.Clamp(0.5, 0, 1))
}
