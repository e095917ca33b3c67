// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gazed/trackphysics/geom"
	"github.com/gazed/trackphysics/vec2"
)

func TestLineBasics(t *testing.T) {
	l := geom.Line{P0: vec2.New(0, 0), P1: vec2.New(3, 4)}
	assert.Equal(t, 5.0, l.Length())
	assert.Equal(t, vec2.New(1.5, 2), l.Midpoint())
	assert.False(t, l.Degenerate())

	d := geom.Line{P0: vec2.New(1, 1), P1: vec2.New(1, 1)}
	assert.True(t, d.Degenerate())
}

func TestRectangle(t *testing.T) {
	r := geom.RectFromPoints(vec2.New(0, 0), vec2.New(10, 10))
	assert.True(t, r.Contains(vec2.New(5, 5)))
	assert.False(t, r.Contains(vec2.New(11, 5)))

	o := geom.RectFromPoints(vec2.New(5, 5), vec2.New(15, 15))
	assert.True(t, r.Intersects(o))

	far := geom.RectFromPoints(vec2.New(100, 100), vec2.New(110, 110))
	assert.False(t, r.Intersects(far))
}

func TestCircle(t *testing.T) {
	c := geom.Circle{Center: vec2.New(0, 0), Radius: 5}
	assert.True(t, c.Contains(vec2.New(3, 4)))
	assert.False(t, c.Contains(vec2.New(4, 4)))

	// The rectangle's nearest corner, (4,4), lies sqrt(32) ≈ 5.66 from the
	// center, outside the radius.
	r := geom.RectFromPoints(vec2.New(4, 4), vec2.New(10, 10))
	assert.False(t, c.IntersectsRect(r))
}

func TestSegmentIntersection(t *testing.T) {
	a := geom.Line{P0: vec2.New(0, 0), P1: vec2.New(10, 10)}
	b := geom.Line{P0: vec2.New(0, 10), P1: vec2.New(10, 0)}
	p, ok := geom.SegmentIntersection(a, b)
	assert.True(t, ok)
	assert.True(t, p.Aeq(vec2.New(5, 5)))

	c := geom.Line{P0: vec2.New(0, 0), P1: vec2.New(1, 1)}
	d := geom.Line{P0: vec2.New(2, 2), P1: vec2.New(3, 3)}
	_, ok = geom.SegmentIntersection(c, d)
	assert.False(t, ok)
}
