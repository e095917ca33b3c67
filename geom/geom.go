// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package geom provides the 2D geometric primitives shared by the spatial
// grid and the line hitbox model: points, line segments, axis-aligned
// rectangles, and circles, along with the intersection and inclusion tests
// the rest of the engine needs.
package geom

import (
	"math"

	"github.com/gazed/trackphysics/vec2"
)

// Point is a position in world space. It is an alias of vec2.Vec2 so that
// position values and displacement values stay distinguishable at call
// sites even though they share a representation.
type Point = vec2.Vec2

// Line is an ordered pair of endpoints. The order matters: many derived
// properties (the hitbox normal, in particular) are defined in terms of
// the direction from P0 to P1.
type Line struct {
	P0 Point
	P1 Point
}

// Vector returns the displacement from P0 to P1.
func (l Line) Vector() vec2.Vec2 { return l.P1.Sub(l.P0) }

// Length returns the Euclidean length of the line.
func (l Line) Length() float64 { return l.Vector().Len() }

// Midpoint returns the point halfway between P0 and P1.
func (l Line) Midpoint() Point { return l.P0.Add(l.P1).Scale(0.5) }

// Degenerate reports whether the line's endpoints coincide.
func (l Line) Degenerate() bool { return l.P0.Eq(l.P1) }

// Rectangle is an axis-aligned bounding box given by its minimum and
// maximum corners.
type Rectangle struct {
	Min Point
	Max Point
}

// RectFromPoints returns the smallest Rectangle containing both points.
func RectFromPoints(a, b Point) Rectangle {
	return Rectangle{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Contains reports whether p lies within (inclusive) the rectangle.
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether r and o overlap, including edge-touching.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.Min.X <= o.Max.X && r.Max.X >= o.Min.X &&
		r.Min.Y <= o.Max.Y && r.Max.Y >= o.Min.Y
}

// Circle is a center point and a radius.
type Circle struct {
	Center Point
	Radius float64
}

// Contains reports whether p lies within (inclusive) the circle.
func (c Circle) Contains(p Point) bool {
	return p.DistanceFrom(c.Center) <= c.Radius
}

// IntersectsRect reports whether the circle overlaps the rectangle using
// the closest-point test.
func (c Circle) IntersectsRect(r Rectangle) bool {
	closest := Point{
		X: vec2.Clamp(c.Center.X, r.Min.X, r.Max.X),
		Y: vec2.Clamp(c.Center.Y, r.Min.Y, r.Max.Y),
	}
	return closest.DistanceFrom(c.Center) <= c.Radius
}

// SegmentIntersection reports whether segments a and b cross, and if so
// the point at which they do. Colinear overlapping segments are reported
// as not intersecting (the engine never needs that case).
func SegmentIntersection(a, b Line) (Point, bool) {
	r := a.Vector()
	s := b.Vector()
	rxs := r.Cross(s)
	if math.Abs(rxs) < vec2.Epsilon {
		return Point{}, false // parallel or colinear.
	}
	qp := b.P0.Sub(a.P0)
	t := qp.Cross(s) / rxs
	u := qp.Cross(r) / rxs
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return a.P0.Add(r.Scale(t)), true
}
