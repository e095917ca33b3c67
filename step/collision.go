// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package step

import (
	"github.com/gazed/trackphysics/entity"
	"github.com/gazed/trackphysics/geom"
	"github.com/gazed/trackphysics/hitbox"
)

// Lines is the spatial line lookup the frame step queries for
// collisions. Its one method is satisfied by the root package's
// LineRegistry, which resolves a grid query straight into hitbox.Line
// values so this package never needs to know about grid cells or line
// ids. The returned slice may repeat a line (the same hitbox registered
// in more than one of the 3x3 cells around the query point) — every
// caller here relies on CheckInteraction's idempotence rather than
// deduplicating.
type Lines interface {
	Near(p geom.Point) []hitbox.Line
}

// processCollisions runs every contact point, in template order, against
// every line near its current position, in the order Lines.Near yields
// them. A hit mutates the point's position and computed previous
// position in place so a later duplicate hit against the same line
// (or a different line it's already resting on) is a no-op.
func processCollisions(tpl *entity.Template, state *entity.State, lines Lines) {
	for _, id := range tpl.Points() {
		point := tpl.Point(id)
		if !point.Contact {
			continue
		}
		ps := state.Points[id]
		for _, line := range lines.Near(ps.Position) {
			newPosition, newPrevious, hit := line.CheckInteraction(ps.Position, ps.Velocity, ps.ComputedPreviousPosition, point.ContactFriction)
			if !hit {
				continue
			}
			ps.Position = newPosition
			ps.ComputedPreviousPosition = newPrevious
		}
		state.Points[id] = ps
	}
}
