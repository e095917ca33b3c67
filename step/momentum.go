// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package step

import (
	"github.com/gazed/trackphysics/entity"
	"github.com/gazed/trackphysics/vec2"
)

// Gravity is the constant downward (screen-space, +y is down) acceleration
// applied to every point each frame.
var Gravity = vec2.New(0.0, 0.175)

// MomentumStage names one tick of the momentum step, in the order they
// run. A caller stepping frame-by-frame observes the same intermediate
// velocities a full applyMomentum call only passes through.
type MomentumStage int

const (
	// StageAcceleration re-derives velocity from how far the point has
	// moved since its last computed previous position.
	StageAcceleration MomentumStage = iota
	// StageFriction sheds the point's own air friction off that velocity.
	StageFriction
	// StageGravity adds the constant downward acceleration.
	StageGravity
	// StageMomentum carries the point forward by its final velocity and
	// rolls ComputedPreviousPosition to the pre-update position.
	StageMomentum
)

// applyMomentumStage runs one tick of the momentum step for every point,
// in template order.
func applyMomentumStage(tpl *entity.Template, state *entity.State, stage MomentumStage) {
	for _, id := range tpl.Points() {
		point := tpl.Point(id)
		ps := state.Points[id]

		switch stage {
		case StageAcceleration:
			ps.Velocity = ps.Position.Sub(ps.ComputedPreviousPosition)
		case StageFriction:
			ps.Velocity = ps.Velocity.Scale(1 - point.AirFriction)
		case StageGravity:
			ps.Velocity = ps.Velocity.Add(Gravity)
		case StageMomentum:
			newPosition := ps.Position.Add(ps.Velocity)
			ps.ComputedPreviousPosition = ps.Position
			ps.Position = newPosition
		}
		state.Points[id] = ps
	}
}

// applyMomentum runs the first half of a frame's integration for every
// point in template order: velocity is re-derived from how far the point
// has moved since its last computed previous position, shed by the
// point's own air friction, and nudged by gravity; the point is then
// carried forward by that velocity. The pre-update position becomes the
// new computed previous position, which is what Verlet integration and
// line friction both anchor to next frame.
func applyMomentum(tpl *entity.Template, state *entity.State) {
	applyMomentumStage(tpl, state, StageAcceleration)
	applyMomentumStage(tpl, state, StageFriction)
	applyMomentumStage(tpl, state, StageGravity)
	applyMomentumStage(tpl, state, StageMomentum)
}
