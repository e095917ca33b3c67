// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package trackphysics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trackphysics "github.com/gazed/trackphysics"
	"github.com/gazed/trackphysics/entity"
	"github.com/gazed/trackphysics/geom"
	"github.com/gazed/trackphysics/grid"
	"github.com/gazed/trackphysics/hitbox"
	"github.com/gazed/trackphysics/rider"
	"github.com/gazed/trackphysics/vec2"
)

func newEngineWithRider(t *testing.T, velocity vec2.Vec2) (*trackphysics.PhysicsEngine, entity.EntityID) {
	t.Helper()
	e := trackphysics.New(grid.V62)
	tplID := e.RegisterEntityTemplate(rider.Build(entity.RemountLRA))
	id, err := e.AddEntity(tplID, vec2.New(0, 0), velocity)
	require.NoError(t, err)
	return e, id
}

// Free fall: with no lines registered, every mount should still be
// Mounted at frame 100 and no segment should have broken.
func TestPhysicsEngine_FreeFall(t *testing.T) {
	e, id := newEngineWithRider(t, vec2.New(0.4, 0))

	states := e.ViewFrame(100)
	state, ok := states[id]
	require.True(t, ok)

	for _, phase := range state.MountPhases {
		assert.True(t, phase.IsMounted())
	}
	assert.Empty(t, state.BrokenSegments)
}

// Zero start: with zero initial velocity, frame 1's velocity should be
// gravity alone on every point (no lines to collide with).
func TestPhysicsEngine_ZeroStart(t *testing.T) {
	e, id := newEngineWithRider(t, vec2.New(0, 0))

	frame0 := e.ViewFrame(0)[id]
	frame1 := e.ViewFrame(1)[id]
	require.NotNil(t, frame0)
	require.NotNil(t, frame1)

	for pid, p1 := range frame1.Points {
		p0 := frame0.Points[pid]
		v := p1.Position.Sub(p0.Position)
		assert.InDelta(t, 0.0, v.X, 1e-9)
		assert.InDelta(t, 0.175, v.Y, 1e-9)
	}
}

// Determinism: viewing the same frame twice, and after an explicit cache
// clear, returns identical positions.
func TestPhysicsEngine_Determinism(t *testing.T) {
	e, id := newEngineWithRider(t, vec2.New(0.4, 0))

	first := e.ViewFrame(50)[id]
	second := e.ViewFrame(50)[id]
	assert.Equal(t, first, second)

	e.ClearCache()
	third := e.ViewFrame(50)[id]
	assert.Equal(t, first, third)
}

// Line mutation invalidates the cache: the frame-0 state must not reflect
// whatever the entity had advanced to before the line was added.
func TestPhysicsEngine_LineMutationInvalidatesCache(t *testing.T) {
	e, id := newEngineWithRider(t, vec2.New(0.4, 0))

	_ = e.ViewFrame(20)
	require.Equal(t, uint64(20), e.LatestSyncedFrame())

	line := hitbox.NewBuilder(geom.Line{P0: vec2.New(-1000, 500), P1: vec2.New(1000, 500)}).
		Flipped().ExtendLeft().ExtendRight().Build()
	e.AddLine(line)

	assert.Equal(t, uint64(0), e.LatestSyncedFrame())
	frame0 := e.ViewFrame(0)[id]
	require.NotNil(t, frame0)
	for pid, p := range frame0.Points {
		assert.Equal(t, vec2.New(0.4, 0), p.Velocity, "point %d", pid)
	}
}

// Acceleration line: a rider dropped onto an acceleration line should see
// its average x velocity rise from one frame to the next while resting on
// it.
func TestPhysicsEngine_AccelerationLine(t *testing.T) {
	e := trackphysics.New(grid.V62)
	tplID := e.RegisterEntityTemplate(rider.Build(entity.RemountLRA))
	id, err := e.AddEntity(tplID, vec2.New(0, -20), vec2.New(0.4, 0))
	require.NoError(t, err)

	line := hitbox.NewBuilder(geom.Line{P0: vec2.New(-1000, 0), P1: vec2.New(1000, 0)}).
		ExtendLeft().ExtendRight().Multiplier(1).Build()
	e.AddLine(line)

	var lastVX float64
	sawIncrease := false
	for f := uint64(1); f <= 400; f++ {
		state := e.ViewFrame(f)[id]
		require.NotNil(t, state)
		var vx float64
		for _, p := range state.Points {
			vx += p.Velocity.X
		}
		vx /= float64(len(state.Points))
		if f > 1 && vx > lastVX+1e-12 {
			sawIncrease = true
		}
		lastVX = vx
	}
	assert.True(t, sawIncrease, "expected x velocity to increase while resting on the acceleration line")
}

// Invalid ids are reported as errors, not silently ignored or panics.
func TestPhysicsEngine_InvalidIds(t *testing.T) {
	e := trackphysics.New(grid.V62)

	_, err := e.AddEntity(entity.TemplateID(99), vec2.New(0, 0), vec2.New(0, 0))
	assert.ErrorIs(t, err, trackphysics.ErrInvalidTemplateId)

	err = e.SetEntityInitialOffset(entity.EntityID(99), vec2.New(0, 0))
	assert.ErrorIs(t, err, trackphysics.ErrInvalidEntityId)

	err = e.SetEntityInitialVelocity(entity.EntityID(99), vec2.New(0, 0))
	assert.ErrorIs(t, err, trackphysics.ErrInvalidEntityId)

	err = e.RemoveEntity(entity.EntityID(99))
	assert.ErrorIs(t, err, trackphysics.ErrInvalidEntityId)

	err = e.ReplaceLine(grid.LineID(99), hitbox.NewBuilder(geom.Line{}).Build())
	assert.ErrorIs(t, err, trackphysics.ErrInvalidLineId)

	err = e.RemoveLine(grid.LineID(99))
	assert.ErrorIs(t, err, trackphysics.ErrInvalidLineId)

	_, ok := e.GetLine(grid.LineID(99))
	assert.False(t, ok)
}

// ViewMoment(frame, MomentMomentumTick) should match the momentum-only
// stage of Frame: gravity applied, before any collision can have
// corrected position.
func TestPhysicsEngine_ViewMomentMomentumTick(t *testing.T) {
	e, id := newEngineWithRider(t, vec2.New(0, 0))

	moment := e.ViewMoment(1, trackphysics.Moment{Kind: trackphysics.MomentMomentumTick})[id]
	full := e.ViewFrame(1)[id]
	require.NotNil(t, moment)
	require.NotNil(t, full)
	// With no lines to collide against, the momentum-only view and the
	// full frame agree (nothing for the iteration loop to change).
	assert.Equal(t, full.Points, moment.Points)
}
