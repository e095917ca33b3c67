// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package trackphysics is the deterministic physics engine for a Line
// Rider-compatible track simulator. PhysicsEngine is the package's single
// exported entry point: it wires the spatial grid (grid), line hitboxes
// (hitbox), the entity/template registry (entity), the per-frame step
// (step), and the frame snapshot cache (timeline) together behind an API a
// track-format reader/writer and a renderer can both drive without
// depending on any of those packages directly.
package trackphysics

import (
	"github.com/gazed/trackphysics/entity"
	"github.com/gazed/trackphysics/grid"
	"github.com/gazed/trackphysics/hitbox"
	"github.com/gazed/trackphysics/timeline"
	"github.com/gazed/trackphysics/vec2"
)

// Moment re-exports timeline's sub-frame observation point so callers of
// this package never need to import timeline directly.
type Moment = timeline.Moment

// MomentNone, and the rest of the MomentKind values ViewMoment accepts,
// re-exported from timeline.
const (
	MomentNone             = timeline.MomentNone
	MomentAccelerationTick = timeline.MomentAccelerationTick
	MomentFrictionTick     = timeline.MomentFrictionTick
	MomentGravityTick      = timeline.MomentGravityTick
	MomentMomentumTick     = timeline.MomentMomentumTick
	MomentIteration        = timeline.MomentIteration
)

// PhysicsEngine owns one track's worth of lines and riders and answers
// what every rider's state was at any requested frame. It is the only
// type this package expects a caller to construct directly.
type PhysicsEngine struct {
	lines    *LineRegistry
	registry *entity.Registry
	cache    *timeline.Cache
}

// New returns an empty PhysicsEngine whose spatial grid uses the given
// traversal version.
func New(version grid.GridVersion) *PhysicsEngine {
	registry := entity.NewRegistry()
	lines := NewLineRegistry(version)
	return &PhysicsEngine{
		lines:    lines,
		registry: registry,
		cache:    timeline.NewCache(registry, lines),
	}
}

// SetGridVersion switches the traversal algorithm used to decide which
// cells a line occupies and invalidates every entity's cached frames,
// since a line's neighborhood can change under a different version.
func (e *PhysicsEngine) SetGridVersion(version grid.GridVersion) {
	e.lines.SetVersion(version)
	e.cache.Clear()
}

// GridVersion reports the traversal algorithm currently in use.
func (e *PhysicsEngine) GridVersion() grid.GridVersion { return e.lines.Version() }

// AddLine registers line with the engine and invalidates every entity's
// cached frames, since any frame that already queried the grid may have
// missed it.
func (e *PhysicsEngine) AddLine(line hitbox.Line) grid.LineID {
	id := e.lines.AddLine(line)
	e.cache.Clear()
	return id
}

// GetLine returns the line registered under id.
func (e *PhysicsEngine) GetLine(id grid.LineID) (hitbox.Line, bool) {
	return e.lines.GetLine(id)
}

// ReplaceLine re-registers id under a new line, preserving its id, and
// invalidates every entity's cached frames. It reports ErrInvalidLineId if
// id is not registered.
func (e *PhysicsEngine) ReplaceLine(id grid.LineID, line hitbox.Line) error {
	if err := e.lines.ReplaceLine(id, line); err != nil {
		return err
	}
	e.cache.Clear()
	return nil
}

// RemoveLine unregisters id and invalidates every entity's cached frames.
// It reports ErrInvalidLineId if id is not registered.
func (e *PhysicsEngine) RemoveLine(id grid.LineID) error {
	if err := e.lines.RemoveLine(id); err != nil {
		return err
	}
	e.cache.Clear()
	return nil
}

// RegisterEntityTemplate adds t to the engine's template registry and
// returns the id entities can be instantiated from it with. Templates are
// never removed once registered.
func (e *PhysicsEngine) RegisterEntityTemplate(t *entity.Template) entity.TemplateID {
	return e.registry.RegisterTemplate(t)
}

// AddEntity instantiates templateID at offset with the given initial
// velocity and invalidates every entity's cached frames. It reports
// ErrInvalidTemplateId if templateID was never registered.
func (e *PhysicsEngine) AddEntity(templateID entity.TemplateID, offset, initialVelocity vec2.Vec2) (entity.EntityID, error) {
	id, ok := e.registry.AddEntity(templateID, offset, initialVelocity)
	if !ok {
		return 0, ErrInvalidTemplateId
	}
	e.cache.Clear()
	return id, nil
}

// SetEntityInitialOffset changes an already-added entity's world-space
// offset and invalidates every entity's cached frames. It reports
// ErrInvalidEntityId if id is not a live entity.
func (e *PhysicsEngine) SetEntityInitialOffset(id entity.EntityID, offset vec2.Vec2) error {
	if !e.registry.SetEntityOffset(id, offset) {
		return ErrInvalidEntityId
	}
	e.cache.Clear()
	return nil
}

// SetEntityInitialVelocity changes an already-added entity's initial
// velocity and invalidates every entity's cached frames. It reports
// ErrInvalidEntityId if id is not a live entity.
func (e *PhysicsEngine) SetEntityInitialVelocity(id entity.EntityID, velocity vec2.Vec2) error {
	if !e.registry.SetEntityInitialVelocity(id, velocity) {
		return ErrInvalidEntityId
	}
	e.cache.Clear()
	return nil
}

// RemoveEntity removes id from the engine and invalidates every remaining
// entity's cached frames. It reports ErrInvalidEntityId if id was not a
// live entity.
func (e *PhysicsEngine) RemoveEntity(id entity.EntityID) error {
	if !e.registry.RemoveEntity(id) {
		return ErrInvalidEntityId
	}
	e.cache.Clear()
	return nil
}

// ViewFrame returns every live entity's state at the end of frame,
// extending the cache as far as needed first. The returned map is keyed by
// entity id and is safe for the caller to read but not to mutate in place.
func (e *PhysicsEngine) ViewFrame(frame uint64) map[entity.EntityID]*entity.State {
	return e.cache.ViewFrame(frame)
}

// ViewMoment returns every live entity's state part-way through the step
// from frame-1 to frame, stopped at moment. MomentNone is equivalent to
// ViewFrame(frame); the partial result is never cached.
func (e *PhysicsEngine) ViewMoment(frame uint64, moment Moment) map[entity.EntityID]*entity.State {
	return e.cache.ViewMoment(frame, moment)
}

// ClearCache forgets every cached snapshot, forcing the next ViewFrame or
// ViewMoment call to recompute from frame 0. Useful for tests that want to
// verify cache coherence explicitly; line and entity mutations already
// clear the cache on their own.
func (e *PhysicsEngine) ClearCache() {
	e.cache.Clear()
}

// LatestSyncedFrame reports the highest frame index every live entity's
// state has actually been computed through.
func (e *PhysicsEngine) LatestSyncedFrame() uint64 {
	return e.cache.LatestSyncedFrame()
}
