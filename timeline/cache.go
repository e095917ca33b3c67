// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package timeline caches every entity's per-frame physics state as it
// is produced, so that re-viewing an already-computed frame never
// re-runs the step. A view of a frame beyond what has been synced so
// far extends the cache one frame at a time, advancing every live
// entity together: first every entity's physics step, then every
// entity's mount-phase evolution against the full post-step state
// vector — the evolution order in which sled swaps can move point
// states between entities (and let a lone rider reclaim its own sled).
package timeline

import (
	"github.com/gazed/trackphysics/entity"
	"github.com/gazed/trackphysics/step"
)

// Moment re-exports step's sub-frame observation point so callers of
// this package never need to import step directly.
type Moment = step.Moment

// MomentNone, and the rest of the MomentKind values, re-exported from
// step for the same reason.
const (
	MomentNone             = step.MomentNone
	MomentAccelerationTick = step.MomentAccelerationTick
	MomentFrictionTick     = step.MomentFrictionTick
	MomentGravityTick      = step.MomentGravityTick
	MomentMomentumTick     = step.MomentMomentumTick
	MomentIteration        = step.MomentIteration
)

// Cache owns every live entity's frame-indexed state history. Index 0
// is always the entity's initial state. It is cleared in its entirety
// whenever a line or entity edit invalidates it; there is no partial
// invalidation.
type Cache struct {
	registry *entity.Registry
	lines    step.Lines

	frames       map[entity.EntityID][]*entity.State
	latestSynced uint64
}

// NewCache returns an empty Cache reading entities from registry and
// querying collisions against lines.
func NewCache(registry *entity.Registry, lines step.Lines) *Cache {
	return &Cache{
		registry: registry,
		lines:    lines,
		frames:   map[entity.EntityID][]*entity.State{},
	}
}

// Clear forgets every cached snapshot and resets the latest-synced-frame
// counter to 0. Called whenever a line or entity edit invalidates the
// cache.
func (c *Cache) Clear() {
	c.frames = map[entity.EntityID][]*entity.State{}
	c.latestSynced = 0
}

// LatestSyncedFrame reports the highest frame index every live entity's
// state has actually been computed through.
func (c *Cache) LatestSyncedFrame() uint64 { return c.latestSynced }

// ViewFrame returns every live entity's state at the end of frame,
// extending the cache as far as needed first.
func (c *Cache) ViewFrame(frame uint64) map[entity.EntityID]*entity.State {
	c.extendTo(frame)
	out := make(map[entity.EntityID]*entity.State, len(c.frames))
	for id, snaps := range c.frames {
		if frame < uint64(len(snaps)) {
			out[id] = snaps[frame]
		}
	}
	return out
}

// ViewMoment returns every live entity's state part-way through the
// step from frame-1 to frame, stopped at moment. A MomentNone moment is
// equivalent to ViewFrame(frame). The partial result is never cached:
// re-requesting the same moment recomputes it from the last fully
// synced frame before it.
func (c *Cache) ViewMoment(frame uint64, moment Moment) map[entity.EntityID]*entity.State {
	if moment.Kind == step.MomentNone || frame == 0 {
		return c.ViewFrame(frame)
	}
	c.extendTo(frame - 1)
	c.seed()

	ids := c.registry.Entities()
	states := make([]*entity.State, len(ids))
	for i, id := range ids {
		if snaps, ok := c.frames[id]; ok && frame-1 < uint64(len(snaps)) {
			states[i] = snaps[frame-1].Clone()
		}
	}

	out := make(map[entity.EntityID]*entity.State, len(ids))
	for i, id := range ids {
		tpl, ok := c.templateOf(id)
		if !ok || states[i] == nil {
			continue
		}
		step.FrameTo(tpl, states[i], c.lines, states, moment)
		out[id] = states[i]
	}
	return out
}

// seed makes sure every live entity has at least its initial state
// cached, without advancing anything already present.
func (c *Cache) seed() {
	for _, id := range c.registry.Entities() {
		if _, ok := c.frames[id]; ok {
			continue
		}
		if initial, ok := c.registry.InitialState(id); ok {
			c.frames[id] = []*entity.State{initial.Clone()}
		}
	}
}

func (c *Cache) templateOf(id entity.EntityID) (*entity.Template, bool) {
	e, ok := c.registry.Entity(id)
	if !ok {
		return nil, false
	}
	return c.registry.Template(e.Template)
}

// extendTo runs frames, for every live entity together, until
// latestSynced reaches target. Each frame is two passes in entity
// registration order: every entity's physics step, then every entity's
// mount-phase evolution. The evolution pass hands each entity the full
// state vector — its own entry included — as sled-swap candidates, and
// a committed swap mutates the candidate's entry in place, so the
// swapped-away points land in the cache with this frame.
func (c *Cache) extendTo(target uint64) {
	c.seed()
	for c.latestSynced < target {
		ids := c.registry.Entities()
		states := make([]*entity.State, len(ids))
		dismounted := make([]map[entity.MountID]bool, len(ids))

		for i, id := range ids {
			if snaps, ok := c.frames[id]; ok {
				states[i] = snaps[len(snaps)-1].Clone()
			}
		}

		for i, id := range ids {
			tpl, ok := c.templateOf(id)
			if !ok || states[i] == nil {
				continue
			}
			dismounted[i] = step.ProcessFrame(tpl, states[i], c.lines)
		}

		for i, id := range ids {
			tpl, ok := c.templateOf(id)
			if !ok || states[i] == nil {
				continue
			}
			// The entity's own pre-evolution entry stays visible in
			// states while it resolves, the same way each candidate
			// sees every other entity's entry.
			work := states[i].Clone()
			step.ProcessMountPhases(tpl, work, states, dismounted[i])
			states[i] = work
		}

		for i, id := range ids {
			if states[i] != nil {
				c.frames[id] = append(c.frames[id], states[i])
			}
		}
		c.latestSynced++
	}
}
