// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package step implements the per-frame physics update: momentum
// integration, constraint/collision relaxation, flutter bones, joint
// breakage, and mount-phase evolution. A full frame runs in two passes
// so that multiple entities can advance together: ProcessFrame moves
// one entity's points through the physics step, then ProcessMountPhases
// evolves its mounts against every entity's post-step state (sled swaps
// read and write other entities' points). Frame bundles both for a
// caller advancing a single entity; FrameTo additionally exposes the
// sub-frame observation points a stepping caller can stop at.
package step

import "github.com/gazed/trackphysics/entity"

// MaxIteration is how many constraint-relaxation passes (non-flutter
// bone adjustment, then collision) run per frame.
const MaxIteration = 6

// MomentKind enumerates the sub-frame points a stepping caller may ask
// to observe. MomentNone means "end of frame" and is what Frame itself
// runs to.
type MomentKind int

const (
	MomentNone MomentKind = iota
	MomentAccelerationTick
	MomentFrictionTick
	MomentGravityTick
	MomentMomentumTick
	MomentIteration
)

// Moment identifies a single point within a frame's evaluation. Index
// and Sub are only meaningful when Kind is MomentIteration: Index is
// which of the MaxIteration relaxation passes to stop within, and Sub
// distinguishes stopping right after that pass's non-flutter bone
// adjustment (0) from stopping after its collision pass (1).
type Moment struct {
	Kind  MomentKind
	Index int
	Sub   int
}

// ProcessFrame advances one entity's points by a single frame: momentum,
// then MaxIteration rounds of non-flutter bone adjustment interleaved
// with collision against lines, then flutter bones once, then joint
// breakage. Mount phases are not evolved here — see ProcessMountPhases —
// but a mount whose bones break mid-frame transitions immediately, and
// the returned set records every mount that did so this frame.
func ProcessFrame(tpl *entity.Template, state *entity.State, lines Lines) map[entity.MountID]bool {
	applyMomentum(tpl, state)
	initialPhases := snapshotPhases(tpl, state)

	dismountedThisFrame := map[entity.MountID]bool{}
	for i := 0; i < MaxIteration; i++ {
		runNonFlutterBones(tpl, state, initialPhases, dismountedThisFrame)
		processCollisions(tpl, state, lines)
	}

	runFlutterBones(tpl, state)
	processJoints(tpl, state, dismountedThisFrame)
	return dismountedThisFrame
}

// Frame advances one entity's state by a complete frame: ProcessFrame
// followed by ProcessMountPhases. others is the sled-swap candidate
// list — every entity's post-physics state for this frame, normally
// including state itself (an entity may reclaim its own intact sled).
func Frame(tpl *entity.Template, state *entity.State, lines Lines, others []*entity.State) {
	dismounted := ProcessFrame(tpl, state, lines)
	ProcessMountPhases(tpl, state, others, dismounted)
}

// FrameTo runs a frame only as far as the given Moment, for callers
// stepping through a frame's evaluation for inspection. A MomentNone
// moment runs the complete frame, identically to Frame.
func FrameTo(tpl *entity.Template, state *entity.State, lines Lines, others []*entity.State, moment Moment) {
	switch moment.Kind {
	case MomentAccelerationTick:
		applyMomentumStage(tpl, state, StageAcceleration)

	case MomentFrictionTick:
		applyMomentumStage(tpl, state, StageAcceleration)
		applyMomentumStage(tpl, state, StageFriction)

	case MomentGravityTick:
		applyMomentumStage(tpl, state, StageAcceleration)
		applyMomentumStage(tpl, state, StageFriction)
		applyMomentumStage(tpl, state, StageGravity)

	case MomentMomentumTick:
		applyMomentum(tpl, state)

	case MomentIteration:
		applyMomentum(tpl, state)
		initialPhases := snapshotPhases(tpl, state)
		dismountedThisFrame := map[entity.MountID]bool{}
		limit := moment.Index
		if limit >= MaxIteration {
			limit = MaxIteration - 1
		}
		for i := 0; i <= limit; i++ {
			runNonFlutterBones(tpl, state, initialPhases, dismountedThisFrame)
			if i == limit && moment.Sub == 0 {
				return
			}
			processCollisions(tpl, state, lines)
		}

	default:
		Frame(tpl, state, lines, others)
	}
}

// snapshotPhases returns the mount-phase view the constraint iteration
// should read from: a frozen copy for LRA skeletons (which process
// bones against the phases as they stood before any iteration ran this
// frame), or the live map itself otherwise.
func snapshotPhases(tpl *entity.Template, state *entity.State) map[entity.MountID]entity.MountPhase {
	if tpl.RemountVersion() != entity.RemountLRA {
		return state.MountPhases
	}
	snapshot := make(map[entity.MountID]entity.MountPhase, len(state.MountPhases))
	for m, p := range state.MountPhases {
		snapshot[m] = p
	}
	return snapshot
}

func runNonFlutterBones(tpl *entity.Template, state *entity.State, lookupPhases map[entity.MountID]entity.MountPhase, dismountedThisFrame map[entity.MountID]bool) {
	for _, id := range tpl.Bones() {
		if tpl.Bone(id).IsFlutter {
			continue
		}
		processBone(tpl, id, state, lookupPhases, dismountedThisFrame)
	}
}

// runFlutterBones adjusts every flutter bone once, after the iteration
// loop. Unlike the iterated pass, a flutter bone is adjusted
// unconditionally — its mount's live phase only decides whether the
// remount-factor strength applies, never whether the adjustment runs —
// and a flutter bone can neither break nor dismount anything.
func runFlutterBones(tpl *entity.Template, state *entity.State) {
	for _, id := range tpl.Bones() {
		bone := tpl.Bone(id)
		if !bone.IsFlutter {
			continue
		}

		remounting := false
		switch bone.Connection.Kind {
		case entity.ConnSegment:
			for _, m := range tpl.SegmentMounts(bone.Connection.Segment) {
				if state.MountPhases[m].IsRemounting() {
					remounting = true
					break
				}
			}
		case entity.ConnMount:
			remounting = state.MountPhases[bone.Connection.Mount].IsRemounting()
		}

		p0 := state.Points[bone.P0]
		p1 := state.Points[bone.P1]
		_, d0, d1 := boneAdjustment(bone, p0.Position, p1.Position, remounting)
		p0.Position = p0.Position.Add(d0)
		p1.Position = p1.Position.Add(d1)
		state.Points[bone.P0] = p0
		state.Points[bone.P1] = p1
	}
}
