// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package step

import "github.com/gazed/trackphysics/entity"

// phaseAfterDismount returns the phase a mount enters the instant its
// bones (or a joint it is attached to) are found to have broken.
// RemountNone skeletons never attempt to remount, so they go straight to
// a zero-timer Dismounted; every other ruleset gives Mounted a dismount
// grace period and Remounting an immediate fall back to Dismounted.
// A mount already Dismounting or Dismounted when this is called is left
// unchanged — dismount is only ever entered once per frame.
func phaseAfterDismount(tpl *entity.Template, phase entity.MountPhase) entity.MountPhase {
	if tpl.RemountVersion() == entity.RemountNone {
		return entity.MountPhase{Kind: entity.Dismounted, Frames: 0}
	}
	switch phase.Kind {
	case entity.Mounted:
		return entity.MountPhase{Kind: entity.Dismounting, Frames: tpl.DismountedTimer()}
	case entity.Remounting:
		return entity.MountPhase{Kind: entity.Dismounted, Frames: tpl.RemountingTimer()}
	default:
		return phase
	}
}

// skeletonCanEnterPhase reports whether every mount-typed bone in tpl is
// intact against state under the given remounting assumption, and — for
// ComV1/ComV2 only — whether every joint is also still unbroken. LRA and
// RemountNone skip the joint check entirely.
func skeletonCanEnterPhase(tpl *entity.Template, state *entity.State, remounting bool) bool {
	for _, id := range tpl.Bones() {
		bone := tpl.Bone(id)
		if bone.Connection.Kind != entity.ConnMount {
			continue
		}
		p0 := state.Points[bone.P0].Position
		p1 := state.Points[bone.P1].Position
		percent, _, _ := boneAdjustment(bone, p0, p1, remounting)
		if !boneIntact(bone, percent, remounting) {
			return false
		}
	}

	if tpl.RemountVersion() == entity.RemountComV1 || tpl.RemountVersion() == entity.RemountComV2 {
		for _, id := range tpl.Joints() {
			if jointShouldBreak(tpl, state, id) {
				return false
			}
		}
	}
	return true
}

// canSwapSleds attempts to rescue a dismounted mount m by swapping its
// first bridged segment's point states with another entity's state, and
// checking whether self can then enter Remounting. The swap is rolled
// back bit-for-bit if the check fails, and is never attempted if other
// has already broken that segment or isn't itself Dismounted for m.
func canSwapSleds(tpl *entity.Template, self, other *entity.State, m entity.MountID) bool {
	seg0, _ := tpl.MountSegments(m)
	if other.BrokenSegments[seg0] || !other.MountPhases[m].IsDismounted() {
		return false
	}

	swapSegment(tpl, self, other, seg0)
	if skeletonCanEnterPhase(tpl, self, true) {
		return true
	}
	swapSegment(tpl, self, other, seg0)
	return false
}

// swapSegment exchanges every point state belonging to segment s between
// self and other, and — for ComV2/LRA only, where a broken sled can swap
// back onto an otherwise-intact rider — the segment's BrokenSegments
// membership along with it.
func swapSegment(tpl *entity.Template, self, other *entity.State, s entity.SegmentID) {
	if tpl.RemountVersion() == entity.RemountComV2 || tpl.RemountVersion() == entity.RemountLRA {
		selfBroken, otherBroken := self.BrokenSegments[s], other.BrokenSegments[s]
		if selfBroken {
			delete(self.BrokenSegments, s)
		}
		if otherBroken {
			self.BrokenSegments[s] = true
		}
		if otherBroken {
			delete(other.BrokenSegments, s)
		}
		if selfBroken {
			other.BrokenSegments[s] = true
		}
	}

	for _, id := range tpl.SegmentPoints(s) {
		self.Points[id], other.Points[id] = other.Points[id], self.Points[id]
	}
}

// ProcessMountPhases runs the end-of-frame phase transition for every
// mount not already dismounted earlier this frame (the set ProcessFrame
// returned), against the remount rules tpl was built with. others is
// the sled-swap candidate list — every live entity's post-physics state
// for this frame, normally including state's own entry, since a
// dismounted rider whose own sled segment survived intact is its own
// first remount candidate. A committed swap writes point states into
// the candidate it swapped with, so others' entries are mutated in
// place.
func ProcessMountPhases(tpl *entity.Template, state *entity.State, others []*entity.State, dismountedThisFrame map[entity.MountID]bool) {
	if tpl.RemountVersion() == entity.RemountNone {
		return
	}
	next := make(map[entity.MountID]entity.MountPhase, len(state.MountPhases))
	for m, phase := range state.MountPhases {
		next[m] = phase
	}

	for _, m := range tpl.Mounts() {
		if dismountedThisFrame[m] {
			continue
		}
		next[m] = evolveOneMountPhase(tpl, state, others, m, state.MountPhases[m])
	}
	state.MountPhases = next
}

func evolveOneMountPhase(tpl *entity.Template, state *entity.State, others []*entity.State, m entity.MountID, phase entity.MountPhase) entity.MountPhase {
	switch phase.Kind {
	case entity.Mounted:
		return phase

	case entity.Dismounting:
		if tpl.RemountVersion() == entity.RemountLRA {
			if phase.Frames == 0 {
				return entity.MountPhase{Kind: entity.Dismounted, Frames: tpl.RemountingTimer()}
			}
			return entity.MountPhase{Kind: entity.Dismounting, Frames: phase.Frames - 1}
		}
		// ComV1/ComV2 decrement (saturating at zero) before testing.
		frames := uint32(0)
		if phase.Frames > 0 {
			frames = phase.Frames - 1
		}
		if frames == 0 {
			return entity.MountPhase{Kind: entity.Dismounted, Frames: tpl.RemountingTimer()}
		}
		return entity.MountPhase{Kind: entity.Dismounting, Frames: frames}

	case entity.Dismounted:
		canSwap := false
		for _, other := range others {
			if canSwapSleds(tpl, state, other, m) {
				canSwap = true
				break
			}
		}
		switch tpl.RemountVersion() {
		case entity.RemountLRA:
			if !canSwap {
				return entity.MountPhase{Kind: entity.Dismounted, Frames: tpl.RemountingTimer()}
			}
			if phase.Frames == 0 {
				return entity.MountPhase{Kind: entity.Remounting, Frames: tpl.MountedTimer()}
			}
			return entity.MountPhase{Kind: entity.Dismounted, Frames: phase.Frames - 1}
		default: // ComV1, ComV2
			frames := tpl.RemountingTimer()
			if canSwap {
				frames = 0
				if phase.Frames > 0 {
					frames = phase.Frames - 1
				}
			}
			if frames == 0 {
				return entity.MountPhase{Kind: entity.Remounting, Frames: tpl.MountedTimer()}
			}
			return entity.MountPhase{Kind: entity.Dismounted, Frames: frames}
		}

	default: // Remounting
		canEnter := skeletonCanEnterPhase(tpl, state, false)
		if tpl.RemountVersion() == entity.RemountLRA {
			if !canEnter {
				return entity.MountPhase{Kind: entity.Remounting, Frames: tpl.MountedTimer()}
			}
			if phase.Frames == 0 {
				return entity.MountPhase{Kind: entity.Mounted}
			}
			return entity.MountPhase{Kind: entity.Remounting, Frames: phase.Frames - 1}
		}
		// ComV1/ComV2 decrement (saturating at zero) before testing,
		// one frame ahead of LRA's check-then-decrement order.
		frames := tpl.MountedTimer()
		if canEnter {
			frames = 0
			if phase.Frames > 0 {
				frames = phase.Frames - 1
			}
		}
		if frames == 0 {
			return entity.MountPhase{Kind: entity.Mounted}
		}
		return entity.MountPhase{Kind: entity.Remounting, Frames: frames}
	}
}
