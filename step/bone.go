// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package step

import (
	"github.com/gazed/trackphysics/entity"
	"github.com/gazed/trackphysics/vec2"
)

// boneAdjustment computes a bone's percent deviation from its rest
// length and the position deltas its two endpoints should receive,
// split by bias. Percent is zero for a zero-length bone, and for a
// repel-only bone that has not been compressed past its rest length.
func boneAdjustment(bone entity.BoneTemplate, p0, p1 vec2.Vec2, remounting bool) (percent float64, d0, d1 vec2.Vec2) {
	v := p0.Sub(p1)
	length := v.Len()
	switch {
	case length <= 0:
		percent = 0
	case bone.RepelOnly && length >= bone.RestLength:
		percent = 0
	default:
		percent = (length - bone.RestLength) / length
	}

	strengthFactor := 1.0
	if remounting {
		strengthFactor = bone.AdjustmentStrengthRemountFactor
	}
	a := bone.AdjustmentStrength * strengthFactor * percent

	d0 = v.Scale(-a * (1 - bone.Bias))
	d1 = v.Scale(a * bone.Bias)
	return percent, d0, d1
}

// boneIntact reports whether a bone's current deviation is still within
// its endurance, which shrinks or grows by EnduranceRemountFactor while
// its mount is remounting.
func boneIntact(bone entity.BoneTemplate, percent float64, remounting bool) bool {
	enduranceFactor := 1.0
	if remounting {
		enduranceFactor = bone.EnduranceRemountFactor
	}
	return percent <= bone.Endurance*enduranceFactor*bone.RestLength
}

// processBone applies one bone's adjustment to its endpoints, or — for
// a breakable bone that has stretched past its effective endurance —
// transitions its mount out of Mounted/Remounting instead. lookupPhases
// is the view of mount state this pass should read (the frame's initial
// snapshot for LRA's iterated bone processing, the live state everywhere
// else); dismountedThisFrame prevents a mount from being dismounted
// twice within the same frame.
func processBone(tpl *entity.Template, boneID entity.BoneID, state *entity.State, lookupPhases map[entity.MountID]entity.MountPhase, dismountedThisFrame map[entity.MountID]bool) {
	bone := tpl.Bone(boneID)
	conn := bone.Connection

	remounting := false
	switch conn.Kind {
	case entity.ConnSegment:
		for _, m := range tpl.SegmentMounts(conn.Segment) {
			if lookupPhases[m].IsRemounting() {
				remounting = true
				break
			}
		}
	case entity.ConnMount:
		phase := lookupPhases[conn.Mount]
		if dismountedThisFrame[conn.Mount] || !(phase.IsMounted() || phase.IsRemounting()) {
			return
		}
		remounting = phase.IsRemounting()
	}

	p0 := state.Points[bone.P0]
	p1 := state.Points[bone.P1]
	percent, d0, d1 := boneAdjustment(bone, p0.Position, p1.Position, remounting)

	if conn.Kind == entity.ConnMount && !boneIntact(bone, percent, remounting) {
		phase := lookupPhases[conn.Mount]
		state.MountPhases[conn.Mount] = phaseAfterDismount(tpl, phase)
		dismountedThisFrame[conn.Mount] = true
		return
	}

	p0.Position = p0.Position.Add(d0)
	p1.Position = p1.Position.Add(d1)
	state.Points[bone.P0] = p0
	state.Points[bone.P1] = p1
}
