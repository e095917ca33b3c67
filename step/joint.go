// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package step

import "github.com/gazed/trackphysics/entity"

// jointShouldBreak reports whether a joint's two watched bones have
// folded: the joint breaks the instant the cross product of their
// current position vectors (first endpoint minus second, per bone) goes
// negative.
func jointShouldBreak(tpl *entity.Template, state *entity.State, id entity.JointID) bool {
	joint := tpl.Joint(id)
	b0, b1 := tpl.Bone(joint.B0), tpl.Bone(joint.B1)
	v0 := state.Points[b0.P0].Position.Sub(state.Points[b0.P1].Position)
	v1 := state.Points[b1.P0].Position.Sub(state.Points[b1.P1].Position)
	return v0.Cross(v1) < 0
}

// processJoints runs every joint in template order, breaking the mounts
// (and, for some connection kinds and remount versions, the segments)
// a folded joint targets. dismountedThisFrame prevents a mount broken
// here from being dismounted twice in the same frame; it is shared with
// the bone-adjustment pass that ran earlier this iteration loop.
func processJoints(tpl *entity.Template, state *entity.State, dismountedThisFrame map[entity.MountID]bool) {
	for _, id := range tpl.Joints() {
		if !jointShouldBreak(tpl, state, id) {
			continue
		}

		brokenMounts := map[entity.MountID]bool{}
		brokenSegments := map[entity.SegmentID]bool{}
		conn := tpl.Joint(id).Connection

		switch conn.Kind {
		case entity.JointSegments:
			if conn.SegmentA == conn.SegmentB {
				mounts := tpl.SegmentMounts(conn.SegmentA)
				allIntact := true
				for _, m := range mounts {
					phase := state.MountPhases[m]
					allIntact = allIntact && (phase.IsMounted() || phase.IsRemounting())
					brokenMounts[m] = true
				}
				if tpl.RemountVersion() == entity.RemountComV2 || tpl.RemountVersion() == entity.RemountNone || allIntact {
					brokenSegments[conn.SegmentA] = true
				}
			} else {
				shared := intersectMounts(tpl.SegmentMounts(conn.SegmentA), tpl.SegmentMounts(conn.SegmentB))
				allIntact := true
				for _, m := range shared {
					phase := state.MountPhases[m]
					allIntact = allIntact && (phase.IsMounted() || phase.IsRemounting())
					brokenMounts[m] = true
				}
				if tpl.RemountVersion() == entity.RemountLRA && allIntact {
					brokenSegments[conn.SegmentA] = true
					brokenSegments[conn.SegmentB] = true
				}
			}

		case entity.JointHybrid:
			for _, m := range tpl.SegmentMounts(conn.SegmentA) {
				if m == conn.MountA {
					brokenMounts[conn.MountA] = true
					break
				}
			}

		case entity.JointMounts:
			if conn.MountA == conn.MountB {
				brokenMounts[conn.MountA] = true
			}
		}

		for s := range brokenSegments {
			state.BrokenSegments[s] = true
			for _, m := range tpl.SegmentMounts(s) {
				brokenMounts[m] = true
			}
		}

		for m := range brokenMounts {
			phase := state.MountPhases[m]
			if (phase.IsMounted() || phase.IsRemounting()) && !dismountedThisFrame[m] {
				dismountedThisFrame[m] = true
				state.MountPhases[m] = phaseAfterDismount(tpl, phase)
			}
		}
	}
}

// intersectMounts returns the mounts common to both segment mount lists,
// in a's order.
func intersectMounts(a, b []entity.MountID) []entity.MountID {
	inB := make(map[entity.MountID]bool, len(b))
	for _, m := range b {
		inB[m] = true
	}
	var out []entity.MountID
	for _, m := range a {
		if inB[m] {
			out = append(out, m)
		}
	}
	return out
}
