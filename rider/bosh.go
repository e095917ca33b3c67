// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package rider provides the canonical default rider skeleton ("Bosh"):
// sled, body, and scarf, built through entity.TemplateBuilder exactly as
// the historical engine constructs it, rather than by approximating its
// proportions.
package rider

import (
	"github.com/gazed/trackphysics/entity"
	"github.com/gazed/trackphysics/vec2"
)

// mountEndurance, remountEnduranceFactor are shared by every breakable
// mount bone in the skeleton, independent of engine version.
const (
	mountEndurance         = 0.057
	remountEnduranceFactor = 2.0
	repelLengthFactor      = 0.5

	// Canonical remount timing: a mount spends 30 frames dismounting, 3
	// frames waiting before it may begin remounting, and 3 frames
	// remounting, before returning to Mounted.
	dismountedTimer = 30
	remountingTimer = 3
	mountedTimer    = 3
)

// scarfFriction and remountStrengthFactor vary by which historical
// ruleset the skeleton is built for: RemountNone matches the original
// Flash engine (which had no remount rules), RemountComV1 and
// RemountComV2 the two linerider.com rulesets, and RemountLRA Line
// Rider Advanced.
func scarfFriction(version entity.RemountVersion) float64 {
	switch version {
	case entity.RemountComV1, entity.RemountComV2:
		return 0.2
	default:
		return 0.1
	}
}

func remountStrengthFactor(version entity.RemountVersion) float64 {
	switch version {
	case entity.RemountComV1, entity.RemountComV2:
		return 0.1
	case entity.RemountLRA:
		return 0.5
	default:
		return 0.0
	}
}

// unbreakableFactor is the remount-time adjustment strength applied to
// the skeleton's non-breakable (and repel-only) bones. Under LRA the
// whole skeleton corrects at half strength while remounting, not just
// the mount bones.
func unbreakableFactor(version entity.RemountVersion) float64 {
	if version == entity.RemountLRA {
		return 0.5
	}
	return 1.0
}

// Build returns the default bosh rider skeleton: a sled (4 structural
// bones plus 2 diagonal braces), a body hung from the sled by 8
// breakable mount bones, two repel-only leg braces, and a 7-link scarf,
// tied together by 3 joints watching the sled's two mount-bearing
// corners.
func Build(version entity.RemountVersion) *entity.Template {
	b := entity.NewTemplateBuilder()
	mountFactor := remountStrengthFactor(version)
	rigidFactor := unbreakableFactor(version)
	friction := scarfFriction(version)

	peg := b.Point(vec2.New(0.0, 0.0)).Contact().ContactFriction(0.8).Build()
	tail := b.Point(vec2.New(0.0, 5.0)).Contact().Build()
	nose := b.Point(vec2.New(15.0, 5.0)).Contact().Build()
	str := b.Point(vec2.New(17.5, 0.0)).Contact().Build()
	butt := b.Point(vec2.New(5.0, 0.0)).Contact().ContactFriction(0.8).Build()
	shoulder := b.Point(vec2.New(5.0, -5.5)).Contact().ContactFriction(0.8).Build()
	rightHand := b.Point(vec2.New(11.5, -5.0)).Contact().ContactFriction(0.1).Build()
	leftHand := b.Point(vec2.New(11.5, -5.0)).Contact().ContactFriction(0.1).Build()
	leftFoot := b.Point(vec2.New(10.0, 5.0)).Contact().Build()
	rightFoot := b.Point(vec2.New(10.0, 5.0)).Contact().Build()

	scarfPositions := []vec2.Vec2{
		vec2.New(3.0, -5.5), vec2.New(1.0, -5.5), vec2.New(-1.0, -5.5),
		vec2.New(-3.0, -5.5), vec2.New(-5.0, -5.5), vec2.New(-7.0, -5.5),
		vec2.New(-9.0, -5.5),
	}
	scarf := make([]entity.PointID, len(scarfPositions))
	for i, p := range scarfPositions {
		scarf[i] = b.Point(p).AirFriction(friction).Build()
	}

	rigidBone := func(p0, p1 entity.PointID) entity.BoneID {
		return b.Bone(p0, p1).AdjustmentStrengthRemountFactor(rigidFactor).Build()
	}
	sledBack := rigidBone(peg, tail)
	rigidBone(tail, nose)
	rigidBone(nose, str)
	sledFront := rigidBone(str, peg)
	rigidBone(peg, nose)
	rigidBone(str, tail)

	mountBone := func(p0, p1 entity.PointID) {
		b.Bone(p0, p1).
			Endurance(mountEndurance).
			EnduranceRemountFactor(remountEnduranceFactor).
			AdjustmentStrengthRemountFactor(mountFactor).
			Build()
	}
	mountBone(peg, butt)
	mountBone(tail, butt)
	mountBone(nose, butt)

	torso := rigidBone(shoulder, butt)
	rigidBone(shoulder, leftHand)
	rigidBone(shoulder, rightHand)
	rigidBone(butt, leftFoot)
	rigidBone(butt, rightFoot)
	rigidBone(shoulder, rightHand) // duplicated in the original construction; kept as-is

	mountBone(shoulder, peg)
	mountBone(leftHand, str)
	mountBone(rightHand, str)
	mountBone(leftFoot, nose)
	mountBone(rightFoot, nose)

	b.Bone(shoulder, leftFoot).Repel().InitialLengthFactor(repelLengthFactor).
		AdjustmentStrengthRemountFactor(rigidFactor).Build()
	b.Bone(shoulder, rightFoot).Repel().InitialLengthFactor(repelLengthFactor).
		AdjustmentStrengthRemountFactor(rigidFactor).Build()

	prev := shoulder
	for _, p := range scarf {
		b.Bone(prev, p).Bias(1.0).Build()
		prev = p
	}

	b.Joint(sledBack, sledFront).Build()
	b.Joint(torso, sledFront).Build()
	b.Joint(sledBack, sledFront).Build() // two joints watch the same bone pair, as in the original.

	b.EnableRemount(version)
	if version != entity.RemountNone {
		b.DismountedTimer(dismountedTimer).
			RemountingTimer(remountingTimer).
			MountedTimer(mountedTimer)
	}

	return b.Build()
}
