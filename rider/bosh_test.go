// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gazed/trackphysics/entity"
	"github.com/gazed/trackphysics/rider"
)

func TestBoshHasSeventeenPoints(t *testing.T) {
	tpl := rider.Build(entity.RemountLRA)
	assert.Len(t, tpl.Points(), 17)
}

func TestBoshHasEightBreakableMountBones(t *testing.T) {
	tpl := rider.Build(entity.RemountLRA)
	breakable := 0
	for _, id := range tpl.Bones() {
		if tpl.Bone(id).Breakable() {
			breakable++
		}
	}
	assert.Equal(t, 8, breakable)
}

func TestBoshBreakableBonesAllShareTheSameMount(t *testing.T) {
	tpl := rider.Build(entity.RemountLRA)
	require.Len(t, tpl.Mounts(), 1)

	for _, id := range tpl.Bones() {
		bone := tpl.Bone(id)
		if !bone.Breakable() {
			continue
		}
		require.Equal(t, entity.ConnMount, bone.Connection.Kind)
		assert.Equal(t, tpl.Mounts()[0], bone.Connection.Mount)
	}
}

func TestBoshJointsAllWatchSegmentBones(t *testing.T) {
	tpl := rider.Build(entity.RemountLRA)
	for _, id := range tpl.Joints() {
		conn := tpl.Joint(id).Connection
		assert.Equal(t, entity.JointSegments, conn.Kind)
	}
}

func TestBoshScarfBonesAreFlutter(t *testing.T) {
	tpl := rider.Build(entity.RemountLRA)
	flutterCount := 0
	for _, id := range tpl.Bones() {
		if tpl.Bone(id).IsFlutter {
			flutterCount++
		}
	}
	// 7 scarf link bones: shoulder to the first scarf point, then scarf
	// point to scarf point. Every other bone joins two contact points.
	assert.Equal(t, 7, flutterCount)
}

func TestBoshRemountStrengthFactorVariesByVersion(t *testing.T) {
	flash := rider.Build(entity.RemountNone)
	com := rider.Build(entity.RemountComV1)
	lra := rider.Build(entity.RemountLRA)

	var flashBone, comBone, lraBone entity.BoneTemplate
	for _, id := range flash.Bones() {
		if flash.Bone(id).Breakable() {
			flashBone = flash.Bone(id)
			break
		}
	}
	for _, id := range com.Bones() {
		if com.Bone(id).Breakable() {
			comBone = com.Bone(id)
			break
		}
	}
	for _, id := range lra.Bones() {
		if lra.Bone(id).Breakable() {
			lraBone = lra.Bone(id)
			break
		}
	}

	assert.Equal(t, 0.0, flashBone.AdjustmentStrengthRemountFactor)
	assert.Equal(t, 0.1, comBone.AdjustmentStrengthRemountFactor)
	assert.Equal(t, 0.5, lraBone.AdjustmentStrengthRemountFactor)
}

func TestBoshUsesCanonicalRemountTimers(t *testing.T) {
	tpl := rider.Build(entity.RemountLRA)
	assert.Equal(t, uint32(30), tpl.DismountedTimer())
	assert.Equal(t, uint32(3), tpl.RemountingTimer())
	assert.Equal(t, uint32(3), tpl.MountedTimer())
}

func TestBoshUnbreakableBonesHalveAdjustmentStrengthUnderLRARemount(t *testing.T) {
	lra := rider.Build(entity.RemountLRA)
	com := rider.Build(entity.RemountComV1)

	for _, id := range lra.Bones() {
		bone := lra.Bone(id)
		if bone.Breakable() || bone.IsFlutter {
			continue
		}
		assert.Equal(t, 0.5, bone.AdjustmentStrengthRemountFactor,
			"sled/body bone %d should correct at half strength while remounting under LRA", id)
	}
	for _, id := range com.Bones() {
		bone := com.Bone(id)
		if bone.Breakable() || bone.IsFlutter {
			continue
		}
		assert.Equal(t, 1.0, bone.AdjustmentStrengthRemountFactor,
			"sled/body bone %d should correct at full strength under Com rulesets", id)
	}

	// Scarf links never set the factor and keep the builder default.
	for _, id := range lra.Bones() {
		bone := lra.Bone(id)
		if bone.IsFlutter {
			assert.Equal(t, 1.0, bone.AdjustmentStrengthRemountFactor)
		}
	}
}
