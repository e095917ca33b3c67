// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package entity

import (
	"fmt"
	"math"

	"github.com/gazed/trackphysics/geom"
)

// TemplateBuilder assembles a skeleton Template: points, then bones
// referencing already-added points, then joints referencing
// already-added bones, each appended in explicit insertion order.
type TemplateBuilder struct {
	points     map[PointID]PointTemplate
	pointOrder []PointID
	bones      map[BoneID]BoneTemplate
	boneOrder  []BoneID
	joints     map[JointID]JointTemplate
	jointOrder []JointID

	remountVersion  RemountVersion
	dismountedTimer uint32
	remountingTimer uint32
	mountedTimer    uint32
}

// NewTemplateBuilder returns an empty builder.
func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{
		points: map[PointID]PointTemplate{},
		bones:  map[BoneID]BoneTemplate{},
		joints: map[JointID]JointTemplate{},
	}
}

// Point starts building a point at the given initial position.
func (b *TemplateBuilder) Point(initialPosition geom.Point) *PointBuilder {
	return &PointBuilder{skeleton: b, template: PointTemplate{InitialPosition: initialPosition}}
}

// Bone starts building a bone between two already-added points.
func (b *TemplateBuilder) Bone(p0, p1 PointID) *BoneBuilder {
	return &BoneBuilder{
		skeleton: b,
		template: BoneTemplate{
			P0: p0, P1: p1,
			Bias:                            0.5,
			InitialLengthFactor:             1.0,
			Endurance:                       math.Inf(1),
			AdjustmentStrength:              1.0,
			EnduranceRemountFactor:          1.0,
			AdjustmentStrengthRemountFactor: 1.0,
		},
	}
}

// Joint starts building a joint watching two already-added bones.
func (b *TemplateBuilder) Joint(b0, b1 BoneID) *JointBuilder {
	return &JointBuilder{skeleton: b, b0: b0, b1: b1}
}

// EnableRemount marks the skeleton's mounts as eligible to remount after
// dismounting, under the given historical transition rules.
func (b *TemplateBuilder) EnableRemount(version RemountVersion) *TemplateBuilder {
	b.remountVersion = version
	return b
}

// DismountedTimer sets how many frames a dismounting mount spends in
// transit before it is fully dismounted.
func (b *TemplateBuilder) DismountedTimer(frames uint32) *TemplateBuilder {
	b.dismountedTimer = frames
	return b
}

// RemountingTimer sets how many frames a dismounted mount waits before it
// may begin remounting.
func (b *TemplateBuilder) RemountingTimer(frames uint32) *TemplateBuilder {
	b.remountingTimer = frames
	return b
}

// MountedTimer sets how many frames a remounting mount spends in transit
// before it is mounted again.
func (b *TemplateBuilder) MountedTimer(frames uint32) *TemplateBuilder {
	b.mountedTimer = frames
	return b
}

func (b *TemplateBuilder) addPoint(t PointTemplate) PointID {
	id := PointID(len(b.points))
	b.points[id] = t
	b.pointOrder = append(b.pointOrder, id)
	return id
}

func (b *TemplateBuilder) addBone(t BoneTemplate) BoneID {
	id := BoneID(len(b.bones))
	b.bones[id] = t
	b.boneOrder = append(b.boneOrder, id)
	return id
}

func (b *TemplateBuilder) addJoint(t JointTemplate) JointID {
	id := JointID(len(b.joints))
	b.joints[id] = t
	b.jointOrder = append(b.jointOrder, id)
	return id
}

// Build assembles the final Template, deriving each bone's rest length,
// flutter flag, and the segment/mount connection graph from the points,
// bones, and joints added so far.
//
// It panics if a bone references a point, or a joint a bone, that was
// never added to this builder — a construction-time programming error,
// not a runtime condition a caller can recover from.
func (b *TemplateBuilder) Build() *Template {
	for _, id := range b.boneOrder {
		bone := b.bones[id]
		if _, ok := b.points[bone.P0]; !ok {
			panic(fmt.Errorf("entity: bone %d references point %d, which was never added", id, bone.P0))
		}
		if _, ok := b.points[bone.P1]; !ok {
			panic(fmt.Errorf("entity: bone %d references point %d, which was never added", id, bone.P1))
		}
	}
	for _, id := range b.jointOrder {
		joint := b.joints[id]
		if _, ok := b.bones[joint.B0]; !ok {
			panic(fmt.Errorf("entity: joint %d references bone %d, which was never added", id, joint.B0))
		}
		if _, ok := b.bones[joint.B1]; !ok {
			panic(fmt.Errorf("entity: joint %d references bone %d, which was never added", id, joint.B1))
		}
	}

	t := &Template{
		points:          b.points,
		pointOrder:      b.pointOrder,
		bones:           b.bones,
		boneOrder:       b.boneOrder,
		joints:          b.joints,
		jointOrder:      b.jointOrder,
		remountVersion:  b.remountVersion,
		dismountedTimer: b.dismountedTimer,
		remountingTimer: b.remountingTimer,
		mountedTimer:    b.mountedTimer,
	}
	deriveBoneProperties(t)
	precomputeGraph(t)
	return t
}

// PointBuilder configures one point before it is appended to the
// skeleton under construction.
type PointBuilder struct {
	skeleton *TemplateBuilder
	template PointTemplate
}

// Contact marks the point as a ground-contact point: it collides with
// hitboxes and carries friction.
func (p *PointBuilder) Contact() *PointBuilder { p.template.Contact = true; return p }

// ContactFriction sets the friction applied when this point collides
// with a line. Meaningless unless Contact is also set.
func (p *PointBuilder) ContactFriction(f float64) *PointBuilder {
	p.template.ContactFriction = f
	return p
}

// AirFriction sets the fraction of this point's velocity shed each
// momentum step.
func (p *PointBuilder) AirFriction(f float64) *PointBuilder {
	p.template.AirFriction = f
	return p
}

// Build appends the point to the skeleton under construction and
// returns its id.
func (p *PointBuilder) Build() PointID { return p.skeleton.addPoint(p.template) }

// BoneBuilder configures one bone before it is appended to the skeleton
// under construction.
type BoneBuilder struct {
	skeleton                   *TemplateBuilder
	template                   BoneTemplate
	adjustmentRemountFactorSet bool
}

// Bias sets the fraction of a violated bone's adjustment applied to its
// second endpoint rather than its first (0.5 splits it evenly; 1.0 moves
// only the second endpoint).
func (bb *BoneBuilder) Bias(v float64) *BoneBuilder { bb.template.Bias = v; return bb }

// InitialLengthFactor scales the bone's rest length relative to the
// distance between its endpoints' initial positions.
func (bb *BoneBuilder) InitialLengthFactor(f float64) *BoneBuilder {
	bb.template.InitialLengthFactor = f
	return bb
}

// Repel marks the bone as repel-only: it relaxes only when its current
// length is below rest length, never when stretched past it.
func (bb *BoneBuilder) Repel() *BoneBuilder { bb.template.RepelOnly = true; return bb }

// Endurance sets how far a bone can stretch before it breaks: the bone
// stays intact while its percent deviation, (length-rest)/length, is at
// most Endurance times its rest length. A compressed bone's deviation is
// negative, so compression never breaks it. Clamped below at 0. The
// default is +Inf: non-breakable.
func (bb *BoneBuilder) Endurance(e float64) *BoneBuilder {
	bb.template.Endurance = math.Max(e, 0.0)
	return bb
}

// AdjustmentStrength scales how much of a violated bone's correction is
// actually applied each constraint-relaxation iteration.
func (bb *BoneBuilder) AdjustmentStrength(s float64) *BoneBuilder {
	bb.template.AdjustmentStrength = s
	return bb
}

// EnduranceRemountFactor scales Endurance while this bone's mount is in
// its post-remount grace period.
func (bb *BoneBuilder) EnduranceRemountFactor(f float64) *BoneBuilder {
	bb.template.EnduranceRemountFactor = f
	return bb
}

// AdjustmentStrengthRemountFactor scales AdjustmentStrength while this
// bone's mount is in its post-remount grace period.
func (bb *BoneBuilder) AdjustmentStrengthRemountFactor(f float64) *BoneBuilder {
	bb.template.AdjustmentStrengthRemountFactor = f
	bb.adjustmentRemountFactorSet = true
	return bb
}

// Build appends the bone to the skeleton under construction and returns
// its id.
//
// TODO: a bone that sets EnduranceRemountFactor but never calls
// AdjustmentStrengthRemountFactor gets AdjustmentStrengthRemountFactor
// defaulted from EnduranceRemountFactor's value rather than from 1.0.
// This mirrors a field-name mix-up in one of the original constructors
// and is kept for bit-exact compatibility with tracks built against it.
func (bb *BoneBuilder) Build() BoneID {
	if !bb.adjustmentRemountFactorSet {
		bb.template.AdjustmentStrengthRemountFactor = bb.template.EnduranceRemountFactor
	}
	return bb.skeleton.addBone(bb.template)
}

// JointBuilder configures one joint before it is appended to the
// skeleton under construction.
type JointBuilder struct {
	skeleton *TemplateBuilder
	b0, b1   BoneID
}

// Build appends the joint to the skeleton under construction and
// returns its id.
func (jb *JointBuilder) Build() JointID {
	return jb.skeleton.addJoint(JointTemplate{B0: jb.b0, B1: jb.b1})
}
