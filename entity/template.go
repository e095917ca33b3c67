// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package entity

import (
	"math"

	"github.com/gazed/trackphysics/geom"
)

// PointTemplate is the immutable per-point configuration a skeleton
// template carries for every point it defines.
type PointTemplate struct {
	InitialPosition geom.Point
	Contact         bool
	ContactFriction float64
	AirFriction     float64
}

// ConnectionKind distinguishes the two ways a bone can sit in the
// segment/mount graph.
type ConnectionKind int

const (
	// ConnSegment means the bone is non-breakable and lies entirely
	// within one segment.
	ConnSegment ConnectionKind = iota
	// ConnMount means the bone is breakable and belongs to a mount.
	ConnMount
)

// Connection is a bone's derived position in the segment/mount graph.
type Connection struct {
	Kind    ConnectionKind
	Segment SegmentID
	Mount   MountID
}

// BoneTemplate is a length constraint between two points, plus the
// fields the builder derives at Build time.
type BoneTemplate struct {
	P0, P1 PointID

	Bias                            float64
	InitialLengthFactor             float64
	RepelOnly                       bool
	Endurance                       float64
	AdjustmentStrength              float64
	EnduranceRemountFactor          float64
	AdjustmentStrengthRemountFactor float64

	// RestLength, IsFlutter, and Connection are derived by Build; they
	// carry no meaning on a bone still under construction.
	RestLength float64
	IsFlutter  bool
	Connection Connection
}

// Breakable reports whether the bone has finite endurance.
func (b BoneTemplate) Breakable() bool { return !math.IsInf(b.Endurance, 1) }

// JointConnectionKind distinguishes the three shapes a joint's two bones
// can take in the segment/mount graph.
type JointConnectionKind int

const (
	JointSegments JointConnectionKind = iota
	JointMounts
	JointHybrid
)

// JointConnection is a joint's derived position in the segment/mount
// graph, classified by what its two bones connect.
type JointConnection struct {
	Kind JointConnectionKind

	// Valid when Kind is JointSegments (both), or JointHybrid (SegmentA
	// only).
	SegmentA, SegmentB SegmentID

	// Valid when Kind is JointMounts (both), or JointHybrid (MountA
	// only).
	MountA, MountB MountID
}

// JointTemplate is an ordered pair of bones whose relative rotation is
// watched for folding.
type JointTemplate struct {
	B0, B1     BoneID
	Connection JointConnection
}

// RemountVersion selects which historical mount-phase transition rules a
// template's mounts evolve under.
type RemountVersion int

const (
	RemountNone RemountVersion = iota
	RemountComV1
	RemountComV2
	RemountLRA
)

// Template is a built, read-only skeleton definition: its points, bones,
// and joints in insertion order, its remount timers, and the
// segment/mount connection graph precomputed from its bones and joints.
type Template struct {
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

	segmentMounts map[SegmentID][]MountID
	mountSegments map[MountID][2]SegmentID
	mountOrder    []MountID

	pointSegment map[PointID]SegmentID
	segmentOrder map[SegmentID][]PointID
}

// Points returns every point id, in insertion order.
func (t *Template) Points() []PointID { return t.pointOrder }

// Bones returns every bone id, in insertion order.
func (t *Template) Bones() []BoneID { return t.boneOrder }

// Joints returns every joint id, in insertion order.
func (t *Template) Joints() []JointID { return t.jointOrder }

// Mounts returns every mount id, in the order they were derived.
func (t *Template) Mounts() []MountID { return t.mountOrder }

// Point returns the configuration for point id.
func (t *Template) Point(id PointID) PointTemplate { return t.points[id] }

// Bone returns the configuration for bone id.
func (t *Template) Bone(id BoneID) BoneTemplate { return t.bones[id] }

// Joint returns the configuration for joint id.
func (t *Template) Joint(id JointID) JointTemplate { return t.joints[id] }

// RemountVersion reports which historical mount rules this skeleton's
// mounts evolve under.
func (t *Template) RemountVersion() RemountVersion { return t.remountVersion }

// DismountedTimer is the number of frames a dismounting mount spends in
// transit before it is fully dismounted.
func (t *Template) DismountedTimer() uint32 { return t.dismountedTimer }

// RemountingTimer is the number of frames a dismounted mount waits
// before it may begin remounting.
func (t *Template) RemountingTimer() uint32 { return t.remountingTimer }

// MountedTimer is the number of frames a remounting mount spends in
// transit before it is mounted again.
func (t *Template) MountedTimer() uint32 { return t.mountedTimer }

// SegmentMounts returns the mounts attached to segment s.
func (t *Template) SegmentMounts(s SegmentID) []MountID { return t.segmentMounts[s] }

// MountSegments returns the (possibly equal) pair of segments mount m
// bridges, lower segment id first. Sled swaps exchange the first
// segment of the pair.
func (t *Template) MountSegments(m MountID) (SegmentID, SegmentID) {
	pair := t.mountSegments[m]
	return pair[0], pair[1]
}

// PointSegment returns the segment point id belongs to.
func (t *Template) PointSegment(id PointID) SegmentID { return t.pointSegment[id] }

// SegmentPoints returns the points segment s's non-breakable bones
// hold, in ascending point-id order. A point connected to the segment
// only through breakable bones is not part of the exchange a sled swap
// performs, so it is not listed here.
func (t *Template) SegmentPoints(s SegmentID) []PointID { return t.segmentOrder[s] }
