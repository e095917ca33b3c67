// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package entity

import (
	"log/slog"
	"sort"
)

// deriveBoneProperties fills in each bone's rest length (the distance
// between its endpoints' initial positions, scaled by its initial
// length factor) and flutter flag (true unless both endpoints are
// ground-contact points).
func deriveBoneProperties(t *Template) {
	for _, id := range t.boneOrder {
		bone := t.bones[id]
		p0 := t.points[bone.P0]
		p1 := t.points[bone.P1]
		bone.RestLength = p0.InitialPosition.Sub(p1.InitialPosition).Len() * bone.InitialLengthFactor
		bone.IsFlutter = !(p0.Contact && p1.Contact)
		t.bones[id] = bone
	}
}

// precomputeGraph partitions a template's points into segments along
// non-breakable bones, assigns a mount to every breakable bone (reusing
// one mount for every breakable bone spanning the same unordered pair of
// segments), and classifies every joint by what its two bones connect.
func precomputeGraph(t *Template) {
	parent := map[PointID]PointID{}
	for _, id := range t.pointOrder {
		parent[id] = id
	}
	for _, id := range t.boneOrder {
		if bone := t.bones[id]; !bone.Breakable() {
			ufUnion(parent, bone.P0, bone.P1)
		}
	}

	// Segment ids are assigned to union-find roots in ascending root
	// point id. Roots sit at each component's highest point id (see
	// ufUnion), so the numbering is stable against bone insertion order.
	rootSegment := map[PointID]SegmentID{}
	var nextSegment SegmentID
	for _, id := range t.pointOrder {
		if ufFind(parent, id) == id {
			rootSegment[id] = nextSegment
			nextSegment++
		}
	}
	pointSegment := map[PointID]SegmentID{}
	for _, id := range t.pointOrder {
		pointSegment[id] = rootSegment[ufFind(parent, id)]
	}
	t.pointSegment = pointSegment

	t.segmentMounts = map[SegmentID][]MountID{}
	t.mountSegments = map[MountID][2]SegmentID{}
	crossSegmentMount := map[[2]SegmentID]MountID{}
	var nextMount MountID

	addMount := func(a, b SegmentID) MountID {
		m := nextMount
		nextMount++
		t.mountSegments[m] = [2]SegmentID{a, b}
		t.segmentMounts[a] = append(t.segmentMounts[a], m)
		if b != a {
			t.segmentMounts[b] = append(t.segmentMounts[b], m)
		}
		t.mountOrder = append(t.mountOrder, m)
		return m
	}

	segmentOrder := map[SegmentID][]PointID{}
	for _, id := range t.boneOrder {
		bone := t.bones[id]
		segA, segB := pointSegment[bone.P0], pointSegment[bone.P1]
		if segB < segA {
			segA, segB = segB, segA
		}
		switch {
		case !bone.Breakable():
			bone.Connection = Connection{Kind: ConnSegment, Segment: segA}
			segmentOrder[segA] = appendPointOnce(segmentOrder[segA], bone.P0)
			segmentOrder[segA] = appendPointOnce(segmentOrder[segA], bone.P1)
		case segA == segB:
			bone.Connection = Connection{Kind: ConnMount, Mount: addMount(segA, segA)}
		default:
			key := [2]SegmentID{segA, segB}
			m, ok := crossSegmentMount[key]
			if !ok {
				m = addMount(segA, segB)
				crossSegmentMount[key] = m
			}
			bone.Connection = Connection{Kind: ConnMount, Mount: m}
		}
		t.bones[id] = bone
	}
	// Sled swaps move a segment's points in ascending point-id order;
	// only points held by a non-breakable bone belong to the exchange.
	for seg := range segmentOrder {
		sortPointIDs(segmentOrder[seg])
	}
	t.segmentOrder = segmentOrder

	for _, id := range t.jointOrder {
		joint := t.joints[id]
		c0, c1 := t.bones[joint.B0].Connection, t.bones[joint.B1].Connection
		switch {
		case c0.Kind == ConnSegment && c1.Kind == ConnSegment:
			a, b := c0.Segment, c1.Segment
			if b < a {
				a, b = b, a
			}
			joint.Connection = JointConnection{Kind: JointSegments, SegmentA: a, SegmentB: b}
		case c0.Kind == ConnMount && c1.Kind == ConnMount:
			joint.Connection = JointConnection{Kind: JointMounts, MountA: c0.Mount, MountB: c1.Mount}
		case c0.Kind == ConnSegment:
			joint.Connection = JointConnection{Kind: JointHybrid, SegmentA: c0.Segment, MountA: c1.Mount}
		default:
			joint.Connection = JointConnection{Kind: JointHybrid, SegmentA: c1.Segment, MountA: c0.Mount}
		}
		t.joints[id] = joint
	}
}

// ufFind returns the representative of x's set, following parent links
// to the root. Every point is entered into the parent map before any
// union runs, so a missing parent is a caller bug, not a condition to
// recover from.
func ufFind(parent map[PointID]PointID, x PointID) PointID {
	p, ok := parent[x]
	if !ok {
		slog.Error("missing point parent", "point_id", x)
	}
	if p == x {
		return x
	}
	return ufFind(parent, p)
}

// ufUnion merges the sets containing x and y, rooting the merged set at
// whichever representative has the higher point id, so that a
// component's root is always its highest member.
func ufUnion(parent map[PointID]PointID, x, y PointID) {
	rx, ry := ufFind(parent, x), ufFind(parent, y)
	switch {
	case rx < ry:
		parent[rx] = ry
	case rx > ry:
		parent[ry] = rx
	}
}

func appendPointOnce(ids []PointID, id PointID) []PointID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func sortPointIDs(ids []PointID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
