// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package entity

import "github.com/gazed/trackphysics/vec2"

// MountPhaseKind enumerates the mount state machine's four phases.
type MountPhaseKind int

const (
	// Mounted is a mount's steady, intact state.
	Mounted MountPhaseKind = iota
	// Dismounting is entered the frame a mount's bones break; it spends
	// Frames frames in transit before becoming Dismounted.
	Dismounting
	// Dismounted is held for Frames frames before the mount is
	// eligible to begin Remounting.
	Dismounted
	// Remounting is entered once a dismounted mount's segments come
	// back within range; it spends Frames frames in transit before
	// becoming Mounted again.
	Remounting
)

// MountPhase is a mount's current state: which phase it is in, and (for
// every phase but Mounted) how many frames remain in it.
type MountPhase struct {
	Kind   MountPhaseKind
	Frames uint32
}

// IsMounted reports whether the mount's bones are intact.
func (p MountPhase) IsMounted() bool { return p.Kind == Mounted }

// IsDismounted reports whether the mount has fully separated.
func (p MountPhase) IsDismounted() bool { return p.Kind == Dismounted }

// IsRemounting reports whether the mount is in transit back to Mounted.
func (p MountPhase) IsRemounting() bool { return p.Kind == Remounting }

// PointState is a point's mutable per-frame data.
type PointState struct {
	Position                 vec2.Vec2
	Velocity                 vec2.Vec2
	ComputedPreviousPosition vec2.Vec2
}

// State is all mutable per-entity data for a single frame: every point's
// position/velocity, every mount's phase, and which segments have broken
// free of their skeleton entirely.
type State struct {
	Points         map[PointID]PointState
	MountPhases    map[MountID]MountPhase
	BrokenSegments map[SegmentID]bool
}

// Clone returns an independent deep copy of s, safe to mutate without
// affecting s.
func (s *State) Clone() *State {
	points := make(map[PointID]PointState, len(s.Points))
	for k, v := range s.Points {
		points[k] = v
	}
	phases := make(map[MountID]MountPhase, len(s.MountPhases))
	for k, v := range s.MountPhases {
		phases[k] = v
	}
	broken := make(map[SegmentID]bool, len(s.BrokenSegments))
	for k, v := range s.BrokenSegments {
		broken[k] = v
	}
	return &State{Points: points, MountPhases: phases, BrokenSegments: broken}
}

// NewInitialState builds the frame-0 state for a template instantiated
// at the given world-space offset with the given initial velocity:
// every point starts at its template position translated by offset,
// moving at initialVelocity, with its computed previous position backed
// out from that velocity; every mount starts Mounted.
func NewInitialState(t *Template, offset, initialVelocity vec2.Vec2) *State {
	points := make(map[PointID]PointState, len(t.pointOrder))
	for _, id := range t.pointOrder {
		position := t.points[id].InitialPosition.Add(offset)
		points[id] = PointState{
			Position:                 position,
			Velocity:                 initialVelocity,
			ComputedPreviousPosition: position.Sub(initialVelocity),
		}
	}
	phases := make(map[MountID]MountPhase, len(t.mountOrder))
	for _, id := range t.mountOrder {
		phases[id] = MountPhase{Kind: Mounted}
	}
	return &State{Points: points, MountPhases: phases, BrokenSegments: map[SegmentID]bool{}}
}
