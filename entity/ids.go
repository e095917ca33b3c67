// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package entity implements the skeleton template model: points, bones,
// and joints assembled by a builder, the segment/mount connection graph
// precomputed from them at build time, and the registry that owns
// templates and the entities instantiated from them.
package entity

// PointID identifies a point within a skeleton template. Ids are
// assigned in insertion order, starting at 0, and are stable for the
// life of the template.
type PointID int

// BoneID identifies a bone within a skeleton template.
type BoneID int

// JointID identifies a joint within a skeleton template.
type JointID int

// SegmentID identifies a maximal set of points connected exclusively by
// non-breakable bones. Segments are assigned at template build time, in
// increasing order of each segment's union-find root point id.
type SegmentID int

// MountID identifies an equivalence class of breakable bones holding two
// segments together (or a single segment onto itself). Mounts are
// assigned at template build time, in bone-processing order.
type MountID int

// TemplateID identifies a skeleton template registered with a Registry.
type TemplateID int

// EntityID identifies an instantiated entity (a rider) owned by a
// Registry.
type EntityID int
