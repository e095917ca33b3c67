// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package trackphysics

import (
	"github.com/gazed/trackphysics/geom"
	"github.com/gazed/trackphysics/grid"
	"github.com/gazed/trackphysics/hitbox"
)

// LineRegistry owns every physics line registered with an engine and the
// spatial grid used to find lines near a point. It is the step package's
// Lines collaborator: Near resolves a grid query straight into hitbox.Line
// values so step never has to know about grid cells or line ids.
type LineRegistry struct {
	grid  *grid.Grid
	lines map[grid.LineID]hitbox.Line
}

// NewLineRegistry returns an empty LineRegistry whose grid uses the given
// traversal version.
func NewLineRegistry(version grid.GridVersion) *LineRegistry {
	return &LineRegistry{
		grid:  grid.New(version),
		lines: map[grid.LineID]hitbox.Line{},
	}
}

// Version reports the grid traversal algorithm currently in use.
func (r *LineRegistry) Version() grid.GridVersion { return r.grid.Version() }

// SetVersion switches the grid's traversal algorithm, re-deriving every
// line's cell occupancy under it.
func (r *LineRegistry) SetVersion(version grid.GridVersion) { r.grid.SetVersion(version) }

// AddLine registers line's endpoints with the grid and returns the id
// assigned to it.
func (r *LineRegistry) AddLine(line hitbox.Line) grid.LineID {
	id := r.grid.AddLine(line.Endpoints())
	r.lines[id] = line
	return id
}

// GetLine returns the line registered under id.
func (r *LineRegistry) GetLine(id grid.LineID) (hitbox.Line, bool) {
	l, ok := r.lines[id]
	return l, ok
}

// ReplaceLine re-registers id under new endpoints/configuration, preserving
// its id. It reports ErrInvalidLineId if id is not registered.
func (r *LineRegistry) ReplaceLine(id grid.LineID, line hitbox.Line) error {
	if !r.grid.ReplaceLine(id, line.Endpoints()) {
		return ErrInvalidLineId
	}
	r.lines[id] = line
	return nil
}

// RemoveLine unregisters id. It reports ErrInvalidLineId if id is not
// registered.
func (r *LineRegistry) RemoveLine(id grid.LineID) error {
	if !r.grid.RemoveLine(id) {
		return ErrInvalidLineId
	}
	delete(r.lines, id)
	return nil
}

// Near implements step.Lines: it resolves the grid's 3x3-cell query into
// the hitbox.Line values registered at those ids, preserving duplicates and
// the grid's cell-scan order.
func (r *LineRegistry) Near(p geom.Point) []hitbox.Line {
	ids := r.grid.LinesNearPoint(p)
	lines := make([]hitbox.Line, 0, len(ids))
	for _, id := range ids {
		if l, ok := r.lines[id]; ok {
			lines = append(lines, l)
		}
	}
	return lines
}
