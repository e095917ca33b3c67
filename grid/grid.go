// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package grid implements the spatial line grid used to find which line
// hitboxes are near a point without testing every line in the track.
// Lines are registered against the cells their length passes through;
// which cells that is depends on one of three historically distinct
// traversal algorithms, selected by a GridVersion, that are reproduced
// exactly rather than unified into one "better" algorithm — tracks
// created under an older version must still simulate the same way.
package grid

import (
	"math"
	"sort"

	"github.com/gazed/trackphysics/geom"
	"github.com/gazed/trackphysics/vec2"
)

// CellSize is the world-space width and height of a grid cell.
const CellSize = 14.0

// LineID identifies a line registered with a Grid. Ids are assigned in
// increasing order starting at 1; removing a line frees its id, so the
// highest id rejoins the pool once the line holding it is removed.
type LineID uint32

// GridVersion selects which historical cell-traversal algorithm a Grid
// uses to decide which cells a line occupies.
type GridVersion int

const (
	// V60 tests every cell in the line's bounding box for overlap with
	// the line's half-width hitbox.
	V60 GridVersion = iota
	// V61 walks cell-by-cell along the line, rounding the intercept
	// with each cell boundary to the nearest cell.
	V61
	// V62 walks cell-by-cell like V61 but without rounding, flipping
	// the step direction in cells with a negative coordinate.
	V62
)

// cell is a discrete grid cell coordinate plus the sub-cell remainder of
// the world position it was derived from.
type cell struct {
	x, y      int32
	remainder vec2.Vec2
}

func newCell(p geom.Point) cell {
	x := int32(math.Floor(p.X / CellSize))
	y := int32(math.Floor(p.Y / CellSize))
	return cell{
		x: x,
		y: y,
		remainder: vec2.New(
			p.X-CellSize*float64(x),
			p.Y-CellSize*float64(y),
		),
	}
}

// key returns the cell's perfect hash: the two cell coordinates are
// folded onto the non-negative integers by sign, then combined with a
// Szudzik-style pairing function so that a map keyed on the result never
// collides two distinct cells.
func (c cell) key() int32 {
	foldedX := 2 * c.x
	if c.x < 0 {
		foldedX = -2*c.x - 1
	}
	foldedY := 2 * c.y
	if c.y < 0 {
		foldedY = -2*c.y - 1
	}

	var h int32
	if foldedX >= foldedY {
		h = foldedX*foldedX + foldedX + foldedY
	} else {
		h = foldedY*foldedY + foldedX
	}

	if h%2 != 0 {
		return -(h-1)/2 - 1
	}
	return h/2 + 1
}

// Grid stores lines by the cells their geometry occupies and answers
// which lines lie near a query point.
type Grid struct {
	version GridVersion
	cells   map[int32][]LineID
	lines   map[LineID]geom.Line
}

// New returns an empty Grid that places lines using the given traversal
// version.
func New(version GridVersion) *Grid {
	return &Grid{
		version: version,
		cells:   make(map[int32][]LineID),
		lines:   make(map[LineID]geom.Line),
	}
}

// Version reports the traversal algorithm the grid currently uses.
func (g *Grid) Version() GridVersion { return g.version }

// SetVersion switches the traversal algorithm and re-derives every
// line's cell occupancy under it, since which cells a line occupies is
// itself a function of the version. Lines are re-registered in
// ascending id (original insertion) order so LinesNearPoint's ordering
// guarantee still holds afterward.
func (g *Grid) SetVersion(version GridVersion) {
	if version == g.version {
		return
	}
	g.version = version
	g.cells = make(map[int32][]LineID)

	ids := make([]LineID, 0, len(g.lines))
	for id := range g.lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		g.register(id, g.lines[id])
	}
}

// AddLine registers ln's cell occupancy under the grid's current
// version and returns the id assigned to it: one past the highest id
// currently registered, starting at 1.
func (g *Grid) AddLine(ln geom.Line) LineID {
	id := g.nextID()
	g.lines[id] = ln
	g.register(id, ln)
	return id
}

func (g *Grid) nextID() LineID {
	var last LineID
	for id := range g.lines {
		if id > last {
			last = id
		}
	}
	return last + 1
}

// GetLine returns the endpoints registered for id, if any.
func (g *Grid) GetLine(id LineID) (geom.Line, bool) {
	ln, ok := g.lines[id]
	return ln, ok
}

// ReplaceLine moves id's registration from its old endpoints to ln. It
// reports false if id is not registered.
func (g *Grid) ReplaceLine(id LineID, ln geom.Line) bool {
	old, ok := g.lines[id]
	if !ok {
		return false
	}
	g.unregister(id, old)
	g.lines[id] = ln
	g.register(id, ln)
	return true
}

// RemoveLine unregisters id. It reports false if id is not registered.
func (g *Grid) RemoveLine(id LineID) bool {
	ln, ok := g.lines[id]
	if !ok {
		return false
	}
	g.unregister(id, ln)
	delete(g.lines, id)
	return true
}

func (g *Grid) register(id LineID, ln geom.Line) {
	for _, c := range g.cellsAlong(ln) {
		k := c.key()
		// A cell holds at most one occurrence of each id, even if the
		// traversal revisits the cell.
		if containsID(g.cells[k], id) {
			continue
		}
		g.cells[k] = append(g.cells[k], id)
	}
}

func containsID(bucket []LineID, id LineID) bool {
	for _, existing := range bucket {
		if existing == id {
			return true
		}
	}
	return false
}

func (g *Grid) unregister(id LineID, ln geom.Line) {
	for _, c := range g.cellsAlong(ln) {
		k := c.key()
		bucket := g.cells[k]
		for i, existing := range bucket {
			if existing == id {
				g.cells[k] = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
	}
}

// LinesNearPoint returns the ids of every line registered in the 3x3
// block of cells centered on the cell containing point. Cells are
// scanned in (-1,-1) .. (1,1) row-major order, each cell contributing
// its lines in reverse registration order. A line spanning more than one
// cell of the block is reported once per cell it occupies there —
// duplicates are intentional, not a bug to dedupe.
func (g *Grid) LinesNearPoint(point geom.Point) []LineID {
	var ids []LineID
	for i := int32(-1); i <= 1; i++ {
		for j := int32(-1); j <= 1; j++ {
			offset := vec2.New(float64(i), float64(j)).Scale(CellSize)
			probe := point.Add(offset)
			k := newCell(probe).key()
			bucket := g.cells[k]
			for n := len(bucket) - 1; n >= 0; n-- {
				ids = append(ids, bucket[n])
			}
		}
	}
	return ids
}

// cellsAlong returns, in traversal order, every cell that ln's
// traversal algorithm considers the line to occupy.
func (g *Grid) cellsAlong(ln geom.Line) []cell {
	initial := newCell(ln.P0)
	final := newCell(ln.P1)
	if ln.P0.Eq(ln.P1) || (initial.x == final.x && initial.y == final.y) {
		return []cell{initial}
	}

	lowX, highX := minI32(initial.x, final.x), maxI32(initial.x, final.x)
	lowY, highY := minI32(initial.y, final.y), maxI32(initial.y, final.y)

	if g.version == V60 {
		return cellsAlongV60(ln, lowX, highX, lowY, highY)
	}
	return g.cellsAlongStepped(ln, initial, lowX, highX, lowY, highY)
}

// cellsAlongV60 reproduces the original cell-selection test: every cell
// in the line's bounding box is kept if the line's half-width hitbox
// overlaps the cell along both axes and the cell center is not farther
// from the line than the hitbox allows.
func cellsAlongV60(ln geom.Line, lowX, highX, lowY, highY int32) []cell {
	v := ln.Vector()
	normal := v.RotateCCW().Scale(1.0 / v.Len())
	halfway := vec2.New(math.Abs(v.X), math.Abs(v.Y)).Scale(0.5)
	midpoint := ln.P0.Add(v.Scale(0.5))
	absNormal := vec2.New(math.Abs(normal.X), math.Abs(normal.Y))

	var cells []cell
	for cx := lowX; cx <= highX; cx++ {
		for cy := lowY; cy <= highY; cy++ {
			centerPos := vec2.New(float64(cx)+0.5, float64(cy)+0.5).Scale(CellSize)
			next := newCell(centerPos)
			distBetweenCenters := midpoint.Sub(centerPos)
			distFromCellCenter := absNormal.Dot(next.remainder)
			// distFromCellCenter broadcast across both axes before the
			// second dot product — kept as-is even though it reduces to
			// distFromCellCenter*(absNormal.X+absNormal.Y); this is the
			// formula the engine shipped with.
			cellOverlap := vec2.New(distFromCellCenter, distFromCellCenter).Dot(absNormal)
			normalDistBetweenCenters := normal.Dot(distBetweenCenters)
			distFromLine := math.Abs(normalDistBetweenCenters*normal.X) +
				math.Abs(normalDistBetweenCenters*normal.Y)

			if halfway.X+next.remainder.X >= math.Abs(distBetweenCenters.X) &&
				halfway.Y+next.remainder.Y >= math.Abs(distBetweenCenters.Y) &&
				cellOverlap >= distFromLine {
				cells = append(cells, next)
			}
		}
	}
	return cells
}

// cellsAlongStepped reproduces the V61/V62 cell walk: starting at the
// line's first cell, repeatedly advance to the next cell boundary the
// line crosses until the last cell is reached or the walk stalls.
func (g *Grid) cellsAlongStepped(ln geom.Line, initial cell, lowX, highX, lowY, highY int32) []cell {
	var cells []cell
	curPos := ln.P0
	cur := initial
	for lowX <= cur.x && cur.x <= highX && lowY <= cur.y && cur.y <= highY {
		curPos = g.nextPosition(curPos, ln)
		next := newCell(curPos)
		if next.x == cur.x && next.y == cur.y {
			break
		}
		cells = append(cells, cur)
		cur = next
	}
	return cells
}

// nextPosition returns the point at which the line next crosses a cell
// boundary, walking forward from pos. V62 additionally flips the step
// direction for cells on the negative side of either axis.
func (g *Grid) nextPosition(pos geom.Point, ln geom.Line) geom.Point {
	cur := newCell(pos)
	v := ln.Vector()

	var dx float64
	if v.X > 0 {
		dx = CellSize - cur.remainder.X
	} else {
		dx = -1.0 - cur.remainder.X
	}
	var dy float64
	if v.Y > 0 {
		dy = CellSize - cur.remainder.Y
	} else {
		dy = -1.0 - cur.remainder.Y
	}

	if g.version == V62 {
		if cur.x < 0 {
			if v.X > 0 {
				dx = CellSize + cur.remainder.X
			} else {
				dx = -(CellSize + cur.remainder.X)
			}
		}
		if cur.y < 0 {
			if v.Y > 0 {
				dy = CellSize + cur.remainder.Y
			} else {
				dy = -(CellSize + cur.remainder.Y)
			}
		}
	}

	switch {
	case v.X == 0:
		return geom.Point{X: pos.X, Y: pos.Y + dy}
	case v.Y == 0:
		return geom.Point{X: pos.X + dx, Y: pos.Y}
	case g.version == V61:
		slope := v.Y / v.X
		yIntercept := ln.P0.Y - slope*ln.P0.X
		nextX := math.Round((pos.Y + dy - yIntercept) / slope)
		nextY := math.Round(slope*(pos.X+dx) + yIntercept)
		switch {
		case math.Abs(nextY-pos.Y) < math.Abs(dy):
			return geom.Point{X: pos.X + dx, Y: nextY}
		case math.Abs(nextY-pos.Y) == math.Abs(dy):
			return geom.Point{X: pos.X + dx, Y: pos.Y + dy}
		default:
			return geom.Point{X: nextX, Y: pos.Y + dy}
		}
	default: // V62
		yBasedDX := dy * (v.X / v.Y)
		xBasedDY := dx * (v.Y / v.X)
		nextX := pos.X + yBasedDX
		nextY := pos.Y + xBasedDY
		switch {
		case math.Abs(xBasedDY) < math.Abs(dy):
			return geom.Point{X: pos.X + dx, Y: nextY}
		case math.Abs(xBasedDY) == math.Abs(dy):
			return geom.Point{X: pos.X + dx, Y: pos.Y + dy}
		default:
			return geom.Point{X: nextX, Y: pos.Y + dy}
		}
	}
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
