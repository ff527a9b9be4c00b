package geom

import "math"

// Flag carries the extra per-cell attributes original_source/
// Geometry/Cell.hpp's CellInfo enum defines.
type Flag int

const (
	FlagNone Flag = iota
	FlagDead
	FlagNegated
	FlagVoid
)

// BoundSurface is one (surface, sense) pair in a cell's sense
// expression: Cell::CellSurface in the original.
type BoundSurface struct {
	Surface Surface
	Sense   bool
}

// Cell is a region of space defined by the conjunction of senses in
// Bounds, optionally filled with another Universe, optionally flagged
// dead/negated/void. Parent links to the outer cell whose fill created
// this cell's universe, nil for cells in the base universe: the
// pointer Cell::intersect walks to pick up inherited bounding surfaces
// from ancestor levels.
type Cell struct {
	InternalID int
	UserID     string
	PathID     string

	Bounds []BoundSurface
	Flag   Flag

	Fill *Universe

	// MaterialIndex indexes into the owning Geometry's/the kernel's
	// material table; -1 for filled or void cells, which have no
	// material of their own.
	MaterialIndex int

	Parent *Cell
}

// matchesBounds reports whether p's sense against every bounding
// surface equals the cell's declared sense for that surface: the
// conjunction original_source/Geometry/Cell.cpp's findCell tests one
// surface at a time, short-circuiting on mismatch. skip, the surface
// just crossed, is tested like any other: p has been nudged past it,
// so the cell being left no longer matches.
func (c *Cell) matchesBounds(p Vec3, skip Surface) bool {
	for _, b := range c.Bounds {
		if b.Surface.Sense(p) != b.Sense {
			return false
		}
	}
	return true
}

// FindCell locates the innermost cell containing p, starting the
// search at this cell: if p satisfies this cell's bounds (inverted for
// a FlagNegated cell) and the cell has a fill, recurse into the fill
// universe; otherwise this cell is the answer. Returns nil if p is
// outside this cell.
func (c *Cell) FindCell(p Vec3, skip Surface) *Cell {
	inside := c.matchesBounds(p, skip)
	if c.Flag == FlagNegated {
		inside = !inside
	}
	if !inside {
		return nil
	}
	if c.Fill != nil {
		return c.Fill.FindCell(p, skip)
	}
	return c
}

// Intersect finds the nearest bounding surface along (p, d), including
// surfaces inherited from ancestor cells through Parent: the same
// upward walk original_source/Geometry/Cell.cpp's intersect performs
// before scanning its own surfaces.
func (c *Cell) Intersect(p, d Vec3, skip Surface) (surface Surface, sense bool, distance float64, found bool) {
	if c.Parent != nil {
		surface, sense, distance, found = c.Parent.Intersect(p, d, skip)
	} else {
		distance = math.Inf(1)
	}
	for _, b := range c.Bounds {
		if b.Surface == skip {
			continue
		}
		dist, ok := b.Surface.Intersect(p, d, b.Sense)
		if ok && dist < distance {
			surface, sense, distance, found = b.Surface, b.Sense, dist, true
		}
	}
	return
}
