package geom

// Universe is an ordered collection of cells that partition (or
// sub-partition, once nested through a fill) space, per
// original_source/Geometry/Universe.hpp.
type Universe struct {
	InternalID int
	UserID     string
	Cells      []*Cell

	// Parent is the cell whose fill created this universe instance;
	// nil for the base universe. A universe filling more than one cell
	// is cloned once per occurrence during flattening, mirroring the
	// original's "the universe is cloned" invariant in Universe.hpp.
	Parent *Cell
}

// FindCell scans this universe's cells in order and returns the first
// whose bounds contain p.
func (u *Universe) FindCell(p Vec3, skip Surface) *Cell {
	for _, c := range u.Cells {
		if found := c.FindCell(p, skip); found != nil {
			return found
		}
	}
	return nil
}
