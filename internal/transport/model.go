package transport

import (
	"math"

	"github.com/89018580/helios/internal/geom"
	"github.com/89018580/helios/internal/grid"
	"github.com/89018580/helios/internal/material"
	"github.com/89018580/helios/internal/reaction"
)

// Model bundles the built, read-only engines a random walk samples
// against: the flattened geometry, the unified energy grid, the
// material table indexed by Cell.MaterialIndex, and the reaction
// library an Isotope's reaction-index fields resolve into. Shared
// read-only across cycle goroutines.
type Model struct {
	Geometry  *geom.Geometry
	Master    *grid.Master
	Materials []*material.Material
	Reactions *reaction.Library
	FreeGas   *reaction.FreeGasParams

	// MaxRNGPerHistory bounds the PRNG draws a single history may
	// consume, and sizes the per-history Jump stride so cycles and
	// histories never overlap streams.
	MaxRNGPerHistory int
}

// meanFreePath returns 1/Σ_total for cell at master-grid index i, or
// +Inf for a cell with no material (a void or filled cell, which has
// no collision probability of its own).
func (m *Model) meanFreePath(cell *geom.Cell, i int) float64 {
	mat := m.materialFor(cell)
	if mat == nil {
		return math.Inf(1)
	}
	return mat.MeanFreePath(i)
}

func (m *Model) materialFor(cell *geom.Cell) *material.Material {
	if cell.MaterialIndex < 0 || cell.MaterialIndex >= len(m.Materials) {
		return nil
	}
	return m.Materials[cell.MaterialIndex]
}
