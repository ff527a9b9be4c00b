// Package transport implements the per-history random walk and the
// power-iteration criticality cycle loop built on top of
// internal/geom, internal/xs, internal/material, and
// internal/reaction's collision kernel.
package transport

import "github.com/89018580/helios/internal/geom"

// State is a particle's life-cycle stage within one history.
type State int

const (
	// StateAlive is still being tracked through collisions.
	StateAlive State = iota
	// StateDead terminated by absorption, escape, or a dead cell.
	StateDead
	// StateBank is a fission progeny waiting to start its own history
	// in a later cycle.
	StateBank
)

// Particle is the random walk's mutable state: position, direction,
// energy, statistical weight, and the cached master-grid index and
// geometry cell that successive collisions reuse rather than
// re-resolving from scratch.
type Particle struct {
	Position Vec3
	Direction Vec3
	Energy   float64
	Weight   float64
	State    State

	MasterIndex int
	Cell        *geom.Cell
}

// BankEntry pairs a banked particle with the cell it was created in,
// so the next cycle's histories resume point-location from a known
// cell rather than re-locating from the base universe.
type BankEntry struct {
	Cell     *geom.Cell
	Particle Particle
}
