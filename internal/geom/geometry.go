package geom

import (
	"fmt"
	"math"

	"github.com/89018580/helios/internal/herr"
)

// crossNudge is the small forward step applied when relocating a
// point just past a crossed surface, so the subsequent point-location
// call lands unambiguously on the far side rather than back on the
// surface itself.
const crossNudge = 1e-9

// Geometry is the flattened, concrete CSG graph: every surface, cell,
// and universe the builder produced, plus the base universe transport
// starts point-location from. Built once and shared read-only across
// transport goroutines, per the kernel's concurrency model.
type Geometry struct {
	Surfaces  []Surface
	Cells     []*Cell
	Universes []*Universe
	Base      *Universe
}

// Locate returns the innermost cell containing p, or nil if p is
// outside every cell of the base universe.
func (g *Geometry) Locate(p Vec3) *Cell {
	return g.Base.FindCell(p, nil)
}

// LocateSkipping relocates a particle that has just crossed skip and
// been nudged past it by Advance. The crossed surface's sense is
// tested like any other bound, so the cell being left is not returned
// again.
func (g *Geometry) LocateSkipping(p Vec3, skip Surface) *Cell {
	return g.Base.FindCell(p, skip)
}

// Advance returns p moved distance along d, nudged forward by
// crossNudge so a subsequent Locate call unambiguously resolves to the
// far side of whatever surface was just crossed.
func Advance(p, d Vec3, distance float64) Vec3 {
	step := distance + crossNudge
	return Vec3{p[0] + d[0]*step, p[1] + d[1]*step, p[2] + d[2]*step}
}

// BoundSpec is one surface reference in a cell definition, before
// flattening resolves it to a concrete Surface.
type BoundSpec struct {
	SurfaceUserID string
	Sense         bool
}

// CellDef is a cell definition supplied to the Builder, before
// flattening.
type CellDef struct {
	UserID        string
	Bounds        []BoundSpec
	Flag          Flag
	MaterialIndex int

	FillUniverseID string // "" if this cell has no fill
	FillTransform  Transform
}

// UniverseDef is a universe definition supplied to the Builder.
type UniverseDef struct {
	UserID  string
	CellIDs []string
}

// Builder accumulates surface, cell, and universe definitions and
// flattens them into a concrete Geometry on Build.
type Builder struct {
	surfaces  map[string]Surface
	cells     map[string]*CellDef
	universes map[string]*UniverseDef
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		surfaces:  make(map[string]Surface),
		cells:     make(map[string]*CellDef),
		universes: make(map[string]*UniverseDef),
	}
}

// AddSurface registers a surface definition.
func (b *Builder) AddSurface(s Surface) { b.surfaces[s.UserID()] = s }

// AddCell registers a cell definition.
func (b *Builder) AddCell(def CellDef) { b.cells[def.UserID] = &def }

// AddUniverse registers a universe definition.
func (b *Builder) AddUniverse(def UniverseDef) { b.universes[def.UserID] = &def }

// Build validates the accumulated definitions and flattens them into a
// concrete Geometry rooted at the universe named baseUniverseID.
func (b *Builder) Build(baseUniverseID string) (*Geometry, error) {
	base, ok := b.universes[baseUniverseID]
	if !ok {
		return nil, herr.Build(herr.ErrGeometryBuild, baseUniverseID, "base universe not defined")
	}

	if err := b.validateReferences(); err != nil {
		return nil, err
	}
	if err := b.validateNoSelfFillingCycle(baseUniverseID); err != nil {
		return nil, err
	}
	if err := b.validateSenseExpressions(); err != nil {
		return nil, err
	}

	g := &Geometry{}
	dedup := make(map[string]Surface)
	u, err := b.flattenUniverse(base, Identity, nil, g, dedup)
	if err != nil {
		return nil, err
	}
	g.Base = u
	return g, nil
}

func (b *Builder) validateReferences() error {
	for cellID, cdef := range b.cells {
		for _, bound := range cdef.Bounds {
			if _, ok := b.surfaces[bound.SurfaceUserID]; !ok {
				return herr.Build(herr.ErrGeometryBuild, cellID, fmt.Sprintf("unresolved surface reference %q", bound.SurfaceUserID))
			}
		}
		if cdef.FillUniverseID != "" {
			if _, ok := b.universes[cdef.FillUniverseID]; !ok {
				return herr.Build(herr.ErrGeometryBuild, cellID, fmt.Sprintf("unresolved fill universe reference %q", cdef.FillUniverseID))
			}
		}
	}
	for univID, udef := range b.universes {
		for _, cellID := range udef.CellIDs {
			if _, ok := b.cells[cellID]; !ok {
				return herr.Build(herr.ErrGeometryBuild, univID, fmt.Sprintf("unresolved cell reference %q", cellID))
			}
		}
	}
	return nil
}

// validateNoSelfFillingCycle walks the universe->cell->fill graph
// depth-first from the base universe and fails if any universe
// reappears on the current path: a universe (directly or through a
// chain of fills) cannot contain a cell filled by itself.
func (b *Builder) validateNoSelfFillingCycle(baseUniverseID string) error {
	onPath := make(map[string]bool)
	var walk func(univID string) error
	walk = func(univID string) error {
		if onPath[univID] {
			return herr.Build(herr.ErrGeometryBuild, univID, "self-filling cycle detected")
		}
		onPath[univID] = true
		defer delete(onPath, univID)

		udef := b.universes[univID]
		for _, cellID := range udef.CellIDs {
			cdef := b.cells[cellID]
			if cdef.FillUniverseID == "" {
				continue
			}
			if err := walk(cdef.FillUniverseID); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(baseUniverseID)
}

// validateSenseExpressions rejects a cell that references the same
// surface twice with contradictory senses: an intersection of two
// opposite half-spaces of the same surface is never satisfiable, a
// degenerate sense expression the GeometryBuild error covers.
func (b *Builder) validateSenseExpressions() error {
	for cellID, cdef := range b.cells {
		seen := make(map[string]bool)
		for _, bound := range cdef.Bounds {
			if want, ok := seen[bound.SurfaceUserID]; ok {
				if want != bound.Sense {
					return herr.Build(herr.ErrGeometryBuild, cellID, fmt.Sprintf("contradictory sense for surface %q", bound.SurfaceUserID))
				}
				continue
			}
			seen[bound.SurfaceUserID] = bound.Sense
		}
	}
	return nil
}

func (b *Builder) flattenUniverse(udef *UniverseDef, transform Transform, parent *Cell, g *Geometry, dedup map[string]Surface) (*Universe, error) {
	u := &Universe{UserID: udef.UserID, Parent: parent, InternalID: len(g.Universes)}
	g.Universes = append(g.Universes, u)

	for _, cellID := range udef.CellIDs {
		cdef := b.cells[cellID]
		pathID := cdef.UserID
		if parent != nil {
			pathID = cdef.UserID + "<" + parent.PathID
		}
		cell := &Cell{
			UserID:        cdef.UserID,
			PathID:        pathID,
			Flag:          cdef.Flag,
			MaterialIndex: cdef.MaterialIndex,
			Parent:        parent,
			InternalID:    len(g.Cells),
		}
		for _, bound := range cdef.Bounds {
			base := b.surfaces[bound.SurfaceUserID]
			translated := base.Translate(transform.Translation)
			resolved := dedupSurface(translated, dedup, g)
			cell.Bounds = append(cell.Bounds, BoundSurface{Surface: resolved, Sense: bound.Sense})
		}
		g.Cells = append(g.Cells, cell)
		u.Cells = append(u.Cells, cell)

		if cdef.FillUniverseID != "" {
			innerDef := b.universes[cdef.FillUniverseID]
			innerTransform := transform.Compose(cdef.FillTransform)
			innerUniverse, err := b.flattenUniverse(innerDef, innerTransform, cell, g, dedup)
			if err != nil {
				return nil, err
			}
			cell.Fill = innerUniverse
		}
	}
	return u, nil
}

// dedupSurface returns a shared Surface instance for translated,
// keyed on its type and rounded coefficients, so surfaces cloned
// identically through more than one fill occurrence collapse to one
// arena entry: duplicate surfaces produced by cloning dedup during
// geometry flattening.
func dedupSurface(translated Surface, dedup map[string]Surface, g *Geometry) Surface {
	kind, values := translated.Coeffs()
	key := coeffKey(kind, values)
	if existing, ok := dedup[key]; ok {
		return existing
	}
	translated.setInternalID(len(g.Surfaces))
	g.Surfaces = append(g.Surfaces, translated)
	dedup[key] = translated
	return translated
}

// coeffKey rounds coefficients to a fixed precision before hashing
// into a string key, since translated floating-point coefficients
// arriving from distinct but mathematically identical fill chains can
// differ in their last few bits.
func coeffKey(kind string, values []float64) string {
	key := kind
	for _, v := range values {
		key += fmt.Sprintf(":%.9g", roundTo(v, 1e9))
	}
	return key
}

func roundTo(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}
