package transport

import (
	"github.com/89018580/helios/internal/geom"
	"github.com/89018580/helios/internal/grid"
	"github.com/89018580/helios/internal/material"
	"github.com/89018580/helios/internal/reaction"
	"github.com/89018580/helios/internal/xs"
)

// fixedEnergyLaw always returns the same outgoing energy, leaving
// angle sampling to a separate CosineTable (ok=false), for test
// isotopes whose secondary kinematics don't need to vary.
type fixedEnergyLaw struct{ energy float64 }

func (f fixedEnergyLaw) Sample(incident float64, draw func() float64) (float64, float64, bool) {
	return f.energy, 0, false
}

// buildInfiniteMediumModel returns a Model with a single unbounded
// cell filled with a material built from iso, and the given reaction
// library.
func buildInfiniteMediumModel(iso *xs.Isotope, master *grid.Master, reactions *reaction.Library) (*Model, *geom.Geometry) {
	b := geom.NewBuilder()
	b.AddCell(geom.CellDef{UserID: "C", MaterialIndex: 0})
	b.AddUniverse(geom.UniverseDef{UserID: "base", CellIDs: []string{"C"}})
	g, err := b.Build("base")
	if err != nil {
		panic(err)
	}

	mat, err := material.New("mat", master, material.AtomFraction, []material.Nuclide{{Isotope: iso, Fraction: 1}}, 1.0, "atom/b-cm")
	if err != nil {
		panic(err)
	}

	return &Model{
		Geometry:         g,
		Master:           master,
		Materials:        []*material.Material{mat},
		Reactions:        reactions,
		MaxRNGPerHistory: 100000,
	}, g
}

// buildBoxModel returns a Model with a single bounded box cell
// [lo,hi]^3 and no ambient cell, so a particle crossing any face
// escapes the geometry entirely.
func buildBoxModel(iso *xs.Isotope, master *grid.Master, reactions *reaction.Library, lo, hi float64) *Model {
	b := geom.NewBuilder()
	b.AddSurface(geom.NewPlaneAxis("x-lo", geom.AxisX, lo))
	b.AddSurface(geom.NewPlaneAxis("x-hi", geom.AxisX, hi))
	b.AddSurface(geom.NewPlaneAxis("y-lo", geom.AxisY, lo))
	b.AddSurface(geom.NewPlaneAxis("y-hi", geom.AxisY, hi))
	b.AddSurface(geom.NewPlaneAxis("z-lo", geom.AxisZ, lo))
	b.AddSurface(geom.NewPlaneAxis("z-hi", geom.AxisZ, hi))
	b.AddCell(geom.CellDef{
		UserID: "C",
		Bounds: []geom.BoundSpec{
			{SurfaceUserID: "x-lo", Sense: true},
			{SurfaceUserID: "x-hi", Sense: false},
			{SurfaceUserID: "y-lo", Sense: true},
			{SurfaceUserID: "y-hi", Sense: false},
			{SurfaceUserID: "z-lo", Sense: true},
			{SurfaceUserID: "z-hi", Sense: false},
		},
		MaterialIndex: 0,
	})
	b.AddUniverse(geom.UniverseDef{UserID: "base", CellIDs: []string{"C"}})
	g, err := b.Build("base")
	if err != nil {
		panic(err)
	}

	mat, err := material.New("mat", master, material.AtomFraction, []material.Nuclide{{Isotope: iso, Fraction: 1}}, 1.0, "atom/b-cm")
	if err != nil {
		panic(err)
	}

	return &Model{
		Geometry:         g,
		Master:           master,
		Materials:        []*material.Material{mat},
		Reactions:        reactions,
		MaxRNGPerHistory: 100000,
	}
}

// buildSphereModel returns a Model with a single bounded spherical
// cell of the given radius centered at the origin and no ambient
// cell, so a particle crossing the sphere's surface escapes the
// geometry entirely (a bare critical-assembly-shaped boundary, unlike
// buildBoxModel's six-plane box).
func buildSphereModel(iso *xs.Isotope, master *grid.Master, reactions *reaction.Library, radius float64) *Model {
	b := geom.NewBuilder()
	b.AddSurface(geom.NewQuadric("sphere", 1, 1, 1, 0, 0, 0, 0, 0, 0, -radius*radius))
	b.AddCell(geom.CellDef{
		UserID:        "C",
		Bounds:        []geom.BoundSpec{{SurfaceUserID: "sphere", Sense: false}},
		MaterialIndex: 0,
	})
	b.AddUniverse(geom.UniverseDef{UserID: "base", CellIDs: []string{"C"}})
	g, err := b.Build("base")
	if err != nil {
		panic(err)
	}

	mat, err := material.New("mat", master, material.AtomFraction, []material.Nuclide{{Isotope: iso, Fraction: 1}}, 1.0, "atom/b-cm")
	if err != nil {
		panic(err)
	}

	return &Model{
		Geometry:         g,
		Master:           master,
		Materials:        []*material.Material{mat},
		Reactions:        reactions,
		MaxRNGPerHistory: 100000,
	}
}

// newAbsorbingIsotope returns a non-fissile isotope whose entire cross
// section is absorption (pAbs=1, pEl=0), the simplest terminate-on-
// first-collision test fixture.
func newAbsorbingIsotope(master *grid.Master) *xs.Isotope {
	native := []float64{1e-5, 20.0}
	return xs.New("absorber", false, 1.0, master, native,
		[]float64{1, 1}, // total
		[]float64{1, 1}, // absorption
		[]float64{0, 0}, // fission
		[]float64{0, 0}, // elastic
		nil, nil, nil,
	)
}

// newElasticIsotope returns a non-fissile isotope whose entire cross
// section is elastic (pAbs=0, pEl=1), for tests that need a history to
// survive indefinitely.
func newElasticIsotope(master *grid.Master) *xs.Isotope {
	native := []float64{1e-5, 20.0}
	return xs.New("scatterer", false, 1.0, master, native,
		[]float64{1e9, 1e9}, // total: huge cross section, tiny mean free path
		[]float64{0, 0},
		[]float64{0, 0},
		[]float64{1e9, 1e9}, // elastic
		nil, nil, nil,
	)
}

// newVanishingCrossSectionIsotope returns a non-fissile isotope with a
// near-zero total cross section, so its mean free path vastly exceeds
// any bounded test geometry and a history always crosses a boundary
// before it ever collides.
func newVanishingCrossSectionIsotope(master *grid.Master) *xs.Isotope {
	native := []float64{1e-5, 20.0}
	return xs.New("transparent", false, 1.0, master, native,
		[]float64{1e-12, 1e-12},
		[]float64{1e-12, 1e-12},
		[]float64{0, 0},
		[]float64{0, 0},
		nil, nil, nil,
	)
}

// newFissileIsotope returns an isotope whose entire cross section is
// fission (pAbs=1, pFis=1) with a constant ν̄=2, fissionSampler
// secIdx, and no delayed spectrum: a deterministic-progeny-count
// fixture since stochasticRound(2.0, u) always returns exactly 2.
func newFissileIsotope(master *grid.Master, secIdx int) *xs.Isotope {
	native := []float64{1e-5, 20.0}
	iso := xs.New("fuel", true, 235.0, master, native,
		[]float64{1, 1}, // total
		[]float64{1, 1}, // absorption
		[]float64{1, 1}, // fission
		[]float64{0, 0}, // elastic
		[]float64{2, 2}, // nuPrompt
		nil, nil,
	)
	iso.FissionReaction = secIdx
	return iso
}
