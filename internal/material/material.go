// Package material implements the macroscopic material: an isotope
// composition with atomic or mass fractions, a density, a macroscopic
// total cross section on the master grid, and the isotope sampler used
// to pick which isotope governs a collision, per
// original_source/Material/AceTable/AceMaterial.cpp.
package material

import (
	"fmt"
	"math"

	"github.com/89018580/helios/internal/grid"
	"github.com/89018580/helios/internal/herr"
	"github.com/89018580/helios/internal/sampler"
	"github.com/89018580/helios/internal/xs"
)

// FractionType selects whether Composition entries carry atomic or
// mass fractions, mirroring AceMaterialObject's "fraction" field.
type FractionType int

const (
	AtomFraction FractionType = iota
	WeightFraction
)

// avogadro is Avogadro's number, used to convert a mass density in
// g/cm3 into an atomic density in atom/b-cm, matching
// AceMaterial.cpp's density-unit conversion.
const avogadro = 0.6022140857

// Nuclide is one isotope's contribution to a material's composition,
// before normalization.
type Nuclide struct {
	Isotope  *xs.Isotope
	Fraction float64 // atomic or mass fraction, per the material's FractionType
}

// Material holds a normalized isotope composition, a derived atomic
// density, the macroscopic total cross section on the master grid, and
// an isotope sampler weighted by each isotope's macroscopic total
// cross section.
type Material struct {
	Name string

	master *grid.Master

	nuclides       []Nuclide
	atomicFraction []float64 // normalized, aligned with nuclides
	massFraction   []float64

	rho          float64 // mass density, g/cm3
	atomDensity  float64 // atom/b-cm
	averageAtomic float64

	totalXS []float64 // macroscopic, master grid

	fissile      bool
	nuSigmaF     []float64 // macroscopic nu*sigma_fission, master grid
	nuBar        []float64 // nu_sigma_fission[i] / total_xs[i]

	isotopeSampler *sampler.Dense
}

// New builds a Material from a composition given either atomic or
// mass fractions and a density in the given units, following
// AceMaterial::setIsotopeMap and AceMaterial's constructor.
//
// units is "g/cm3" (mass density) or "atom/b-cm" (atomic density).
func New(name string, master *grid.Master, fractionType FractionType, nuclides []Nuclide, density float64, units string) (*Material, error) {
	if len(nuclides) == 0 {
		return nil, herr.Build(herr.ErrMaterialBuild, name, "material does not contain any isotope")
	}

	m := &Material{
		Name:     name,
		master:   master,
		nuclides: nuclides,
	}

	atomicFraction, massFraction, averageAtomic := normalizeFractions(fractionType, nuclides)
	m.atomicFraction = atomicFraction
	m.massFraction = massFraction
	m.averageAtomic = averageAtomic

	switch units {
	case "g/cm3":
		m.rho = density
		m.atomDensity = m.rho * avogadro / averageAtomic
	case "atom/b-cm":
		m.atomDensity = density
		m.rho = m.atomDensity * averageAtomic / avogadro
	default:
		return nil, herr.Build(herr.ErrMaterialBuild, name, fmt.Sprintf("unit %q not recognized in density", units))
	}

	n := master.Len()
	m.totalXS = make([]float64, n)
	xsArray := make([][]float64, len(nuclides))
	for k := range nuclides {
		xsArray[k] = make([]float64, n)
	}

	for k, nuc := range nuclides {
		atomicDensity := m.atomicFraction[k] * m.atomDensity
		if nuc.Isotope.Fissile {
			m.fissile = true
		}
		for i := 0; i < n; i++ {
			total := atomicDensity * nuc.Isotope.TotalXS(i)
			xsArray[k][i] = total
			m.totalXS[i] += total
		}
	}

	// The isotope sampler needs one row per master-grid point, with
	// each isotope's macroscopic contribution as that row's weight: the
	// transpose of xsArray, matching FactorSampler's row-major
	// convention in internal/sampler.
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, len(nuclides))
		for k := range nuclides {
			rows[i][k] = xsArray[k][i]
		}
	}
	m.isotopeSampler = sampler.NewDense(rows)

	if m.fissile {
		m.nuSigmaF = make([]float64, n)
		m.nuBar = make([]float64, n)
		for i := 0; i < n; i++ {
			var nuFission float64
			for k, nuc := range nuclides {
				if !nuc.Isotope.Fissile {
					continue
				}
				atomicDensity := m.atomicFraction[k] * m.atomDensity
				nuFission += atomicDensity * nuc.Isotope.NuBar(i) * nuc.Isotope.TotalXS(i) * nuc.Isotope.FissionProb(i)
			}
			m.nuSigmaF[i] = nuFission
			if m.totalXS[i] > 0 {
				m.nuBar[i] = nuFission / m.totalXS[i]
			}
		}
	}

	return m, nil
}

// normalizeFractions normalizes the input fractions to sum to 1,
// computes the average atomic weight, and derives whichever of
// atomic/mass fraction was not supplied directly: the reconciliation
// AceMaterial::setIsotopeMap performs once per material build.
func normalizeFractions(fractionType FractionType, nuclides []Nuclide) (atomic, mass []float64, averageAtomic float64) {
	n := len(nuclides)
	raw := make([]float64, n)
	total := 0.0
	for k, nuc := range nuclides {
		raw[k] = nuc.Fraction
		total += nuc.Fraction
	}
	normalized := make([]float64, n)
	for k := range raw {
		if total > 0 {
			normalized[k] = raw[k] / total
		}
	}

	accum := 0.0
	for k, nuc := range nuclides {
		awr := nuc.Isotope.AWR
		switch fractionType {
		case AtomFraction:
			accum += normalized[k] * awr
		case WeightFraction:
			if awr > 0 {
				accum += normalized[k] / awr
			}
		}
	}

	switch fractionType {
	case AtomFraction:
		averageAtomic = accum
	case WeightFraction:
		if accum > 0 {
			averageAtomic = 1.0 / accum
		}
	}

	atomic = make([]float64, n)
	mass = make([]float64, n)
	for k, nuc := range nuclides {
		awr := nuc.Isotope.AWR
		switch fractionType {
		case AtomFraction:
			atomic[k] = normalized[k]
			if averageAtomic > 0 {
				mass[k] = atomic[k] * awr / averageAtomic
			}
		case WeightFraction:
			mass[k] = normalized[k]
			if awr > 0 {
				atomic[k] = mass[k] * averageAtomic / awr
			}
		}
	}
	return atomic, mass, averageAtomic
}

// TotalXS returns the macroscopic total cross section at master-grid
// index i.
func (m *Material) TotalXS(i int) float64 { return m.totalXS[i] }

// MeanFreePath returns 1/Σ_total at master-grid index i, guarding
// against a zero cross section (the material has no interaction
// probability at that energy, which a caller should treat as an
// infinite free-flight distance rather than a divide-by-zero).
func (m *Material) MeanFreePath(i int) float64 {
	total := m.totalXS[i]
	if total <= 0 {
		return math.Inf(1)
	}
	return 1.0 / total
}

// Fissile reports whether the material contains at least one fissile
// isotope.
func (m *Material) Fissile() bool { return m.fissile }

// NuSigmaFission returns the macroscopic ν·Σ_f at master-grid index i.
func (m *Material) NuSigmaFission(i int) float64 {
	if !m.fissile {
		return 0
	}
	return m.nuSigmaF[i]
}

// NuBar returns the material-averaged fission yield ν̄ at master-grid
// index i: ν·Σ_f / Σ_total.
func (m *Material) NuBar(i int) float64 {
	if !m.fissile {
		return 0
	}
	return m.nuBar[i]
}

// SampleIsotope picks which isotope governs a collision at master-grid
// index i, weighted by each isotope's macroscopic total cross section
// at that energy.
func (m *Material) SampleIsotope(i int, u float64) *xs.Isotope {
	k := m.isotopeSampler.Sample(i, u)
	return m.nuclides[k].Isotope
}

// AtomDensity returns the material's atomic density in atom/b-cm.
func (m *Material) AtomDensity() float64 { return m.atomDensity }

// Density returns the material's mass density in g/cm3.
func (m *Material) Density() float64 { return m.rho }
