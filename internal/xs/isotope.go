// Package xs implements the per-isotope continuous-energy cross-
// section engine: total/absorption/fission/elastic decomposition, NU
// (fission yield) interpolation, and prompt/delayed fission reaction
// dispatch, tabulated on the energy grid's master/child scheme.
//
// Grounded on original_source/Material/AceTable/AceIsotopes/
// FissionPolicy.hpp (the NonFissile/PromptFissionSampler/
// DelayedFissionSampler policy hierarchy, collapsed here into a single
// Isotope type with a nullable delayed curve rather than a template
// instantiated per policy combination) and a per-material
// tabulated-curve construction style.
package xs

import (
	"math"

	"github.com/89018580/helios/internal/grid"
)

// ChanceFission is one multi-chance fission contribution (MT 19 first
// chance, 20 second, 21 third, 38 fourth): its partial cross section
// on the native grid and the index of its secondary-energy/angle
// sampler in the owning Reaction library.
type ChanceFission struct {
	MT      int
	Partial []float64 // native grid
	Sampler int       // index into a reaction.Library's samplers
}

// Isotope holds the tabulated cross sections and NU curves for a
// single nuclide, mapped onto the master grid through a Child grid.
type Isotope struct {
	Name    string
	Fissile bool
	AWR     float64 // atomic weight ratio, for free-gas/elastic kinematics

	child *grid.Child

	// Native-grid arrays, one entry per native energy point.
	total      []float64
	absorption []float64
	fission    []float64
	elastic    []float64

	nuPrompt  []float64
	nuDelayed []float64 // nil if the isotope has no delayed data
	nuTotal   []float64 // nil unless the ACE table carries an explicit total-NU block

	chances []ChanceFission

	// ElasticReaction/InelasticReactions/FissionReaction are opaque handles
	// into internal/reaction's library, resolved by the caller; the xs
	// engine only decides *that* a reaction fires, never samples its
	// secondary kinematics itself.
	ElasticReaction   int
	InelasticReactions []InelasticEntry
	FissionReaction    int
	DelayedFission      int // -1 if the isotope has no delayed spectrum
}

// InelasticEntry is one inelastic subreaction's partial cross section
// and its secondary-kinematics sampler index. QValue is the reaction's
// Q-value in the same energy units as Isotope's incident energies
// (MeV): positive for an exothermic reaction, negative for
// endothermic, zero where the ACE table carries none. There is no
// precedent for this in the reference material this engine is built
// from; it is added because a continuous-energy inelastic-scattering
// engine tracking a lab-frame energy balance needs one.
type InelasticEntry struct {
	MT      int
	Partial []float64 // native grid
	Sampler int
	QValue  float64
}

// New builds an Isotope's master-grid view from native-grid arrays.
// All slices must have the same length as native.
func New(name string, fissile bool, awr float64, master *grid.Master, native, total, absorption, fission, elastic, nuPrompt, nuDelayed, nuTotal []float64) *Isotope {
	return &Isotope{
		Name:       name,
		Fissile:    fissile,
		AWR:        awr,
		child:      grid.NewChild(master, native),
		total:      total,
		absorption: absorption,
		fission:    fission,
		elastic:    elastic,
		nuPrompt:   nuPrompt,
		nuDelayed:  nuDelayed,
		nuTotal:    nuTotal,
		FissionReaction: -1,
		DelayedFission:  -1,
		ElasticReaction: -1,
	}
}

// AddChance registers a multi-chance fission contribution.
func (iso *Isotope) AddChance(c ChanceFission) {
	iso.chances = append(iso.chances, c)
}

// Chances returns the isotope's registered multi-chance fission
// contributions, in the order ChanceWeights indexes them.
func (iso *Isotope) Chances() []ChanceFission {
	return iso.chances
}

// AddInelastic registers an inelastic subreaction.
func (iso *Isotope) AddInelastic(e InelasticEntry) {
	iso.InelasticReactions = append(iso.InelasticReactions, e)
}

// TotalXS returns the isotope's microscopic total cross section at
// master-grid index i.
func (iso *Isotope) TotalXS(i int) float64 {
	return clampNonNegative(iso.child.Interp(iso.total, i))
}

// AbsorptionProb returns the absorption cross section as a fraction of
// the total cross section at master-grid index i, so that a single
// uniform draw suffices to branch.
func (iso *Isotope) AbsorptionProb(i int) float64 {
	return iso.fraction(iso.absorption, i)
}

// FissionProb returns the fission cross section as a fraction of the
// total cross section at master-grid index i.
func (iso *Isotope) FissionProb(i int) float64 {
	return iso.fraction(iso.fission, i)
}

// ElasticProb returns the elastic cross section as a fraction of the
// total cross section at master-grid index i.
func (iso *Isotope) ElasticProb(i int) float64 {
	return iso.fraction(iso.elastic, i)
}

func (iso *Isotope) fraction(xs []float64, i int) float64 {
	total := iso.TotalXS(i)
	if total <= 0 {
		return 0
	}
	return clampNonNegative(iso.child.Interp(xs, i)) / total
}

// NuBar returns the total expected fission yield at master-grid index
// i: the explicit total-NU curve if the isotope's ACE table carried
// one, otherwise prompt+delayed (or prompt alone for non-delayed
// isotopes), matching the TotalNu/DelayedNu policies in
// FissionPolicy.hpp.
func (iso *Isotope) NuBar(i int) float64 {
	if !iso.Fissile {
		return 0
	}
	if iso.nuTotal != nil {
		return iso.child.Interp(iso.nuTotal, i)
	}
	nu := iso.child.Interp(iso.nuPrompt, i)
	if iso.nuDelayed != nil {
		nu += iso.child.Interp(iso.nuDelayed, i)
	}
	return nu
}

// Beta returns the delayed-neutron fraction ν_d/ν_p at master-grid
// index i, guarded against divide-by-zero at non-fissile or below-
// threshold energies where the prompt yield is zero.
func (iso *Isotope) Beta(i int) float64 {
	if !iso.Fissile || iso.nuDelayed == nil {
		return 0
	}
	prompt := iso.child.Interp(iso.nuPrompt, i)
	if prompt <= 0 {
		return 0
	}
	delayed := iso.child.Interp(iso.nuDelayed, i)
	return delayed / prompt
}

// ChanceWeights returns each multi-chance fission contribution's
// partial probability at master-grid index i, normalized so they sum
// to 1; used to pick which chance's secondary-energy sampler governs
// a given fission event.
func (iso *Isotope) ChanceWeights(i int) []float64 {
	if len(iso.chances) == 0 {
		return nil
	}
	child := iso.child
	weights := make([]float64, len(iso.chances))
	total := 0.0
	for k, c := range iso.chances {
		w := child.Interp(c.Partial, i)
		weights[k] = w
		total += w
	}
	if total <= 0 {
		// Degenerate: route everything to the first chance.
		weights[0] = 1
		for k := 1; k < len(weights); k++ {
			weights[k] = 0
		}
		return weights
	}
	for k := range weights {
		weights[k] /= total
	}
	return weights
}

// InelasticWeights returns the partial probability of each registered
// inelastic subreaction at master-grid index i, for the isotope's
// inelastic-dispatch sampler.
func (iso *Isotope) InelasticWeights(i int) []float64 {
	child := iso.child
	weights := make([]float64, len(iso.InelasticReactions))
	for k, e := range iso.InelasticReactions {
		weights[k] = child.Interp(e.Partial, i)
	}
	return weights
}

// clampNonNegative guards against tiny negative interpolation
// artifacts at a table's threshold row, which the XS matrices can
// produce when a reaction's native grid starts exactly on a master
// grid point. NaN/negative quantities are treated as a lost-particle
// condition further down the pipeline; this keeps them from ever
// propagating out of the XS engine itself.
func clampNonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
