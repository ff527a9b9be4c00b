package xs

import "github.com/89018580/helios/internal/sampler"

// FissionRoute is the outcome of dispatching a fission event: which
// chance's sampler to use for secondary energy/angle, and whether the
// route was the delayed spectrum.
type FissionRoute struct {
	Sampler int
	Delayed bool
}

// Fission dispatches a fission event at master-grid index i: it
// draws one uniform to route between prompt and delayed spectra using
// β = ν_d/ν_p, guarded against divide-by-zero at non-fissile energies
// by Beta returning 0, then - for the chosen route - draws which
// multi-chance contribution governs the event's secondary sampler,
// mirroring DelayedFissionSampler::fission and
// PromptFissionSampler::fission in FissionPolicy.hpp collapsed into
// one non-template dispatch.
func (iso *Isotope) Fission(i int, rho float64, chanceDraw float64) FissionRoute {
	if iso.DelayedFission >= 0 && rho < iso.Beta(i) {
		return FissionRoute{Sampler: iso.DelayedFission, Delayed: true}
	}
	weights := iso.ChanceWeights(i)
	if len(weights) == 0 {
		return FissionRoute{Sampler: iso.FissionReaction, Delayed: false}
	}
	d := sampler.NewDense([][]float64{weights})
	chosen := d.Sample(0, chanceDraw)
	return FissionRoute{Sampler: iso.chances[chosen].Sampler, Delayed: false}
}

// DispatchInelastic picks which registered inelastic subreaction
// governs an inelastic collision at master-grid index i, weighted by
// each subreaction's partial cross section.
func (iso *Isotope) DispatchInelastic(i int, u float64) InelasticEntry {
	weights := iso.InelasticWeights(i)
	d := sampler.NewDense([][]float64{weights})
	chosen := d.Sample(0, u)
	return iso.InelasticReactions[chosen]
}
