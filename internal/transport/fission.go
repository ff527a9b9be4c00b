package transport

import (
	"math"

	"github.com/89018580/helios/internal/xs"
)

// fission samples the number of progeny an absorbing fission event
// produces (ν̄/k-eff expected count, stochastically rounded), routes
// each to a prompt or delayed spectrum by β = ν_d/ν_p, picks a
// multi-chance fission contribution if the isotope tabulates more than
// one, and samples each progeny's outgoing energy and an isotropic lab
// direction.
func (m *Model) fission(history int, p Particle, iso *xs.Isotope, kEffPrev float64, draw func() float64) ([]BankEntry, error) {
	nu := iso.NuBar(p.MasterIndex)
	expected := nu / kEffPrev * p.Weight
	count := stochasticRound(expected, draw())
	if count == 0 {
		return nil, nil
	}

	beta := iso.Beta(p.MasterIndex)
	children := make([]BankEntry, 0, count)
	for i := 0; i < count; i++ {
		delayed := beta > 0 && draw() < beta
		energy := m.sampleFissionEnergy(iso, p.MasterIndex, p.Energy, delayed, draw)

		mu := 1 - 2*draw()
		phi := 2 * math.Pi * draw()
		dir := rotateAbout(Vec3{0, 0, 1}, mu, phi)

		child := Particle{
			Position:  p.Position,
			Direction: dir,
			Energy:    energy,
			Weight:    p.Weight / kEffPrev,
			State:     StateBank,
			Cell:      p.Cell,
		}
		child.MasterIndex = m.Master.HintedIndex(energy, p.MasterIndex)
		children = append(children, BankEntry{Cell: p.Cell, Particle: child})
	}
	return children, nil
}

// sampleFissionEnergy picks which secondary-energy sampler governs
// this progeny (the delayed spectrum if routed delayed, otherwise one
// of the isotope's multi-chance fission contributions weighted by
// ChanceWeights at masterIndex, falling back to the single prompt
// reaction) and draws an outgoing energy from it.
func (m *Model) sampleFissionEnergy(iso *xs.Isotope, masterIndex int, incident float64, delayed bool, draw func() float64) float64 {
	idx := m.fissionSampler(iso, masterIndex, delayed, draw)
	if idx < 0 || idx >= len(m.Reactions.Secondaries) {
		return incident
	}
	energy, _ := m.Reactions.Secondaries[idx].Sample(incident, draw)
	return energy
}

func (m *Model) fissionSampler(iso *xs.Isotope, masterIndex int, delayed bool, draw func() float64) int {
	if delayed {
		return iso.DelayedFission
	}
	chances := iso.Chances()
	if len(chances) == 0 {
		return iso.FissionReaction
	}
	weights := iso.ChanceWeights(masterIndex)
	k := pickWeighted(weights, draw())
	return chances[k].Sampler
}
