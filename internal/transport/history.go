package transport

import (
	"math"

	"github.com/89018580/helios/internal/geom"
	"github.com/89018580/helios/internal/herr"
	"github.com/89018580/helios/internal/sampler"
	"github.com/89018580/helios/internal/xs"
)

// terminationReason records why a history stopped, for the cycle-level
// escape/dead-cell/absorption tallies the driver reports alongside k.
type terminationReason int

const (
	reasonAbsorbed terminationReason = iota
	reasonEscaped
	reasonDeadCell
)

// runHistory tracks one particle from start through collisions until
// it is absorbed, escapes the geometry, or enters a dead cell,
// draws exactly as many PRNG values as collisions and surface
// crossings require, and returns any fission progeny it produced.
//
// kEffPrev is the previous cycle's k-eff estimate, used to normalize
// each fission event's expected progeny count.
func (m *Model) runHistory(history int, stream draws, start Particle, kEffPrev float64) ([]BankEntry, terminationReason, int, error) {
	count := 0
	draw := func() float64 {
		count++
		return stream.Float64()
	}
	exceeded := func() bool { return count >= m.MaxRNGPerHistory }

	p := start
	if p.Cell == nil {
		p.Cell = m.Geometry.Locate(p.Position)
	}
	if p.Cell == nil {
		return nil, reasonEscaped, count, herr.LostParticle(history, "lost particle: source position outside geometry", [3]float64(p.Position), [3]float64(p.Direction))
	}
	p.MasterIndex = m.Master.HintedIndex(p.Energy, p.MasterIndex)

	var bank []BankEntry

	for p.State == StateAlive {
		if exceeded() {
			return nil, reasonAbsorbed, count, herr.Sampling(history, "PRNG draw budget exceeded")
		}
		if p.Cell.Flag == geom.FlagDead {
			return bank, reasonDeadCell, count, nil
		}

		lambda := m.meanFreePath(p.Cell, p.MasterIndex)
		surface, _, ds, found := p.Cell.Intersect(p.Position, p.Direction, nil)
		dc := -math.Log(draw()) * lambda

		for found && dc > ds {
			if exceeded() {
				return nil, reasonAbsorbed, count, herr.Sampling(history, "PRNG draw budget exceeded")
			}
			p.Position = geom.Advance(p.Position, p.Direction, ds)
			next := m.Geometry.LocateSkipping(p.Position, surface)
			if next == nil {
				return bank, reasonEscaped, count, nil
			}
			p.Cell = next
			if p.Cell.Flag == geom.FlagDead {
				return bank, reasonDeadCell, count, nil
			}
			lambda = m.meanFreePath(p.Cell, p.MasterIndex)
			surface, _, ds, found = p.Cell.Intersect(p.Position, p.Direction, nil)
			dc = -math.Log(draw()) * lambda
		}
		if !found && math.IsInf(dc, 1) {
			return nil, reasonAbsorbed, count, herr.LostParticle(history, "lost particle: no bounding surface in an infinite-mean-free-path region", [3]float64(p.Position), [3]float64(p.Direction))
		}

		// Advance to the collision point: an interior point, not a
		// surface crossing, so no crossing nudge.
		p.Position = Vec3{
			p.Position[0] + p.Direction[0]*dc,
			p.Position[1] + p.Direction[1]*dc,
			p.Position[2] + p.Direction[2]*dc,
		}

		mat := m.Materials[p.Cell.MaterialIndex]
		iso := mat.SampleIsotope(p.MasterIndex, draw())

		pAbs := iso.AbsorptionProb(p.MasterIndex)
		pFis := iso.FissionProb(p.MasterIndex)
		pEl := iso.ElasticProb(p.MasterIndex)
		branch := draw()

		switch {
		case branch < pAbs:
			if iso.Fissile && branch > pAbs-pFis {
				children, err := m.fission(history, p, iso, kEffPrev, draw)
				if err != nil {
					return nil, reasonAbsorbed, count, err
				}
				bank = append(bank, children...)
			}
			p.State = StateDead
		case branch-pAbs <= pEl:
			m.elasticScatter(&p, iso, draw)
		default:
			m.inelasticScatter(&p, iso, draw)
		}
	}

	return bank, reasonAbsorbed, count, nil
}

func (m *Model) elasticScatter(p *Particle, iso *xs.Isotope, draw func() float64) {
	if iso.ElasticReaction < 0 || iso.ElasticReaction >= len(m.Reactions.Elastic) {
		return
	}
	el := m.Reactions.Elastic[iso.ElasticReaction]
	energy, dir := el.Scatter(p.Energy, p.Direction, m.FreeGas, draw)
	p.Energy = energy
	p.Direction = dir
	p.MasterIndex = m.Master.HintedIndex(energy, p.MasterIndex)
}

func (m *Model) inelasticScatter(p *Particle, iso *xs.Isotope, draw func() float64) {
	weights := iso.InelasticWeights(p.MasterIndex)
	if len(weights) == 0 {
		p.State = StateDead
		return
	}
	idx := pickWeighted(weights, draw())
	entry := iso.InelasticReactions[idx]
	if entry.Sampler < 0 || entry.Sampler >= len(m.Reactions.Secondaries) {
		p.State = StateDead
		return
	}
	sec := m.Reactions.Secondaries[entry.Sampler]
	energy, mu := sec.Sample(p.Energy, draw)
	energy += entry.QValue
	if energy < 0 {
		energy = 0
	}
	phi := 2 * math.Pi * draw()
	p.Direction = rotateAbout(p.Direction, clampMu(mu), phi)
	p.Energy = energy
	p.MasterIndex = m.Master.HintedIndex(energy, p.MasterIndex)
}

// pickWeighted draws a choice index from non-negative weights for
// uniform draw u, reusing internal/sampler's accumulated-probability
// scheme rather than a bespoke cumulative search.
func pickWeighted(weights []float64, u float64) int {
	d := sampler.NewDense([][]float64{weights})
	return d.Sample(0, u)
}

// draws is the subset of *rng.Stream's surface runHistory needs,
// narrowed so history_test.go can exercise the random walk against a
// hand-rolled deterministic stream.
type draws interface {
	Float64() float64
}
