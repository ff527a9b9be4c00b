package transport

import (
	"log"

	"github.com/89018580/helios/internal/config"
	"github.com/89018580/helios/internal/geom"
	"github.com/89018580/helios/internal/rng"
	"github.com/89018580/helios/internal/source"
	"github.com/89018580/helios/internal/stats"
)

// CycleReport is one cycle's logged summary, the per-cycle line the
// driver emits.
type CycleReport struct {
	Index    int
	Active   bool
	K        float64
	Entropy  float64
	Escaped  int
	DeadCell int
	Failures int
}

// Controller drives the inactive/active power-iteration cycle loop:
// seed an initial bank from a Source, then repeatedly run a cycle,
// accumulate k over the active cycles, and log a per-cycle diagnostic
// line including the fission-source spatial Shannon entropy.
type Controller struct {
	Model    *Model
	Source   *source.Source
	Base     *rng.Stream
	Settings *config.Settings
}

// Run executes settings.criticality.batches cycles (the first
// settings.criticality.inactive of them discarded from the k
// accumulator) and returns the per-cycle reports plus the accumulated
// active-cycle k statistics.
func (c *Controller) Run() ([]CycleReport, *stats.KEff, error) {
	bank, err := c.initialBank()
	if err != nil {
		return nil, nil, err
	}

	reports := make([]CycleReport, 0, c.Settings.CriticalityBatches)
	var kstat stats.KEff
	kEff := 1.0
	base := c.Base

	for cycle := 0; cycle < c.Settings.CriticalityBatches; cycle++ {
		n := len(bank)
		maxFailures := maxFailuresFor(n)
		result, err := c.Model.RunCycle(base, bank, kEff, maxFailures)
		if err != nil {
			return reports, &kstat, err
		}
		kEff = result.K
		bank = result.Bank

		active := cycle >= c.Settings.CriticalityInactive
		if active {
			kstat.Add(result.K)
		}
		entropy := stats.ShannonEntropy(c.occupancy(bank))

		report := CycleReport{
			Index:    cycle,
			Active:   active,
			K:        result.K,
			Entropy:  entropy,
			Escaped:  result.Escaped,
			DeadCell: result.DeadCell,
			Failures: result.Failures,
		}
		reports = append(reports, report)
		log.Printf("cycle %d: k=%.6f entropy=%.4f escaped=%d dead_cell=%d failures=%d", cycle, result.K, entropy, result.Escaped, result.DeadCell, result.Failures)

		if len(bank) == 0 {
			// The fission chain has died out: k=0 was reported above, and
			// there is no population left to seed another cycle.
			break
		}
		base = base.Jump(uint64(n) * uint64(c.Model.MaxRNGPerHistory))
	}

	return reports, &kstat, nil
}

// maxFailuresFor returns the per-cycle discarded-history budget: at
// least 10, or 1% of the cycle's population, whichever is larger,
// promoting to a fatal cycle error only once a meaningful fraction of
// histories are unrecoverable.
func maxFailuresFor(n int) int {
	budget := n / 100
	if budget < 10 {
		budget = 10
	}
	return budget
}

// initialBank draws settings.criticality.particles source states, one
// per history, each jumped independently off the controller's base
// stream so the seeding itself never overlaps a later history's draws.
func (c *Controller) initialBank() ([]BankEntry, error) {
	n := c.Settings.CriticalityParticles
	bank := make([]BankEntry, 0, n)
	for i := 0; i < n; i++ {
		stream := c.Base.Jump(uint64(i) * uint64(c.Model.MaxRNGPerHistory))
		draw := func() float64 { return stream.Float64() }
		st, err := c.Source.Draw(i, draw)
		if err != nil {
			return nil, err
		}
		cell := c.Model.Geometry.Locate(st.Position)
		p := Particle{
			Position:  st.Position,
			Direction: st.Direction,
			Energy:    st.Energy,
			Weight:    st.Weight,
			State:     StateAlive,
			Cell:      cell,
		}
		p.MasterIndex = c.Model.Master.HintedIndex(p.Energy, 0)
		bank = append(bank, BankEntry{Cell: cell, Particle: p})
	}
	c.Base = c.Base.Jump(uint64(n) * uint64(c.Model.MaxRNGPerHistory))
	return bank, nil
}

// occupancy buckets the bank's particles by the geometry cell they sit
// in, a coarse spatial mesh built from the CSG partition itself rather
// than a separate regular grid, for the per-cycle Shannon entropy
// diagnostic.
func (c *Controller) occupancy(bank []BankEntry) []int {
	counts := make(map[*geom.Cell]int)
	for _, e := range bank {
		counts[e.Cell]++
	}
	out := make([]int, 0, len(counts))
	for _, v := range counts {
		out = append(out, v)
	}
	return out
}
