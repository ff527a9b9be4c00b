package transport

import (
	"fmt"
	"math"
	"sync"

	"github.com/89018580/helios/internal/rng"
)

// CycleResult is the outcome of one power-iteration cycle: the k-eff
// estimate, the resampled bank to seed the next cycle, and the
// escape/dead-cell/failure tallies the driver reports alongside k.
type CycleResult struct {
	K        float64
	Bank     []BankEntry
	Escaped  int
	DeadCell int
	Failures int
}

// RunCycle tracks every history in bank concurrently, one goroutine
// per history seeded with base.Jump(i*MaxRNGPerHistory) so no two
// histories' draws overlap, then reduces the per-history fission
// progeny into k = population_sum/N and a resampled next-cycle bank.
//
// A history whose PRNG budget is exceeded or whose particle is lost
// counts as a failure rather than aborting the cycle; the cycle itself
// fails only once failures exceeds maxFailures.
func (m *Model) RunCycle(base *rng.Stream, bank []BankEntry, kEffPrev float64, maxFailures int) (CycleResult, error) {
	n := len(bank)
	if n == 0 {
		return CycleResult{}, fmt.Errorf("helios: cycle has an empty bank")
	}

	type outcome struct {
		children []BankEntry
		reason   terminationReason
		err      error
	}
	results := make([]outcome, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stream := base.Jump(uint64(i) * uint64(m.MaxRNGPerHistory))
			children, reason, _, err := m.runHistory(i, stream, bank[i].Particle, kEffPrev)
			results[i] = outcome{children: children, reason: reason, err: err}
		}(i)
	}
	wg.Wait()

	var nextBank []BankEntry
	var result CycleResult
	populationSum := 0.0
	for _, r := range results {
		if r.err != nil {
			result.Failures++
			continue
		}
		switch r.reason {
		case reasonEscaped:
			result.Escaped++
		case reasonDeadCell:
			result.DeadCell++
		}
		for _, c := range r.children {
			populationSum += c.Particle.Weight
		}
		nextBank = append(nextBank, r.children...)
	}
	if result.Failures > maxFailures {
		return CycleResult{}, fmt.Errorf("helios: cycle discarded %d histories, exceeding the %d-history failure budget", result.Failures, maxFailures)
	}

	result.K = populationSum / float64(n)
	if len(nextBank) == 0 {
		// Every history escaped, was absorbed, or fell into a dead cell
		// with no fission progeny: k is legitimately 0, not a failure.
		// The caller decides whether to continue with an empty bank.
		return result, nil
	}
	result.Bank = resampleBank(nextBank, result.K)
	return result, nil
}

// resampleBank turns each banked progeny's continuous weight into an
// integer number of unit-ish-weight copies: split = max(1, floor(w/k))
// copies, each carrying (w/k)/split, the combing step a cycle close
// performs so the next cycle's population neither explodes nor starves
// as k drifts from 1.
func resampleBank(bank []BankEntry, k float64) []BankEntry {
	if k <= 0 || math.IsNaN(k) {
		k = 1
	}
	out := make([]BankEntry, 0, len(bank))
	for _, entry := range bank {
		w := entry.Particle.Weight / k
		split := int(math.Floor(w))
		if split < 1 {
			split = 1
		}
		newWeight := w / float64(split)
		for s := 0; s < split; s++ {
			child := entry
			child.Particle.Weight = newWeight
			child.Particle.State = StateAlive
			out = append(out, child)
		}
	}
	return out
}
