// Package stats implements the running accumulators the transport
// driver reports per cycle: a Welford mean/standard-error accumulator
// for the active-cycle k-eff estimate, and the fission-source spatial
// Shannon entropy supplementary convergence diagnostic.
package stats

import "math"

// KEff accumulates the active-cycle k sequence with Welford's online
// algorithm, avoiding the catastrophic cancellation of a naive
// sum-of-squares variance over potentially hundreds of cycles.
type KEff struct {
	n      int
	mean   float64
	m2     float64 // sum of squared deviations from the running mean
}

// Add records one active cycle's k estimate.
func (k *KEff) Add(value float64) {
	k.n++
	delta := value - k.mean
	k.mean += delta / float64(k.n)
	delta2 := value - k.mean
	k.m2 += delta * delta2
}

// N returns the number of recorded cycles.
func (k *KEff) N() int { return k.n }

// Mean returns the running mean of k.
func (k *KEff) Mean() float64 { return k.mean }

// Variance returns the sample variance of k (Bessel-corrected), or 0
// if fewer than two cycles have been recorded.
func (k *KEff) Variance() float64 {
	if k.n < 2 {
		return 0
	}
	return k.m2 / float64(k.n-1)
}

// StdErr returns the standard error of the mean, sqrt(variance/n).
func (k *KEff) StdErr() float64 {
	if k.n < 2 {
		return 0
	}
	return math.Sqrt(k.Variance() / float64(k.n))
}

// ShannonEntropy computes the Shannon entropy of a discrete occupancy
// distribution, normalizing counts to probabilities internally. It is
// the per-cycle fission-source spatial convergence diagnostic, a
// supplement with no counterpart in original_source/Environment/
// Simulation.hpp; it never gates convergence, only reports alongside the k-eff
// accumulator.
func ShannonEntropy(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}
