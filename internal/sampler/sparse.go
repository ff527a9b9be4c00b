package sampler

import "sort"

// Sparse is the below-threshold-elided variant of Dense: most
// reactions in an isotope's cross-section table are zero below their
// threshold energy, so each row only stores the nonzero tail starting
// at offsets[row]. Energies whose master index is below emin, the
// first row with any nonzero partial, return a default choice, per
// original_source/Common/XsSampler.hpp's offset scheme.
type Sparse struct {
	n        int
	rows     [][]float64 // accumulated probabilities, row i has n-offsets[i] entries (n-1-offsets[i] stored, see below)
	offsets  []int       // smallest choice index with nonzero partial at this row
	emin     int         // smallest master-grid row index with any defined row
	deflt    int         // default choice index for rows below emin
}

// SparseBuilder accumulates rows before Build resolves the default
// choice to the reaction with the largest native start index at
// construction time (the latest-arriving reaction among those
// actually tabulated).
type SparseBuilder struct {
	n       int
	rows    [][]float64 // full-width partials, zero-padded; nil row means "below emin"
	starts  []int       // native start index per choice, for default resolution
}

// NewSparseBuilder begins building a sparse sampler for n choices,
// where start[k] is the native grid index at which choice k's
// cross-section table begins (its threshold row).
func NewSparseBuilder(n int, start []int) *SparseBuilder {
	return &SparseBuilder{n: n, starts: append([]int(nil), start...)}
}

// AddRow appends one energy row's full-width partials (zero for any
// choice below its threshold at this energy).
func (b *SparseBuilder) AddRow(partials []float64) {
	b.rows = append(b.rows, append([]float64(nil), partials...))
}

// Build resolves offsets, compresses each row to its nonzero tail, and
// picks the default reaction as the choice with the largest native
// start index among those with at least one nonzero row, breaking ties
// by declaration order.
func (b *SparseBuilder) Build() *Sparse {
	s := &Sparse{n: b.n}
	s.offsets = make([]int, len(b.rows))
	s.rows = make([][]float64, len(b.rows))
	s.emin = -1
	for r, row := range b.rows {
		off := firstNonzero(row)
		s.offsets[r] = off
		if off < b.n {
			if s.emin < 0 {
				s.emin = r
			}
			s.rows[r] = accumulate(row[off:])
		}
	}
	if s.emin < 0 {
		s.emin = 0
	}
	s.deflt = b.defaultChoice()
	return s
}

func firstNonzero(row []float64) int {
	for i, v := range row {
		if v > 0 {
			return i
		}
	}
	return len(row)
}

func (b *SparseBuilder) defaultChoice() int {
	best := -1
	bestStart := -1
	for k := 0; k < b.n; k++ {
		active := false
		for _, row := range b.rows {
			if k < len(row) && row[k] > 0 {
				active = true
				break
			}
		}
		if !active {
			continue
		}
		start := 0
		if k < len(b.starts) {
			start = b.starts[k]
		}
		if start > bestStart {
			bestStart = start
			best = k
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

// Sample draws the choice at master-grid row i for uniform draw u. Row
// indices below emin return the resolved default choice.
func (s *Sparse) Sample(i int, u float64) int {
	if i < 0 || i < s.emin || i >= len(s.rows) || s.rows[i] == nil {
		return s.deflt
	}
	acc := s.rows[i]
	k := sort.Search(len(acc), func(k int) bool { return acc[k] > u })
	return k + s.offsets[i]
}

// Default returns the resolved default choice index.
func (s *Sparse) Default() int { return s.deflt }
