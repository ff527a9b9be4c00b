// Package sampler implements the tabulated accumulated-probability
// sampler used throughout the kernel to pick a reaction or isotope
// from energy-dependent partial probabilities: the reaction matrix
// described in original_source/Common/XsSampler.hpp, generalized to a
// generic choice count so the same code samples isotopes from a
// material's partial totals and reactions from an isotope's partial
// cross sections.
package sampler

import "sort"

// Dense is an accumulated-probability matrix built from n choices'
// partial probabilities at each of nrow energy rows. Row i, column k
// holds the cumulative sum of the first k+1 partials divided by the
// row total; the last column is always 1 and is not stored, since
// sampling that never finds a smaller cumulative sum falls through to
// the final choice.
type Dense struct {
	n    int
	rows [][]float64 // len(rows[i]) == n-1
}

// NewDense builds a Dense sampler from partials[row][choice]. Rows
// with a zero total produce a degenerate row whose every cumulative
// value is 1 (any draw lands on the first choice), since a zero-total
// row has no meaningful partition.
func NewDense(partials [][]float64) *Dense {
	if len(partials) == 0 {
		return &Dense{n: 0}
	}
	n := len(partials[0])
	d := &Dense{n: n, rows: make([][]float64, len(partials))}
	for r, row := range partials {
		d.rows[r] = accumulate(row)
	}
	return d
}

func accumulate(row []float64) []float64 {
	n := len(row)
	if n == 0 {
		return nil
	}
	total := 0.0
	for _, p := range row {
		total += p
	}
	acc := make([]float64, n-1)
	if total <= 0 {
		for k := range acc {
			acc[k] = 1
		}
		return acc
	}
	running := 0.0
	for k := 0; k < n-1; k++ {
		running += row[k]
		acc[k] = running / total
	}
	return acc
}

// Sample draws the choice index at row i for uniform draw u in [0,1):
// the first k with M[i][k] > u, or n-1 if none.
func (d *Dense) Sample(row int, u float64) int {
	acc := d.rows[row]
	k := sort.Search(len(acc), func(k int) bool { return acc[k] > u })
	return k
}

// SampleInterp draws a choice using the row interpolated between rows
// i and i+1 by factor f, without materializing the interpolated row:
// the comparison key at column k is acc[i][k] + f*(acc[i+1][k]-acc[i][k]).
func (d *Dense) SampleInterp(i int, f, u float64) int {
	if i+1 >= len(d.rows) {
		return d.Sample(i, u)
	}
	lo, hi := d.rows[i], d.rows[i+1]
	n := d.n
	k := sort.Search(n-1, func(k int) bool {
		key := lo[k] + f*(hi[k]-lo[k])
		return key > u
	})
	return k
}

// NumChoices returns the number of choices the sampler was built for.
func (d *Dense) NumChoices() int { return d.n }
