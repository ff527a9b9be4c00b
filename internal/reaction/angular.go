// Package reaction implements the angular and energy secondary-
// distribution samplers used to update a particle's direction and
// energy after a collision, plus elastic scattering with optional
// target motion.
//
// Grounded on original_source/Material/AceTable/AceReaction/
// MuSampler.hpp (cosine tables) and EnergyLaws/EnergyLaw9.hpp,
// EnergyLaws/EnergyLaw44.hpp (energy-angle laws).
package reaction

import (
	"math"
	"sort"
)

// CosineTable samples a scattering cosine given a uniform draw.
type CosineTable interface {
	Sample(u float64) float64
}

// Isotropic samples μ uniformly in [-1, 1], the degenerate case where
// no angular data is tabulated.
type Isotropic struct{}

func (Isotropic) Sample(u float64) float64 { return 1.0 - 2.0*u }

// EquiBins samples μ from 32 equiprobable cosine bins with linear
// interpolation within the chosen bin, per MuSampler.hpp's EquiBins.
type EquiBins struct {
	Bins [33]float64
}

func (e EquiBins) Sample(u float64) float64 {
	pos := int(u * 32)
	if pos > 31 {
		pos = 31
	}
	frac := u*32 - float64(pos)
	return e.Bins[pos] + frac*(e.Bins[pos+1]-e.Bins[pos])
}

// TabularFlag selects the interpolation scheme for a Tabular cosine
// or energy distribution: histogram (iflag=1) or linear-linear
// (iflag=2), matching the ACE INTT convention.
type TabularFlag int

const (
	Histogram TabularFlag = 1
	LinLin    TabularFlag = 2
)

// Tabular samples μ from a histogram or lin-lin cosine CDF, with
// analytic inversion for lin-lin: given bin k with pdf[k], cdf[k] and
// outgoing-cosine grid csout[k],
//
//	μ = csout[k] + (sqrt(pdf[k]^2 + 2*g*(ξ-cdf[k])) - pdf[k]) / g
//
// where g = (pdf[k+1]-pdf[k]) / (csout[k+1]-csout[k]), per
// MuSampler.hpp's Tabular::operator().
type Tabular struct {
	Flag   TabularFlag
	Csout  []float64
	PDF    []float64
	CDF    []float64
}

func (t Tabular) Sample(u float64) float64 {
	idx := sort.Search(len(t.CDF), func(i int) bool { return t.CDF[i] > u }) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.Csout)-1 {
		idx = len(t.Csout) - 2
	}
	if idx < 0 {
		return 0
	}
	switch t.Flag {
	case Histogram:
		if t.PDF[idx] == 0 {
			return t.Csout[idx]
		}
		return t.Csout[idx] + (u-t.CDF[idx])/t.PDF[idx]
	default: // LinLin
		g := (t.PDF[idx+1] - t.PDF[idx]) / (t.Csout[idx+1] - t.Csout[idx])
		if g == 0 {
			if t.PDF[idx] == 0 {
				return t.Csout[idx]
			}
			return t.Csout[idx] + (u-t.CDF[idx])/t.PDF[idx]
		}
		h := math.Sqrt(t.PDF[idx]*t.PDF[idx] + 2*g*(u-t.CDF[idx]))
		return t.Csout[idx] + (h-t.PDF[idx])/g
	}
}
