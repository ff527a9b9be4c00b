package reaction

import (
	"math"
	"sort"
)

// EnergyLaw samples an outgoing energy (and, for laws that couple
// energy and angle, a center-of-mass cosine) given an incident energy
// and a source of uniform draws.
type EnergyLaw interface {
	// Sample returns the outgoing energy and, if the law couples angle
	// to energy (Law 44), a valid cosine; ok reports whether mu is
	// meaningful (false for laws 4/7/9, which leave angle sampling to
	// a separate CosineTable).
	Sample(incident float64, draw func() float64) (energy float64, mu float64, ok bool)
}

// outgoingTable is one incident-energy row of a tabular outgoing-
// energy distribution: histogram or lin-lin CDF over eout.
type outgoingTable struct {
	Flag TabularFlag
	Eout []float64
	PDF  []float64
	CDF  []float64
}

func (t outgoingTable) sample(u float64) (energy float64, idx int) {
	idx = sort.Search(len(t.CDF), func(i int) bool { return t.CDF[i] > u }) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.Eout)-1 {
		idx = len(t.Eout) - 2
	}
	if idx < 0 {
		return t.Eout[0], 0
	}
	switch t.Flag {
	case Histogram:
		if t.PDF[idx] == 0 {
			return t.Eout[idx], idx
		}
		return t.Eout[idx] + (u-t.CDF[idx])/t.PDF[idx], idx
	default:
		g := (t.PDF[idx+1] - t.PDF[idx]) / (t.Eout[idx+1] - t.Eout[idx])
		if g == 0 {
			if t.PDF[idx] == 0 {
				return t.Eout[idx], idx
			}
			return t.Eout[idx] + (u-t.CDF[idx])/t.PDF[idx], idx
		}
		h := math.Sqrt(t.PDF[idx]*t.PDF[idx] + 2*g*(u-t.CDF[idx]))
		return t.Eout[idx] + (h-t.PDF[idx])/g, idx
	}
}

// Law4Continuous is Law 4, the continuous tabular energy distribution:
// one outgoing-energy table per tabulated incident energy. The row
// used is the lower bracketing incident-energy row, clamped to the
// first and last rows; rows are not interpolated (the boundary-row
// form used throughout the ACE format, per EnergyTabular.hpp).
type Law4Continuous struct {
	Ein    []float64
	Tables []outgoingTable
}

// NewLaw4 builds a Law 4 sampler from parallel incident-energy and
// per-row table slices.
func NewLaw4(ein []float64, flag TabularFlag, eout, pdf, cdf [][]float64) *Law4Continuous {
	tabs := make([]outgoingTable, len(ein))
	for i := range ein {
		tabs[i] = outgoingTable{Flag: flag, Eout: eout[i], PDF: pdf[i], CDF: cdf[i]}
	}
	return &Law4Continuous{Ein: ein, Tables: tabs}
}

func (l *Law4Continuous) row(incident float64) int {
	n := len(l.Ein)
	if incident <= l.Ein[0] {
		return 0
	}
	if incident >= l.Ein[n-1] {
		return n - 1
	}
	i := sort.Search(n, func(i int) bool { return l.Ein[i] > incident }) - 1
	if i < 0 {
		return 0
	}
	return i
}

func (l *Law4Continuous) Sample(incident float64, draw func() float64) (float64, float64, bool) {
	row := l.row(incident)
	e, _ := l.Tables[row].sample(draw())
	return e, 0, false
}

// Maxwellian is Law 7/9, the simple Maxwellian fission spectrum: a
// temperature table T(E_in), a restriction energy U, and a rejection
// loop E = -T*ln(ξ1*ξ2) until E < E_in - U, with the short-circuit
// documented in EnergyLaw9.hpp for low sampling efficiency.
type Maxwellian struct {
	Ein []float64
	T   []float64
	U   float64
}

func (m *Maxwellian) temperature(incident float64) float64 {
	n := len(m.Ein)
	if incident <= m.Ein[0] {
		return m.T[0]
	}
	if incident >= m.Ein[n-1] {
		return m.T[n-1]
	}
	i := sort.Search(n, func(i int) bool { return m.Ein[i] > incident }) - 1
	if i < 0 {
		i = 0
	}
	f := (incident - m.Ein[i]) / (m.Ein[i+1] - m.Ein[i])
	return m.T[i] + f*(m.T[i+1]-m.T[i])
}

func (m *Maxwellian) Sample(incident float64, draw func() float64) (float64, float64, bool) {
	t := m.temperature(incident)
	avail := incident - m.U
	if avail < 0.01*t {
		return avail, 0, false
	}
	for {
		e := -t * math.Log(draw()*draw())
		if e < avail {
			return e, 0, false
		}
	}
}

// Kalbach87 is Law 44: a tabular outgoing-energy distribution coupled
// to precompound fraction R and slope A parameters, producing both an
// outgoing energy and a center-of-mass cosine in one draw, per
// EnergyLaw44.hpp's KalbachTabular::operator().
type Kalbach87 struct {
	Ein    []float64
	Tables []outgoingTable
	R      [][]float64 // per incident-energy row, per outgoing-energy bin
	A      [][]float64
}

// NewKalbach87 builds a Law 44 sampler from parallel incident-energy,
// per-row outgoing-energy table, and per-row precompound-parameter
// slices, mirroring NewLaw4's construction.
func NewKalbach87(ein []float64, flag TabularFlag, eout, pdf, cdf, r, a [][]float64) *Kalbach87 {
	tabs := make([]outgoingTable, len(ein))
	for i := range ein {
		tabs[i] = outgoingTable{Flag: flag, Eout: eout[i], PDF: pdf[i], CDF: cdf[i]}
	}
	return &Kalbach87{Ein: ein, Tables: tabs, R: r, A: a}
}

func (k *Kalbach87) row(incident float64) int {
	n := len(k.Ein)
	if incident <= k.Ein[0] {
		return 0
	}
	if incident >= k.Ein[n-1] {
		return n - 1
	}
	i := sort.Search(n, func(i int) bool { return k.Ein[i] > incident }) - 1
	if i < 0 {
		return 0
	}
	return i
}

func (k *Kalbach87) Sample(incident float64, draw func() float64) (float64, float64, bool) {
	row := k.row(incident)
	tab := k.Tables[row]
	energy, idx := tab.sample(draw())

	var rk, ak float64
	switch tab.Flag {
	case Histogram:
		rk, ak = k.R[row][idx], k.A[row][idx]
	default:
		if idx+1 < len(k.R[row]) && tab.Eout[idx+1] != tab.Eout[idx] {
			frac := (energy - tab.Eout[idx]) / (tab.Eout[idx+1] - tab.Eout[idx])
			rk = k.R[row][idx] + frac*(k.R[row][idx+1]-k.R[row][idx])
			ak = k.A[row][idx] + frac*(k.A[row][idx+1]-k.A[row][idx])
		} else {
			rk, ak = k.R[row][idx], k.A[row][idx]
		}
	}

	chi := draw()
	rho := draw()
	var mu float64
	if chi > rk {
		t := (2*rho - 1) * math.Sinh(ak)
		mu = math.Log(t+math.Sqrt(t*t+1.0)) / ak
	} else {
		mu = math.Log(rho*math.Exp(ak)+(1.0-rho)*math.Exp(-ak)) / ak
	}
	return energy, mu, true
}
