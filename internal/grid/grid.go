// Package grid implements the unified master energy grid and the
// per-isotope child grids that map master indices into an isotope's
// native energy grid, per the kernel's energy-grid component.
package grid

import "sort"

// Master is the sorted, deduplicated union of every participating
// isotope's native energy grid.
type Master struct {
	energies []float64
}

// NewMaster builds a master grid from the native grids of every
// isotope that will be loaded. Values are deduplicated and sorted.
func NewMaster(natives ...[]float64) *Master {
	seen := make(map[float64]struct{})
	var merged []float64
	for _, native := range natives {
		for _, e := range native {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			merged = append(merged, e)
		}
	}
	sort.Float64s(merged)
	return &Master{energies: merged}
}

// Len returns the number of points on the master grid.
func (m *Master) Len() int { return len(m.energies) }

// At returns the energy value at master index i.
func (m *Master) At(i int) float64 { return m.energies[i] }

// Index performs a binary search for e on the master grid, returning
// the largest index i such that energies[i] <= e. Energies below the
// first grid point clamp to 0; energies at or above the last point
// clamp to Len()-1.
func (m *Master) Index(e float64) int {
	return m.HintedIndex(e, 0)
}

// HintedIndex behaves like Index but first probes hint and its
// immediate neighbors, skipping the full binary search when the
// caller already knows roughly where e should fall (the Particle's
// cached (index, energy) pair feeding consecutive isotope lookups at
// the same energy, per the kernel's energy-grid component).
func (m *Master) HintedIndex(e float64, hint int) int {
	n := len(m.energies)
	if n == 0 {
		return 0
	}
	if hint >= 0 && hint < n {
		if m.bracket(hint, e) {
			return hint
		}
		if hint+1 < n && m.bracket(hint+1, e) {
			return hint + 1
		}
		if hint > 0 && m.bracket(hint-1, e) {
			return hint - 1
		}
	}
	if e <= m.energies[0] {
		return 0
	}
	if e >= m.energies[n-1] {
		return n - 1
	}
	// sort.Search finds the first index whose value is > e; the
	// bracketing index is one below that.
	i := sort.Search(n, func(i int) bool { return m.energies[i] > e })
	return i - 1
}

func (m *Master) bracket(i int, e float64) bool {
	n := len(m.energies)
	if i < 0 || i >= n {
		return false
	}
	lo := m.energies[i]
	if i == n-1 {
		return e >= lo
	}
	return e >= lo && e < m.energies[i+1]
}

// Child maps every master-grid index onto a local index j into an
// isotope's native grid, plus an interpolation factor f in [0,1) such
// that native[j] <= e < native[j+1] and
//
//	Q(e) = Q[j] + f*(Q[j+1]-Q[j])
//
// for any quantity Q tabulated on the native grid.
type Child struct {
	native []float64
	local  []int
	factor []float64
}

// NewChild builds the child grid for one isotope's native energy grid
// against the given master grid.
func NewChild(master *Master, native []float64) *Child {
	n := master.Len()
	c := &Child{
		native: native,
		local:  make([]int, n),
		factor: make([]float64, n),
	}
	nn := len(native)
	for i := 0; i < n; i++ {
		e := master.At(i)
		j := localIndex(native, e)
		c.local[i] = j
		if j+1 < nn && native[j+1] > native[j] && e > native[j] {
			c.factor[i] = (e - native[j]) / (native[j+1] - native[j])
		} else {
			c.factor[i] = 0
		}
	}
	return c
}

func localIndex(native []float64, e float64) int {
	n := len(native)
	if n == 0 {
		return 0
	}
	if e <= native[0] {
		return 0
	}
	if e >= native[n-1] {
		return n - 1
	}
	i := sort.Search(n, func(i int) bool { return native[i] > e })
	return i - 1
}

// Local returns the native-grid index and interpolation factor for
// master index i.
func (c *Child) Local(i int) (j int, f float64) {
	return c.local[i], c.factor[i]
}

// Interp evaluates a quantity Q tabulated on the isotope's native
// grid at master index i, linearly interpolating between Q[j] and
// Q[j+1]. Energies above the last native grid point clamp to the
// endpoint value (j == len(Q)-1, f == 0).
func (c *Child) Interp(q []float64, i int) float64 {
	j, f := c.Local(i)
	if j+1 >= len(q) {
		return q[j]
	}
	return q[j] + f*(q[j+1]-q[j])
}
