// Package source implements a source as a weighted mixture of
// samplers, each a reference position/direction/energy/weight plus an
// ordered list of perturbing distributions.
package source

import (
	"math"
	"sort"

	"github.com/89018580/helios/internal/herr"
	"github.com/89018580/helios/internal/sampler"
)

// State is a particle's position/direction/energy/weight as it is
// built up by a Sampler's distribution chain.
type State struct {
	Position  Vec3
	Direction Vec3
	Energy    float64
	Weight    float64
}

// Distribution perturbs one or more fields of a State given a source
// of uniform draws. Distributions are applied in sequence by a
// Sampler, so a later distribution in the chain may overwrite a field
// an earlier one set.
type Distribution interface {
	Apply(s *State, draw func() float64)
}

// Box perturbs Position by an offset drawn uniformly from the box
// [Lo, Hi], added to the sampler's reference position.
type Box struct {
	Lo, Hi Vec3
}

func (b Box) Apply(s *State, draw func() float64) {
	s.Position = Vec3{
		s.Position[0] + b.Lo[0] + draw()*(b.Hi[0]-b.Lo[0]),
		s.Position[1] + b.Lo[1] + draw()*(b.Hi[1]-b.Lo[1]),
		s.Position[2] + b.Lo[2] + draw()*(b.Hi[2]-b.Lo[2]),
	}
}

// Cylinder perturbs Position by an offset drawn uniformly from a
// cylindrical volume of the given radius and half-height centered on
// the sampler's reference position, with its axis along Axis.
type Cylinder struct {
	Axis       Vec3
	Radius     float64
	HalfHeight float64
}

func (c Cylinder) Apply(s *State, draw func() float64) {
	r := c.Radius * math.Sqrt(draw())
	theta := 2 * math.Pi * draw()
	h := (2*draw() - 1) * c.HalfHeight
	u, v := orthonormalBasis(c.Axis)
	radial := add(scale(u, r*math.Cos(theta)), scale(v, r*math.Sin(theta)))
	offset := add(radial, scale(normalize(c.Axis), h))
	s.Position = add(s.Position, offset)
}

// IsotropicDirection overwrites Direction with a vector drawn
// uniformly over the unit sphere, ignoring any prior reference
// direction.
type IsotropicDirection struct{}

func (IsotropicDirection) Apply(s *State, draw func() float64) {
	mu := 1 - 2*draw()
	phi := 2 * math.Pi * draw()
	s.Direction = rotateAbout(Vec3{0, 0, 1}, mu, phi)
}

// Cone overwrites Direction with a vector drawn uniformly within a
// cone of half-angle arccos(CosHalfAngle) about Axis.
type Cone struct {
	Axis         Vec3
	CosHalfAngle float64
}

func (c Cone) Apply(s *State, draw func() float64) {
	mu := c.CosHalfAngle + draw()*(1-c.CosHalfAngle)
	phi := 2 * math.Pi * draw()
	s.Direction = rotateAbout(normalize(c.Axis), mu, phi)
}

// EnergyHistogram overwrites Energy with a value drawn uniformly
// within a bin chosen by the bins' relative Weights.
type EnergyHistogram struct {
	edges []float64
	cdf   []float64
}

// NewEnergyHistogram builds a histogram energy distribution from n+1
// bin edges and n relative weights.
func NewEnergyHistogram(edges, weights []float64) (*EnergyHistogram, error) {
	if len(edges) != len(weights)+1 {
		return nil, herr.Build(herr.ErrSourceBuild, "energy-histogram", "edges must have one more entry than weights")
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil, herr.Build(herr.ErrSourceBuild, "energy-histogram", "weights sum to zero")
	}
	cdf := make([]float64, len(weights))
	running := 0.0
	for i, w := range weights {
		running += w
		cdf[i] = running / total
	}
	return &EnergyHistogram{edges: edges, cdf: cdf}, nil
}

func (h *EnergyHistogram) Apply(s *State, draw func() float64) {
	u := draw()
	idx := sort.Search(len(h.cdf), func(i int) bool { return h.cdf[i] > u })
	if idx >= len(h.cdf) {
		idx = len(h.cdf) - 1
	}
	lo, hi := h.edges[idx], h.edges[idx+1]
	s.Energy = lo + draw()*(hi-lo)
}

// Mixture applies one of several sub-distributions, chosen per draw
// by relative Weights: a custom weighted mixture of other
// distributions.
type Mixture struct {
	distributions []Distribution
	mix           *sampler.Dense
}

// NewMixture builds a weighted mixture over dists.
func NewMixture(dists []Distribution, weights []float64) (*Mixture, error) {
	if len(dists) == 0 {
		return nil, herr.Build(herr.ErrSourceBuild, "mixture", "empty distribution mixture")
	}
	return &Mixture{distributions: dists, mix: sampler.NewDense([][]float64{weights})}, nil
}

func (m *Mixture) Apply(s *State, draw func() float64) {
	idx := m.mix.Sample(0, draw())
	m.distributions[idx].Apply(s, draw)
}

// Spec is the build-time description of a distribution as it would
// arrive from a DistributionObject record; Build resolves it to a
// concrete Distribution, an explicit factory registry in place of a
// polymorphic distribution-factory singleton.
type Spec struct {
	Kind string

	Lo, Hi             Vec3    // box
	Axis               Vec3    // cylinder, cone
	Radius, HalfHeight float64 // cylinder
	CosHalfAngle       float64 // cone
	Edges, Weights     []float64

	Mixture        []Spec
	MixtureWeights []float64
}

// Build resolves a Spec into a concrete Distribution, returning
// ErrSourceBuild for an unrecognized Kind.
func Build(spec Spec) (Distribution, error) {
	switch spec.Kind {
	case "box":
		return Box{Lo: spec.Lo, Hi: spec.Hi}, nil
	case "cylinder":
		return Cylinder{Axis: spec.Axis, Radius: spec.Radius, HalfHeight: spec.HalfHeight}, nil
	case "isotropic":
		return IsotropicDirection{}, nil
	case "cone":
		return Cone{Axis: spec.Axis, CosHalfAngle: spec.CosHalfAngle}, nil
	case "energy-histogram":
		return NewEnergyHistogram(spec.Edges, spec.Weights)
	case "mixture":
		subs := make([]Distribution, len(spec.Mixture))
		for i, sub := range spec.Mixture {
			d, err := Build(sub)
			if err != nil {
				return nil, err
			}
			subs[i] = d
		}
		return NewMixture(subs, spec.MixtureWeights)
	default:
		return nil, herr.Build(herr.ErrSourceBuild, spec.Kind, "unknown distribution id")
	}
}
