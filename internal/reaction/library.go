package reaction

// Secondary couples an outgoing-energy law with the cosine table that
// supplies an angle when the energy law itself does not (Law 44
// returns its own center-of-mass cosine; laws 4/7/9 leave angle
// sampling to a separately tabulated angular distribution).
type Secondary struct {
	EnergyLaw EnergyLaw
	Angular   CosineTable // nil means isotropic
}

// Sample draws an outgoing energy and cosine for one secondary.
func (s Secondary) Sample(incident float64, draw func() float64) (energy, mu float64) {
	e, m, ok := s.EnergyLaw.Sample(incident, draw)
	if ok {
		return e, m
	}
	if s.Angular != nil {
		return e, s.Angular.Sample(draw())
	}
	return e, 1 - 2*draw()
}

// Library is the build-time arena of elastic reactions and secondary
// (energy-law + angular) samplers that an Isotope's reaction records
// reference by index, replacing a deep Reaction/EnergyLaw polymorphic
// hierarchy with a flat, index-addressed arena: trait objects behind
// indices, so new energy laws can be added without growing a
// polymorphic hierarchy.
type Library struct {
	Elastic     []*Elastic
	Secondaries []Secondary
}

// NewLibrary returns an empty reaction library.
func NewLibrary() *Library { return &Library{} }

// AddElastic registers an elastic reaction and returns its index.
func (l *Library) AddElastic(e *Elastic) int {
	l.Elastic = append(l.Elastic, e)
	return len(l.Elastic) - 1
}

// AddSecondary registers a secondary-kinematics sampler and returns
// its index.
func (l *Library) AddSecondary(s Secondary) int {
	l.Secondaries = append(l.Secondaries, s)
	return len(l.Secondaries) - 1
}
