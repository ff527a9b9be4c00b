package source

import (
	"github.com/89018580/helios/internal/geom"
	"github.com/89018580/helios/internal/herr"
	"github.com/89018580/helios/internal/sampler"
)

// Source is a weighted mixture of Samplers, optionally constrained to
// a set of cells: a drawn position outside every configured cell is
// rejected and redrawn, up to MaxSamples attempts.
type Source struct {
	samplers   []*Sampler
	mix        *sampler.Dense
	geometry   *geom.Geometry
	cells      []*geom.Cell
	maxSamples int
}

// defaultMaxSamples is the max_source_samples default.
const defaultMaxSamples = 100

// New builds a Source from a weighted mixture of samplers. geometry
// and cells may both be nil/empty, in which case every draw is
// accepted unconstrained. maxSamples <= 0 uses the default of 100.
func New(samplers []*Sampler, weights []float64, geometry *geom.Geometry, cells []*geom.Cell, maxSamples int) (*Source, error) {
	if len(samplers) == 0 {
		return nil, herr.Build(herr.ErrSourceBuild, "source", "empty sampler mixture")
	}
	if maxSamples <= 0 {
		maxSamples = defaultMaxSamples
	}
	return &Source{
		samplers:   samplers,
		mix:        sampler.NewDense([][]float64{weights}),
		geometry:   geometry,
		cells:      cells,
		maxSamples: maxSamples,
	}, nil
}

// Draw picks a sampler weighted by the source's mixture and draws a
// State from it, rejecting and resampling until the drawn position
// lies inside one of the configured cells (when any are configured),
// up to the source's sample budget. history identifies the calling
// history for the returned HistoryFailure on exhaustion.
func (src *Source) Draw(history int, draw func() float64) (State, error) {
	for attempt := 0; attempt < src.maxSamples; attempt++ {
		idx := src.mix.Sample(0, draw())
		st := src.samplers[idx].Draw(draw)
		if !src.constrained() || src.inConfiguredCell(st.Position) {
			return st, nil
		}
	}
	return State{}, herr.Sampling(history, "source rejection exhausted")
}

func (src *Source) constrained() bool {
	return src.geometry != nil && len(src.cells) > 0
}

func (src *Source) inConfiguredCell(p Vec3) bool {
	located := src.geometry.Locate(p)
	if located == nil {
		return false
	}
	for _, c := range src.cells {
		if located == c {
			return true
		}
	}
	return false
}
