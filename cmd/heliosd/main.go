// Command heliosd runs a standalone criticality power-iteration,
// following the flag.Parse()/event-loop structure common to the
// corpus's driver binaries. Object ingestion from a settings file is
// out of scope for the core kernel, so this driver builds its
// geometry, material, and source programmatically: a bare fissile
// sphere, the textbook criticality benchmark shape.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/89018580/helios/internal/config"
	"github.com/89018580/helios/internal/geom"
	"github.com/89018580/helios/internal/grid"
	"github.com/89018580/helios/internal/material"
	"github.com/89018580/helios/internal/reaction"
	"github.com/89018580/helios/internal/rng"
	"github.com/89018580/helios/internal/source"
	"github.com/89018580/helios/internal/transport"
	"github.com/89018580/helios/internal/xs"
)

var (
	radius = flag.Float64("radius", 8.0, "fuel sphere radius, cm")
	awr    = flag.Float64("awr", 236.0, "fuel isotope atomic weight ratio")
	nuBar  = flag.Float64("nubar", 2.9, "prompt fission neutron yield")
)

func main() {
	flag.CommandLine.Usage = usage
	settings := config.Defaults()
	config.RegisterFlags(flag.CommandLine, settings)
	flag.Parse()

	if err := config.ParseEnv(settings); err != nil {
		log.Fatalf("helios: %v\n", err)
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("helios: %v\n", err)
	}

	ctrl, err := buildController(settings)
	if err != nil {
		log.Fatalf("helios: %v\n", err)
	}

	reports, kstat, err := ctrl.Run()
	if err != nil {
		log.Fatalf("helios: criticality run failed after %d cycles: %v\n", len(reports), err)
	}

	fmt.Printf("active-cycle k: mean=%.6f stderr=%.6f (n=%d)\n", kstat.Mean(), kstat.StdErr(), kstat.N())
	os.Exit(0)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: heliosd [flags]\n\nruns a power-iteration criticality search over a bare fissile sphere.\n\n")
	flag.PrintDefaults()
}

// buildController assembles the bare-sphere geometry, the fuel
// material and its reaction library, a volumetric source, and wires
// them into a transport.Controller ready for Run.
func buildController(settings *config.Settings) (*transport.Controller, error) {
	master := grid.NewMaster([]float64{1.0e-11, 20.0})

	reactions := reaction.NewLibrary()
	elasticIdx := reactions.AddElastic(&reaction.Elastic{Angular: evenCosineBins(), AWR: *awr})
	fissionIdx := reactions.AddSecondary(reaction.Secondary{
		EnergyLaw: &reaction.Maxwellian{
			Ein: []float64{1.0e-11, 20.0},
			T:   []float64{1.32, 1.32},
			U:   0,
		},
		Angular: reaction.Isotropic{},
	})

	// First-excited-level inelastic scattering (MT 51): a continuous
	// tabular energy distribution (Law 4) paired with a tabulated
	// lin-lin cosine distribution, rather than isotropic.
	levelInelasticIdx := reactions.AddSecondary(reaction.Secondary{
		EnergyLaw: reaction.NewLaw4(
			[]float64{1.0e-11, 20.0},
			reaction.LinLin,
			[][]float64{{0, 0.5, 1.0}, {0, 0.5, 1.0}},
			[][]float64{{0.8, 1.6, 0.0}, {0.8, 1.6, 0.0}},
			[][]float64{{0, 0.6, 1.0}, {0, 0.6, 1.0}},
		),
		Angular: reaction.Tabular{
			Flag:  reaction.LinLin,
			Csout: []float64{-1, 0, 1},
			PDF:   []float64{0.6, 0.4, 0.6},
			CDF:   []float64{0, 0.5, 1.0},
		},
	})

	// Continuum inelastic scattering (MT 91): Kalbach-87 (Law 44)
	// correlates the outgoing energy and cosine in one draw, so no
	// separate angular table is needed.
	continuumInelasticIdx := reactions.AddSecondary(reaction.Secondary{
		EnergyLaw: reaction.NewKalbach87(
			[]float64{1.0e-11, 20.0},
			reaction.Histogram,
			[][]float64{{0, 1, 2}, {0, 1, 2}},
			[][]float64{{0.5, 0.5, 0}, {0.5, 0.5, 0}},
			[][]float64{{0, 0.5, 1}, {0, 0.5, 1}},
			[][]float64{{0.2, 0.3, 0}, {0.2, 0.3, 0}},
			[][]float64{{1.5, 1.8, 0}, {1.5, 1.8, 0}},
		),
	})

	fuel := xs.New("fuel", true, *awr, master, []float64{1.0e-11, 20.0},
		[]float64{4.0, 4.0}, // total
		[]float64{2.0, 2.0}, // absorption (capture + fission)
		[]float64{1.8, 1.8}, // fission
		[]float64{1.5, 1.5}, // elastic
		[]float64{*nuBar, *nuBar},
		nil, nil,
	)
	fuel.ElasticReaction = elasticIdx
	fuel.FissionReaction = fissionIdx
	fuel.AddInelastic(xs.InelasticEntry{MT: 51, Partial: []float64{0.3, 0.3}, Sampler: levelInelasticIdx, QValue: -0.1})
	fuel.AddInelastic(xs.InelasticEntry{MT: 91, Partial: []float64{0.2, 0.2}, Sampler: continuumInelasticIdx, QValue: -0.05})

	mat, err := material.New("fuel", master, material.AtomFraction,
		[]material.Nuclide{{Isotope: fuel, Fraction: 1}}, 19.0, "g/cm3")
	if err != nil {
		return nil, err
	}

	sphere := geom.NewQuadric("sphere", 1, 1, 1, 0, 0, 0, 0, 0, 0, -(*radius)*(*radius))
	b := geom.NewBuilder()
	b.AddSurface(sphere)
	b.AddCell(geom.CellDef{
		UserID:        "fuel",
		Bounds:        []geom.BoundSpec{{SurfaceUserID: "sphere", Sense: false}},
		MaterialIndex: 0,
	})
	b.AddUniverse(geom.UniverseDef{UserID: "base", CellIDs: []string{"fuel"}})
	g, err := b.Build("base")
	if err != nil {
		return nil, err
	}

	// The seed box is inscribed inside the sphere so every draw is
	// accepted on the first attempt regardless of radius.
	half := *radius / 2
	sampler := &source.Sampler{
		Energy: 2.0,
		Weight: 1.0,
		Distributions: []source.Distribution{
			source.Box{Lo: source.Vec3{-half, -half, -half}, Hi: source.Vec3{half, half, half}},
			source.IsotropicDirection{},
		},
	}
	src, err := source.New([]*source.Sampler{sampler}, []float64{1}, g, g.Cells, settings.MaxSourceSamples)
	if err != nil {
		return nil, err
	}

	model := &transport.Model{
		Geometry:  g,
		Master:    master,
		Materials: []*material.Material{mat},
		Reactions: reactions,
		FreeGas: &reaction.FreeGasParams{
			EnergyThreshold: settings.EnergyFreeGasThreshold,
			AWRThreshold:    settings.AWRFreeGasThreshold,
			Temperature:     2.53e-8, // room-temperature thermal energy, MeV
		},
		MaxRNGPerHistory: settings.MaxRNGPerHistory,
	}

	return &transport.Controller{
		Model:    model,
		Source:   src,
		Base:     rng.New(uint64(settings.Seed)),
		Settings: settings,
	}, nil
}

// evenCosineBins builds a 32-bin equiprobable cosine table evenly
// spaced over [-1, 1], standing in for the fuel isotope's tabulated
// elastic angular distribution in place of a bare isotropic
// assumption.
func evenCosineBins() reaction.EquiBins {
	var bins reaction.EquiBins
	for i := range bins.Bins {
		bins.Bins[i] = -1 + float64(i)*(2.0/32)
	}
	return bins
}
