package transport

import (
	"math"
	"math/rand"
	"testing"

	"github.com/89018580/helios/internal/grid"
	"github.com/89018580/helios/internal/reaction"
	"github.com/89018580/helios/internal/xs"
)

func TestFissionProducesScaledWeightProgeny(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	reactions := reaction.NewLibrary()
	secIdx := reactions.AddSecondary(reaction.Secondary{EnergyLaw: fixedEnergyLaw{energy: 1e-5}})
	iso := newFissileIsotope(master, secIdx)
	model, _ := buildInfiniteMediumModel(iso, master, reactions)

	p := Particle{Position: Vec3{0, 0, 0}, Direction: Vec3{0, 0, 1}, Energy: 1.0, Weight: 3.0, MasterIndex: 0}

	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	i := 0
	draw := func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}

	children, err := model.fission(0, p, iso, 2.0, draw)
	if err != nil {
		t.Fatalf("fission() error = %v", err)
	}
	// NuBar=2, kEffPrev=2.0, weight=3.0 -> expected=3.0 exactly, so
	// stochasticRound always yields 3 regardless of the draw sequence.
	if len(children) != 3 {
		t.Fatalf("len(children) = %d, want 3", len(children))
	}
	for _, c := range children {
		want := p.Weight / 2.0
		if c.Particle.Weight != want {
			t.Errorf("child weight = %v, want %v", c.Particle.Weight, want)
		}
		if c.Particle.State != StateBank {
			t.Errorf("child state = %v, want StateBank", c.Particle.State)
		}
		if c.Cell != p.Cell {
			t.Errorf("child should inherit the parent's cell")
		}
	}
}

func TestFissionWithZeroExpectedYieldProducesNoProgeny(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	reactions := reaction.NewLibrary()
	secIdx := reactions.AddSecondary(reaction.Secondary{EnergyLaw: fixedEnergyLaw{energy: 1e-5}})
	iso := newFissileIsotope(master, secIdx)
	model, _ := buildInfiniteMediumModel(iso, master, reactions)

	p := Particle{Weight: 0, MasterIndex: 0}
	draw := func() float64 { return 0.999 }

	children, err := model.fission(0, p, iso, 1.0, draw)
	if err != nil {
		t.Fatalf("fission() error = %v", err)
	}
	if len(children) != 0 {
		t.Errorf("len(children) = %d, want 0 for zero weight", len(children))
	}
}

func TestFissionDelayedBranchingFractionMatchesBeta(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	reactions := reaction.NewLibrary()
	promptIdx := reactions.AddSecondary(reaction.Secondary{EnergyLaw: fixedEnergyLaw{energy: 1.0}})
	delayedIdx := reactions.AddSecondary(reaction.Secondary{EnergyLaw: fixedEnergyLaw{energy: 2.0}})

	iso := xs.New("fuel", true, 235.0, master, []float64{1e-5, 20.0},
		[]float64{1, 1},
		[]float64{1, 1},
		[]float64{1, 1},
		[]float64{0, 0},
		[]float64{1, 1},    // nuPrompt
		[]float64{0.01, 0.01}, // nuDelayed -> Beta = nuDelayed/nuPrompt = 0.01
		nil,
	)
	iso.FissionReaction = promptIdx
	iso.DelayedFission = delayedIdx
	model, _ := buildInfiniteMediumModel(iso, master, reactions)

	beta := iso.Beta(0)
	if beta != 0.01 {
		t.Fatalf("Beta() = %v, want 0.01", beta)
	}

	nu := iso.NuBar(0) // 1.01, prompt + delayed
	kEffPrev := nu     // so expected = nu/kEffPrev*weight = weight, an exact integer for weight=kEffPrev
	p := Particle{Weight: kEffPrev, MasterIndex: 0}

	rng := rand.New(rand.NewSource(42))
	draw := func() float64 { return rng.Float64() }

	const trials = 1000000
	delayedCount := 0
	for i := 0; i < trials; i++ {
		children, err := model.fission(i, p, iso, kEffPrev, draw)
		if err != nil {
			t.Fatalf("fission() error = %v", err)
		}
		if len(children) != 1 {
			t.Fatalf("len(children) = %d, want 1", len(children))
		}
		if children[0].Particle.Energy == 2.0 {
			delayedCount++
		}
	}

	fraction := float64(delayedCount) / float64(trials)
	stderr := math.Sqrt(beta * (1 - beta) / float64(trials))
	if math.Abs(fraction-beta) > 3*stderr {
		t.Errorf("delayed fraction = %v, want %v +/- %v", fraction, beta, 3*stderr)
	}
}

func TestFissionSamplerFallsBackToPromptReactionWithoutChances(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	reactions := reaction.NewLibrary()
	secIdx := reactions.AddSecondary(reaction.Secondary{EnergyLaw: fixedEnergyLaw{energy: 4.0}})
	iso := newFissileIsotope(master, secIdx)
	model, _ := buildInfiniteMediumModel(iso, master, reactions)

	draw := func() float64 { return 0.5 }
	got := model.fissionSampler(iso, 0, false, draw)
	if got != secIdx {
		t.Errorf("fissionSampler() = %d, want %d (the prompt FissionReaction index)", got, secIdx)
	}
}
