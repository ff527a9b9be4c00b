package transport

import (
	"math"
	"testing"

	"github.com/89018580/helios/internal/grid"
	"github.com/89018580/helios/internal/reaction"
	"github.com/89018580/helios/internal/rng"
)

func TestResampleBankSplitsByWeightOverK(t *testing.T) {
	bank := []BankEntry{{Particle: Particle{Weight: 2.7}}}
	out := resampleBank(bank, 1.0)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	for _, e := range out {
		if math.Abs(e.Particle.Weight-1.35) > 1e-12 {
			t.Errorf("copy weight = %v, want 1.35", e.Particle.Weight)
		}
		if e.Particle.State != StateAlive {
			t.Errorf("resampled copies must be StateAlive for the next cycle")
		}
	}
}

func TestResampleBankNeverProducesFewerThanOneCopy(t *testing.T) {
	bank := []BankEntry{{Particle: Particle{Weight: 0.2}}}
	out := resampleBank(bank, 1.0)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if math.Abs(out[0].Particle.Weight-0.2) > 1e-12 {
		t.Errorf("single-copy weight = %v, want 0.2", out[0].Particle.Weight)
	}
}

func TestRunCycleWithDeterministicFissionYieldsExactK(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	reactions := reaction.NewLibrary()
	secIdx := reactions.AddSecondary(reaction.Secondary{EnergyLaw: fixedEnergyLaw{energy: 1e-5}})
	iso := newFissileIsotope(master, secIdx)
	model, _ := buildInfiniteMediumModel(iso, master, reactions)

	n := 5
	bank := make([]BankEntry, n)
	for i := range bank {
		bank[i] = BankEntry{Particle: Particle{
			Position: Vec3{0, 0, 0}, Direction: Vec3{0, 0, 1}, Energy: 1.0, Weight: 1, State: StateAlive,
		}}
	}

	base := rng.New(1)
	result, err := model.RunCycle(base, bank, 1.0, 10)
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if result.K != 2.0 {
		t.Errorf("K = %v, want 2.0 (nu=2 is absorbed with certainty every history)", result.K)
	}
	if len(result.Bank) != 10 {
		t.Errorf("len(Bank) = %d, want 10 (5 histories x 2 progeny, each split=1 at k=2.0)", len(result.Bank))
	}
}

func TestRunCycleRejectsEmptyBank(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	reactions := reaction.NewLibrary()
	iso := newAbsorbingIsotope(master)
	model, _ := buildInfiniteMediumModel(iso, master, reactions)

	base := rng.New(1)
	_, err := model.RunCycle(base, nil, 1.0, 10)
	if err == nil {
		t.Fatal("expected an error for an empty cycle bank")
	}
}

func TestRunCycleOnVacuumSurroundedSphereProducesNoFissionProgeny(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	reactions := reaction.NewLibrary()
	iso := newVanishingCrossSectionIsotope(master) // non-fissile, mean free path far exceeds the sphere
	model := buildSphereModel(iso, master, reactions, 5.0)

	n := 20
	bank := make([]BankEntry, n)
	for i := range bank {
		bank[i] = BankEntry{Particle: Particle{
			Position: Vec3{0, 0, 0}, Direction: Vec3{0, 0, 1}, Energy: 1.0, Weight: 1, State: StateAlive,
		}}
	}

	base := rng.New(3)
	result, err := model.RunCycle(base, bank, 1.0, n)
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if result.K != 0 {
		t.Errorf("K = %v, want 0 (every history escaped into the surrounding vacuum with no fission progeny)", result.K)
	}
	if len(result.Bank) != 0 {
		t.Errorf("len(Bank) = %d, want 0 (the chain has died out)", len(result.Bank))
	}
}

func TestRunCycleFailsWhenFailuresExceedBudget(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	reactions := reaction.NewLibrary()
	iso := newAbsorbingIsotope(master)
	model := buildBoxModel(iso, master, reactions, 0, 1)

	// Every history starts outside the box, so every one is a lost
	// particle and counts as a failure.
	n := 5
	bank := make([]BankEntry, n)
	for i := range bank {
		bank[i] = BankEntry{Particle: Particle{
			Position: Vec3{5, 5, 5}, Direction: Vec3{0, 0, 1}, Energy: 1.0, Weight: 1, State: StateAlive,
		}}
	}

	base := rng.New(1)
	_, err := model.RunCycle(base, bank, 1.0, 1)
	if err == nil {
		t.Fatal("expected the cycle to fail once failures exceed the budget")
	}
}

func TestStochasticRoundRoundsAccordingToFractionalDraw(t *testing.T) {
	if got := stochasticRound(2.7, 0.5); got != 3 {
		t.Errorf("stochasticRound(2.7, 0.5) = %d, want 3 (0.5 < 0.7 fraction)", got)
	}
	if got := stochasticRound(2.7, 0.8); got != 2 {
		t.Errorf("stochasticRound(2.7, 0.8) = %d, want 2 (0.8 >= 0.7 fraction)", got)
	}
	if got := stochasticRound(0, 0.1); got != 0 {
		t.Errorf("stochasticRound(0, _) = %d, want 0", got)
	}
}
