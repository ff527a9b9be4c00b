package transport

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/89018580/helios/internal/grid"
	"github.com/89018580/helios/internal/herr"
	"github.com/89018580/helios/internal/reaction"
)

func TestRunHistoryAbsorbsAndTerminates(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	iso := newAbsorbingIsotope(master)
	reactions := reaction.NewLibrary()
	model, _ := buildInfiniteMediumModel(iso, master, reactions)

	start := Particle{Position: Vec3{0, 0, 0}, Direction: Vec3{0, 0, 1}, Energy: 1.0, Weight: 1, State: StateAlive}
	stream := rand.New(rand.NewSource(1))
	bank, reason, _, err := model.runHistory(0, stream, start, 1.0)
	if err != nil {
		t.Fatalf("runHistory() error = %v", err)
	}
	if reason != reasonAbsorbed {
		t.Errorf("reason = %v, want reasonAbsorbed", reason)
	}
	if len(bank) != 0 {
		t.Errorf("a non-fissile absorber should produce no bank entries, got %d", len(bank))
	}
}

func TestRunHistoryReportsLostParticleOutsideGeometry(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	iso := newAbsorbingIsotope(master)
	reactions := reaction.NewLibrary()
	model := buildBoxModel(iso, master, reactions, 0, 1)

	start := Particle{Position: Vec3{5, 5, 5}, Direction: Vec3{0, 0, 1}, Energy: 1.0, Weight: 1, State: StateAlive}
	stream := rand.New(rand.NewSource(1))
	_, _, _, err := model.runHistory(0, stream, start, 1.0)
	if err == nil {
		t.Fatal("expected an error for a source position outside the geometry")
	}
	if !errors.Is(err, herr.ErrSampling) {
		t.Errorf("error = %v, want wrapping ErrSampling", err)
	}
	var failure *herr.HistoryFailure
	if !errors.As(err, &failure) {
		t.Fatalf("error = %v, want a *herr.HistoryFailure", err)
	}
	if failure.Position != [3]float64(start.Position) {
		t.Errorf("Position = %v, want the particle's last known position %v", failure.Position, start.Position)
	}
	if failure.Direction != [3]float64(start.Direction) {
		t.Errorf("Direction = %v, want the particle's last known direction %v", failure.Direction, start.Direction)
	}
}

func TestRunHistoryEscapesBoundedGeometry(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	iso := newVanishingCrossSectionIsotope(master)
	reactions := reaction.NewLibrary()
	model := buildBoxModel(iso, master, reactions, 0, 1)

	start := Particle{Position: Vec3{0.5, 0.5, 0.5}, Direction: Vec3{0, 0, 1}, Energy: 1.0, Weight: 1, State: StateAlive}
	stream := rand.New(rand.NewSource(1))
	_, reason, _, err := model.runHistory(0, stream, start, 1.0)
	if err != nil {
		t.Fatalf("runHistory() error = %v", err)
	}
	if reason != reasonEscaped {
		t.Errorf("reason = %v, want reasonEscaped", reason)
	}
}

func TestRunHistoryExceedsRNGBudgetOnPersistentElasticLoop(t *testing.T) {
	master := grid.NewMaster([]float64{1e-5, 20.0})
	iso := newElasticIsotope(master)
	reactions := reaction.NewLibrary()
	model, _ := buildInfiniteMediumModel(iso, master, reactions)
	model.MaxRNGPerHistory = 50

	start := Particle{Position: Vec3{0, 0, 0}, Direction: Vec3{0, 0, 1}, Energy: 1.0, Weight: 1, State: StateAlive}
	stream := rand.New(rand.NewSource(1))
	_, _, _, err := model.runHistory(0, stream, start, 1.0)
	if err == nil {
		t.Fatal("expected a budget-exceeded error for an unbounded elastic loop")
	}
	if !errors.Is(err, herr.ErrSampling) {
		t.Errorf("error = %v, want wrapping ErrSampling", err)
	}
}
