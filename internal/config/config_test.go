package config

import (
	"errors"
	"flag"
	"os"
	"testing"

	"github.com/89018580/helios/internal/herr"
)

func TestDefaultsValidate(t *testing.T) {
	s := Defaults()
	if err := s.Validate(); err != nil {
		t.Errorf("Defaults().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsUnknownMultithread(t *testing.T) {
	s := Defaults()
	s.Multithread = "gpu"
	err := s.Validate()
	if err == nil {
		t.Fatal("expected an error for an unrecognized scheduler")
	}
	if !errors.Is(err, herr.ErrSetting) {
		t.Errorf("error = %v, want wrapping ErrSetting", err)
	}
}

func TestValidateRejectsNonPositiveBudgets(t *testing.T) {
	cases := []func(*Settings){
		func(s *Settings) { s.MaxSourceSamples = 0 },
		func(s *Settings) { s.MaxRNGPerHistory = -1 },
		func(s *Settings) { s.CriticalityParticles = 0 },
		func(s *Settings) { s.CriticalityBatches = 0 },
	}
	for _, mutate := range cases {
		s := Defaults()
		mutate(s)
		if err := s.Validate(); err == nil {
			t.Errorf("expected Validate() to reject settings %+v", s)
		}
	}
}

func TestValidateRejectsInactiveNotLessThanBatches(t *testing.T) {
	s := Defaults()
	s.CriticalityInactive = s.CriticalityBatches
	if err := s.Validate(); err == nil {
		t.Error("expected Validate() to reject inactive >= batches")
	}
}

func TestRegisterFlagsOverridesDefaults(t *testing.T) {
	s := Defaults()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs, s)
	if err := fs.Parse([]string{"-seed=42", "-criticality-particles=500"}); err != nil {
		t.Fatalf("fs.Parse() error = %v", err)
	}
	if s.Seed != 42 {
		t.Errorf("Seed = %d, want 42", s.Seed)
	}
	if s.CriticalityParticles != 500 {
		t.Errorf("CriticalityParticles = %d, want 500", s.CriticalityParticles)
	}
}

func TestRegisterFlagsOverridesMultithread(t *testing.T) {
	s := Defaults()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs, s)
	if err := fs.Parse([]string{"-multithread=tbb"}); err != nil {
		t.Fatalf("fs.Parse() error = %v", err)
	}
	if s.Multithread != TBB {
		t.Errorf("Multithread = %q, want %q", s.Multithread, TBB)
	}
}

func TestParseEnvOverridesSeed(t *testing.T) {
	os.Setenv("HELIOS_SEED", "123")
	defer os.Unsetenv("HELIOS_SEED")

	s := Defaults()
	if err := ParseEnv(s); err != nil {
		t.Fatalf("ParseEnv() error = %v", err)
	}
	if s.Seed != 123 {
		t.Errorf("Seed = %d, want 123", s.Seed)
	}
}
