// Package config decodes the recognized SettingsObject keys onto a
// Settings struct, following the two idioms present in the corpus:
// command-line flags via the standard flag package and
// environment-variable overrides via github.com/caarlos0/env/v11
// (louisbranch-fracturing.space's internal/platform/config/env.go).
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/89018580/helios/internal/herr"
)

// Multithread holds the "multithread" setting. Validate checks it
// names a known backend; the transport driver runs one goroutine per
// history whatever its value.
type Multithread string

const (
	Single Multithread = "single"
	OMP    Multithread = "omp"
	TBB    Multithread = "tbb"
)

// String implements flag.Value so Multithread can bind directly to a
// flag rather than through an intermediate string copy.
func (m Multithread) String() string { return string(m) }

// Set implements flag.Value.
func (m *Multithread) Set(v string) error {
	*m = Multithread(v)
	return nil
}

// Settings holds the decoded SettingsObject values the kernel and its
// driver binary consume.
type Settings struct {
	Seed        int64       `env:"HELIOS_SEED"`
	Multithread Multithread `env:"HELIOS_MULTITHREAD"`

	MaxSourceSamples int `env:"HELIOS_MAX_SOURCE_SAMPLES"`
	MaxRNGPerHistory int `env:"HELIOS_MAX_RNG_PER_HISTORY"`

	EnergyFreeGasThreshold float64 `env:"HELIOS_ENERGY_FREEGAS_THRESHOLD"`
	AWRFreeGasThreshold    float64 `env:"HELIOS_AWR_FREEGAS_THRESHOLD"`

	CriticalityParticles int `env:"HELIOS_CRITICALITY_PARTICLES"`
	CriticalityInactive  int `env:"HELIOS_CRITICALITY_INACTIVE"`
	CriticalityBatches   int `env:"HELIOS_CRITICALITY_BATCHES"`
}

// Defaults returns a Settings populated with the kernel's defaults.
func Defaults() *Settings {
	return &Settings{
		Seed:                   0,
		Multithread:            Single,
		MaxSourceSamples:       100,
		MaxRNGPerHistory:       100000,
		EnergyFreeGasThreshold: 4.0e-6,
		AWRFreeGasThreshold:    1.0,
		CriticalityParticles:   10000,
		CriticalityInactive:    20,
		CriticalityBatches:     100,
	}
}

// RegisterFlags binds s's fields onto fs using the same flag.XxxVar
// style as the rest of the corpus's driver binaries; the caller then
// Parses fs.
func RegisterFlags(fs *flag.FlagSet, s *Settings) {
	fs.Int64Var(&s.Seed, "seed", s.Seed, "PRNG base seed")
	fs.Var(&s.Multithread, "multithread", "scheduler: single|omp|tbb")
	fs.IntVar(&s.MaxSourceSamples, "max-source-samples", s.MaxSourceSamples, "rejection budget per source draw")
	fs.IntVar(&s.MaxRNGPerHistory, "max-rng-per-history", s.MaxRNGPerHistory, "PRNG draw budget per history")
	fs.Float64Var(&s.EnergyFreeGasThreshold, "energy-freegas-threshold", s.EnergyFreeGasThreshold, "energy below which free-gas target motion is sampled")
	fs.Float64Var(&s.AWRFreeGasThreshold, "awr-freegas-threshold", s.AWRFreeGasThreshold, "AWR below which free-gas target motion is sampled")
	fs.IntVar(&s.CriticalityParticles, "criticality-particles", s.CriticalityParticles, "histories per cycle")
	fs.IntVar(&s.CriticalityInactive, "criticality-inactive", s.CriticalityInactive, "inactive cycle count")
	fs.IntVar(&s.CriticalityBatches, "criticality-batches", s.CriticalityBatches, "total cycle count, including inactive")
}

// ParseEnv overlays environment-variable settings onto s, following
// louisbranch-fracturing.space's env.ParseEnv pattern.
func ParseEnv(s *Settings) error {
	if err := env.Parse(s); err != nil {
		return fmt.Errorf("helios: parse env settings: %w", err)
	}
	return nil
}

// Validate checks s for the malformed/unknown-key cases the Setting
// error kind covers.
func (s *Settings) Validate() error {
	switch s.Multithread {
	case Single, OMP, TBB:
	default:
		return herr.Build(herr.ErrSetting, "multithread", fmt.Sprintf("unrecognized scheduler %q", s.Multithread))
	}
	if s.MaxSourceSamples <= 0 {
		return herr.Build(herr.ErrSetting, "max_source_samples", "must be positive")
	}
	if s.MaxRNGPerHistory <= 0 {
		return herr.Build(herr.ErrSetting, "max_rng_per_history", "must be positive")
	}
	if s.CriticalityParticles <= 0 {
		return herr.Build(herr.ErrSetting, "criticality.particles", "must be positive")
	}
	if s.CriticalityBatches <= 0 {
		return herr.Build(herr.ErrSetting, "criticality.batches", "must be positive")
	}
	if s.CriticalityInactive < 0 {
		return herr.Build(herr.ErrSetting, "criticality.inactive", "must not be negative")
	}
	if s.CriticalityInactive >= s.CriticalityBatches {
		return herr.Build(herr.ErrSetting, "criticality.inactive", "must be fewer than criticality.batches")
	}
	return nil
}
