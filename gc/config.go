// ABOUTME: Heap configuration: automatic collection threshold and allocation limit
// ABOUTME: Registered as flags or loaded from YAML

package gc

import (
	"flag"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultUsedSpaceRatio = 0.7

// Config configures a Heap.
type Config struct {
	// Threshold is the live byte count above which New collects before
	// allocating. 0 disables automatic collection; Collect is always available.
	Threshold uint64 `yaml:"threshold"`

	// UsedSpaceRatio controls threshold growth: if a triggered collection
	// leaves more than Threshold*UsedSpaceRatio bytes live, the threshold
	// becomes live/UsedSpaceRatio.
	UsedSpaceRatio float64 `yaml:"used_space_ratio"`

	// MaxAllocations caps the number of live allocations. 0 means unlimited.
	MaxAllocations int `yaml:"max_allocations"`
}

// RegisterFlags registers flags.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("", f)
}

// RegisterFlagsWithPrefix registers flags with prefix.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.Uint64Var(&cfg.Threshold, prefix+"gc.threshold", 0, "Live bytes that trigger a collection on allocation. 0 disables automatic collection.")
	f.Float64Var(&cfg.UsedSpaceRatio, prefix+"gc.used-space-ratio", defaultUsedSpaceRatio, "Fraction of the threshold that may stay live after a triggered collection before the threshold grows.")
	f.IntVar(&cfg.MaxAllocations, prefix+"gc.max-allocations", 0, "Maximum number of live allocations. 0 means unlimited.")
}

// Validate checks the config.
func (cfg *Config) Validate() error {
	if cfg.UsedSpaceRatio <= 0 || cfg.UsedSpaceRatio > 1 {
		return errors.Errorf("used space ratio must be in (0, 1], got %v", cfg.UsedSpaceRatio)
	}
	if cfg.MaxAllocations < 0 {
		return errors.Errorf("max allocations must not be negative, got %d", cfg.MaxAllocations)
	}
	return nil
}

// DefaultConfig returns the flag defaults.
func DefaultConfig() Config {
	var cfg Config
	cfg.RegisterFlags(flag.NewFlagSet("", flag.ContinueOnError))
	return cfg
}

// LoadConfig reads a YAML config on top of the defaults and validates it.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decoding heap config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid heap config")
	}
	return cfg, nil
}
