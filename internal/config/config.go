// Package config defines the verifier's tunable parameters (spec.md §6,
// "request shape") as one struct shared by the wire request body and an
// on-disk YAML defaults file, following the teacher's practice of decoding
// configuration with sigs.k8s.io/yaml rather than hand-rolled flag parsing
// for anything beyond the CLI's own entry point.
package config

import (
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"
)

// VerifyConfig controls one verification call: how far the bounded-search
// ladder climbs, the wall-clock budget, the bag/set/list comparison
// semantics, and which verify.Backend performs the comparison.
type VerifyConfig struct {
	BoundMax  int           `json:"bound_max" yaml:"bound_max"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	Semantics string        `json:"semantics" yaml:"semantics"`
	Backend   string        `json:"backend" yaml:"backend"`
}

// Default returns the spec-mandated defaults: BoundMax=4, Timeout=10s,
// Semantics="bag", Backend="symbolic".
func Default() VerifyConfig {
	return VerifyConfig{
		BoundMax:  4,
		Timeout:   10 * time.Second,
		Semantics: "bag",
		Backend:   "symbolic",
	}
}

// Load reads a YAML (or JSON, a YAML subset) defaults file at path and
// overlays it onto Default(). A missing file is not an error; Load
// returns the defaults unchanged.
func Load(path string) (VerifyConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the verifier cannot act on.
func (c VerifyConfig) Validate() error {
	if c.BoundMax < 1 {
		return fmt.Errorf("config: bound_max must be >= 1, got %d", c.BoundMax)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	switch c.Semantics {
	case "bag", "set", "list":
	default:
		return fmt.Errorf("config: unknown semantics %q", c.Semantics)
	}
	switch c.Backend {
	case "symbolic", "normalize":
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	return nil
}
