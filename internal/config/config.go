// Package config loads the optional YAML run configuration that overrides
// the simulator's register seed value and opcode latency table.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the simulator's optional run configuration.
type Config struct {
	// RegisterSeed is the value every floating-point register is
	// initialized to at the start of a run.
	RegisterSeed float64 `yaml:"registerSeed"`

	// Latencies overrides the canonical opcode -> latency table. Any
	// opcode omitted keeps its canonical latency.
	Latencies map[string]int64 `yaml:"latencies"`

	// Format selects the schedule writer: "csv" (default) or "json".
	Format string `yaml:"format"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validateConfig checks that a loaded configuration is self-consistent.
func validateConfig(cfg *Config) error {
	if cfg.RegisterSeed != cfg.RegisterSeed { // NaN
		return fmt.Errorf("registerSeed must not be NaN")
	}

	for op, lat := range cfg.Latencies {
		if lat <= 0 {
			return fmt.Errorf("latency for %q must be positive, got %d", op, lat)
		}
	}

	switch cfg.Format {
	case "csv", "json":
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.Format)
	}

	return nil
}

// DefaultConfig returns the configuration used when no --config flag is
// given: the canonical register seed, the canonical latency table, and CSV
// output.
func DefaultConfig() *Config {
	return &Config{
		RegisterSeed: 3.146762983,
		Latencies: map[string]int64{
			"FADD.S": 3, "FSUB.S": 3,
			"FADD.D": 5, "FSUB.D": 5,
			"FMUL.S": 4, "FMUL.D": 6,
			"FDIV.S": 10, "FDIV.D": 16,
			"FMOV.S": 1, "FMOV.D": 1,
		},
		Format: "csv",
	}
}
