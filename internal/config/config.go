// Package config holds geoprove configuration, loaded from YAML with sane
// defaults for everything.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration tree.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
}

// SolverConfig configures the iteration controller and the engine.
type SolverConfig struct {
	// MaxIterations bounds the outer deduce/augment loop.
	MaxIterations int `yaml:"max_iterations"`

	// ReasonerTimeout is the deadline for one external reasoner call,
	// as a time.ParseDuration string.
	ReasonerTimeout string `yaml:"reasoner_timeout"`

	// Parallelism bounds concurrent rule matching within one pass.
	Parallelism int `yaml:"parallelism"`

	// ValidateAxioms checks stated axioms against the diagram coordinates
	// before seeding them.
	ValidateAxioms bool `yaml:"validate_axioms"`
}

// LLMConfig configures the construction proposer.
type LLMConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			MaxIterations:   3,
			ReasonerTimeout: "30s",
			Parallelism:     4,
			ValidateAxioms:  true,
		},
		LLM: LLMConfig{
			Model:     "gemini-2.0-flash",
			APIKeyEnv: "GEMINI_API_KEY",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the solver cannot run with.
func (c *Config) Validate() error {
	if c.Solver.MaxIterations < 1 {
		return fmt.Errorf("solver.max_iterations must be at least 1")
	}
	if _, err := c.ReasonerTimeout(); err != nil {
		return err
	}
	return nil
}

// ReasonerTimeout parses the reasoner deadline.
func (c *Config) ReasonerTimeout() (time.Duration, error) {
	if c.Solver.ReasonerTimeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Solver.ReasonerTimeout)
	if err != nil {
		return 0, fmt.Errorf("solver.reasoner_timeout: %w", err)
	}
	return d, nil
}
