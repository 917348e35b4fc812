// Package config provides configuration management for kanaforge.
// Configuration merges, in ascending precedence: built-in defaults, a YAML
// config file, KANAFORGE_-prefixed environment variables, and CLI flags.
package config

import (
	"fmt"

	"github.com/kanaforge/kanaforge/pkg/optimizer"
)

// Config holds all run configuration options.
type Config struct {
	// Seed drives every random draw of a run; identical seeds reproduce
	// identical runs.
	Seed uint64 `koanf:"seed"`

	// Generations is the number of generational steps per run.
	Generations int `koanf:"generations"`

	PopulationSize    int     `koanf:"population_size"`
	Workers           int     `koanf:"workers"`
	CrossProbability  float64 `koanf:"cross_probability"`
	MutateProbability float64 `koanf:"mutate_probability"`
	SavePercent       float64 `koanf:"save_percent"`

	// Conjunctions and Frequencies are the corpus input files (TSV).
	Conjunctions string `koanf:"conjunctions"`
	Frequencies  string `koanf:"frequencies"`

	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultSeed        = 9
	DefaultGenerations = 100
)

// ApplyDefaults fills unset values from the optimizer defaults.
func (c *Config) ApplyDefaults() {
	base := optimizer.DefaultConfig()
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Generations == 0 {
		c.Generations = DefaultGenerations
	}
	if c.PopulationSize == 0 {
		c.PopulationSize = base.PopulationSize
	}
	if c.Workers == 0 {
		c.Workers = base.Workers
	}
	if c.CrossProbability == 0 {
		c.CrossProbability = base.CrossProbability
	}
	if c.MutateProbability == 0 {
		c.MutateProbability = base.MutateProbability
	}
	if c.SavePercent == 0 {
		c.SavePercent = base.SavePercent
	}
}

// Validate checks the configuration for values the optimizer would reject.
func (c *Config) Validate() error {
	if c.Generations <= 0 {
		return fmt.Errorf("generations must be positive, got %d", c.Generations)
	}
	if c.PopulationSize <= 0 {
		return fmt.Errorf("population_size must be positive, got %d", c.PopulationSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.CrossProbability < 0 || c.MutateProbability < 0 ||
		c.CrossProbability+c.MutateProbability > 1 {
		return fmt.Errorf("cross_probability and mutate_probability must stay within [0,1] combined")
	}
	if c.SavePercent <= 0 || c.SavePercent > 1 {
		return fmt.Errorf("save_percent must be in (0,1], got %v", c.SavePercent)
	}
	return nil
}

// Optimizer maps the run configuration onto the search parameters.
func (c *Config) Optimizer() optimizer.Config {
	return optimizer.Config{
		PopulationSize:    c.PopulationSize,
		Workers:           c.Workers,
		CrossProbability:  c.CrossProbability,
		MutateProbability: c.MutateProbability,
		SavePercent:       c.SavePercent,
	}
}
