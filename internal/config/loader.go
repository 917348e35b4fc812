package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names searched in the working directory when no explicit
// path is given.
const (
	ConfigFileName    = "kanaforge.yaml"
	ConfigFileNameAlt = "kanaforge.yml"
)

// findConfigFile finds the config file to use.
// Priority: explicit path > kanaforge.yaml > kanaforge.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	base := Config{}
	base.ApplyDefaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"seed":               base.Seed,
		"generations":        base.Generations,
		"population_size":    base.PopulationSize,
		"workers":            base.Workers,
		"cross_probability":  base.CrossProbability,
		"mutate_probability": base.MutateProbability,
		"save_percent":       base.SavePercent,
		"verbose":            false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// KANAFORGE_POPULATION_SIZE -> population_size
	if err := k.Load(env.Provider("KANAFORGE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "KANAFORGE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Flags override everything; only explicitly set flags are loaded, and
	// --population-size maps onto population_size.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
