package commands

import (
	"context"

	"github.com/kanaforge/kanaforge/internal/config"
)

// configKey is used to store the loaded config in the command context.
type configKey struct{}

// WithConfig stores the loaded config for commands to pick up.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// getConfig retrieves the config from the command context, falling back to
// defaults when the root command did not load one (tests invoking a
// subcommand directly).
func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return cfg
}
