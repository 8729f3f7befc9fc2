// Package commands implements the seriesq CLI subcommands.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/heliolab/seriesq/internal/config"
	"github.com/heliolab/seriesq/internal/engine"
)

type configKey struct{}

type engineKey struct{}

// WithConfig stores the configuration in the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithEngine stores the query engine in the context.
func WithEngine(ctx context.Context, eng *engine.Engine) context.Context {
	return context.WithValue(ctx, engineKey{}, eng)
}

// getConfig retrieves the configuration from the command context, falling
// back to defaults.
func getConfig(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

// getEngine retrieves the query engine from the command context, falling
// back to a default engine.
func getEngine(cmd *cobra.Command) *engine.Engine {
	if eng, ok := cmd.Context().Value(engineKey{}).(*engine.Engine); ok {
		return eng
	}
	return engine.New(engine.Config{})
}
