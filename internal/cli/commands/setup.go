package commands

import (
	"fmt"
	"log/slog"

	"github.com/primebrains/sqltools/internal/cli/config"
	intconfig "github.com/primebrains/sqltools/internal/config"
	"github.com/primebrains/sqltools/internal/state"
	"github.com/primebrains/sqltools/pkg/adapter"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext collects the configuration and logger prepared by the
// root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    getConfig(),
		Logger: config.GetLogger(cmd.Context()),
	}
}

// Connect resolves the selected database entry and returns a connected
// adapter together with its cleanup function.
func (c *CommandContext) Connect(cmd *cobra.Command) (adapter.Adapter, func(), error) {
	entry, err := c.Cfg.SelectedDatabase()
	if err != nil {
		return nil, nil, err
	}

	target, err := intconfig.ResolveTarget(entry)
	if err != nil {
		return nil, nil, fmt.Errorf("database %q: %w", c.Cfg.Database, err)
	}
	if err := intconfig.Validate(target); err != nil {
		return nil, nil, fmt.Errorf("database %q: %w", c.Cfg.Database, err)
	}

	adp, err := adapter.NewAdapter(target, c.Logger)
	if err != nil {
		return nil, nil, err
	}

	c.Logger.Debug("connecting", slog.String("database", c.Cfg.Database), slog.String("type", target.Type))
	if err := adp.Connect(cmd.Context(), target); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database %q: %w", c.Cfg.Database, err)
	}

	cleanup := func() {
		if err := adp.Close(); err != nil {
			c.Logger.Warn("failed to close database", slog.String("error", err.Error()))
		}
	}
	return adp, cleanup, nil
}

// OpenStore opens the history store when a state path is configured.
// It returns a nil store when history is disabled.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	if c.Cfg.StatePath == "" {
		return nil, nil
	}
	store, err := state.Open(c.Cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, nil
}

// getConfig returns the current configuration, or the defaults when the
// root command did not load one.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Database:  config.DefaultDatabase,
		OutputDir: config.DefaultOutputDir,
		Format:    config.DefaultFormat,
		Jobs:      config.DefaultJobs,
	}
}
