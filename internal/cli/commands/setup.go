package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pivotsql/internal/cli/config"
	"github.com/leapstack-labs/pivotsql/pkg/adapter"
	"github.com/leapstack-labs/pivotsql/pkg/dialect"
)

// commandContext bundles everything an executing command needs: the
// loaded config, a logger honoring --verbose, and a connected adapter
// for the resolved target.
type commandContext struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	DB      adapter.Adapter
	Dialect *dialect.Dialect
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openTarget resolves the configured target, connects its adapter and
// returns a commandContext plus a cleanup func that closes the
// connection.
func openTarget(ctx context.Context, cmd *cobra.Command) (*commandContext, func(), error) {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = &config.Config{
			Environment:  config.DefaultEnv,
			OutputFormat: config.DefaultOutput,
			CaseFold:     config.DefaultCaseFold,
		}
	}
	logger := newLogger(cfg.Verbose)

	override, _ := cmd.Root().PersistentFlags().GetString("target")
	target, err := cfg.ResolveTarget(override)
	if err != nil {
		return nil, nil, err
	}

	adapterCfg := target.AdapterConfig()
	db, err := adapter.NewAdapter(adapterCfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Connect(ctx, adapterCfg); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close connection", "error", err)
		}
	}

	return &commandContext{
		Cfg:     cfg,
		Logger:  logger,
		DB:      db,
		Dialect: db.Dialect().WithFold(cfg.Fold()),
	}, cleanup, nil
}

// outputFormat returns the --format flag if set on the command,
// otherwise the configured default.
func outputFormat(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("format") {
		format, _ := cmd.Flags().GetString("format")
		return format
	}
	return cfg.OutputFormat
}
