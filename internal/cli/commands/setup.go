package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapbench/internal/adapter"
	"github.com/leapstack-labs/leapbench/internal/cli/config"
	"github.com/leapstack-labs/leapbench/internal/cli/output"
	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/grid"
	"github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/layout"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an open engine.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := eng.Open(cmd.Context()); err != nil {
		return nil, nil, err
	}
	cmdCtx.Engine = eng

	cleanup := func() {
		if err := eng.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close engine", "error", err)
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't need database access, or that open it themselves.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(contextOf(cmd)),
		Renderer: r,
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// getConfig returns the configuration loaded by the root command, or the
// defaults when a command runs on its own (as in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		DatabasePath: config.DefaultDatabase,
		OutputFormat: config.DefaultOutput,
		Locale:       config.DefaultLocale,
		UI: config.UIConfig{
			Port:     config.DefaultPort,
			AutoOpen: true,
			PageSize: config.DefaultPageSize,
		},
		Import: config.ImportConfig{
			MaxFiles: imports.DefaultMaxFiles,
			SizeHint: imports.DefaultSizeHint,
		},
	}
}

// createEngine builds an engine from the configuration. The database is not
// opened.
func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	if cfg.DatabasePath != "" && cfg.DatabasePath != adapter.MemoryPath {
		if dir := filepath.Dir(cfg.DatabasePath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	return engine.New(engine.Config{
		Adapter: adapter.Config{
			Path:        cfg.DatabasePath,
			Threads:     cfg.DuckDB.Threads,
			MemoryLimit: cfg.DuckDB.MemoryLimit,
		},
		Import: imports.Config{
			MaxFiles: cfg.Import.MaxFiles,
			SizeHint: cfg.Import.SizeHint,
			SpoolDir: cfg.Import.SpoolDir,
		},
		QueryTimeout: cfg.QueryTimeout,
		Logger:       logger,
	}), nil
}

// gridOptions turns the grid and locale settings into grid options.
func gridOptions(cfg *config.Config, logger *slog.Logger) ([]grid.Option, error) {
	tag, err := cfg.LocaleTag()
	if err != nil {
		return nil, err
	}
	opts := []grid.Option{
		grid.WithFormatter(grid.NewFormatter(grid.WithLocale(tag), grid.WithFormatterLogger(logger))),
		grid.WithLogger(logger),
	}
	if cfg.Grid.ShowNullColumns {
		opts = append(opts, grid.WithNullColumns())
	}
	return opts, nil
}

// loadLayout returns the configured layout file, or nil for the default.
func loadLayout(cfg *config.Config) (*layout.Model, error) {
	if cfg.LayoutFile == "" {
		return nil, nil
	}
	m, err := layout.LoadFile(cfg.LayoutFile)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
