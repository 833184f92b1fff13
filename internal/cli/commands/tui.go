package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapbench/internal/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal workbench",
		Long: `Start the workbench in the terminal.

Panels follow the same layout as the browser workbench. Tab moves focus,
Alt+Enter runs the editor contents, PgUp/PgDn page through results and
Ctrl+C quits.`,
		Example: `  leapbench tui --database bench.duckdb`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			cfg, logger := cmdCtx.Cfg, cmdCtx.Logger

			model, err := loadLayout(cfg)
			if err != nil {
				return err
			}
			gridOpts, err := gridOptions(cfg, logger)
			if err != nil {
				return err
			}
			eng, err := createEngine(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create engine: %w", err)
			}
			defer func() { _ = eng.Close() }()

			return tui.Run(cmd.Context(), tui.Config{
				Engine:      eng,
				Layout:      model,
				GridOptions: gridOpts,
				Timeout:     cfg.QueryTimeout,
				Logger:      logger,
			})
		},
	}
}
