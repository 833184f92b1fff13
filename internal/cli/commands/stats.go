package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapbench/internal/cli/output"
	"github.com/leapstack-labs/leapbench/internal/engine"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show memory and storage statistics",
		Long: `Show Go runtime and DuckDB memory usage, DuckDB settings, the number of
tables and the size of the database file.

Keys are flattened with dots, for example duckdb.memory.total.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return renderStats(cmd.Context(), cmdCtx.Renderer, cmdCtx.Engine)
		},
	}
}

// renderStats collects a snapshot and renders it. Sections that could not be
// read are reported as a warning; the rest is still shown.
func renderStats(ctx context.Context, r *output.Renderer, eng *engine.Engine) error {
	snap, err := eng.Stats(ctx)
	if err != nil {
		r.Warning("some statistics are unavailable: " + err.Error())
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(snap)
	}

	entries := snap.Entries()
	t := output.Table{
		Header:     []string{"key", "value"},
		RightAlign: []bool{false, true},
		Rows:       make([][]string, len(entries)),
	}
	for i, e := range entries {
		t.Rows[i] = []string{e.Key, e.Value}
	}
	r.Header(1, "Statistics")
	return r.RenderTable(t)
}
