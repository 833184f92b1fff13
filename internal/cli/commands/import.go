package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapbench/internal/adapter"
	"github.com/leapstack-labs/leapbench/internal/cli/output"
	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/imports"
)

// ImportOptions holds options for the import command.
type ImportOptions struct {
	Query string
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import <file> [file...]",
		Short: "Register files as tables",
		Long: `Register CSV, Parquet, Arrow and spreadsheet files as tables.

Each file becomes a table named after the file: "Sales Q1.csv" becomes
sales_q1. Compressed CSV (.gz, .zst, .xz) is decompressed first. Files are
imported independently; one failure does not stop the rest.

With the default in-memory database the tables disappear when the command
exits, so pass --database to keep them or --query to use them right away.`,
		Example: `  # Import into a persistent database
  leapbench import "Sales Q1.csv" orders.parquet --database bench.duckdb

  # Import and query in one go
  leapbench import sales.csv.gz --query "SELECT count(*) FROM sales"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "SQL to run after importing")
	return cmd
}

func runImport(cmd *cobra.Command, paths []string, opts *ImportOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	r := cmdCtx.Renderer

	if cmdCtx.Engine.DatabasePath() == adapter.MemoryPath && opts.Query == "" {
		r.Warning("importing into an in-memory database; tables are dropped on exit (use --database to keep them)")
	}

	outcomes, err := importFiles(ctx, r, cmdCtx.Engine, paths)
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Status != imports.StatusImported {
			failed++
		}
	}

	if opts.Query != "" {
		gridOpts, err := gridOptions(cmdCtx.Cfg, cmdCtx.Logger)
		if err != nil {
			return err
		}
		r.Println()
		if err := executeAndRender(ctx, r, cmdCtx.Engine, gridOpts, opts.Query, "", 0); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files were not imported", failed, len(outcomes))
	}
	return nil
}

// importFiles imports local paths and renders one line (or row) per file.
func importFiles(ctx context.Context, r *output.Renderer, eng *engine.Engine, paths []string) ([]imports.Outcome, error) {
	files, missing := imports.FromPaths(paths)
	outcomes, err := eng.Import(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}
	outcomes = append(outcomes, missing...)
	renderOutcomes(r, outcomes)
	return outcomes, nil
}

// outcomeView is the JSON shape of an import outcome.
type outcomeView struct {
	File     string `json:"file"`
	Table    string `json:"table,omitempty"`
	Size     int64  `json:"size"`
	Status   string `json:"status"`
	Oversize bool   `json:"oversize,omitempty"`
	Error    string `json:"error,omitempty"`
}

func renderOutcomes(r *output.Renderer, outcomes []imports.Outcome) {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		views := make([]outcomeView, len(outcomes))
		for i, o := range outcomes {
			views[i] = outcomeView{File: o.File, Size: o.Size, Status: string(o.Status), Oversize: o.Oversize}
			if o.Status == imports.StatusImported {
				views[i].Table = o.Table
			}
			if o.Err != nil {
				views[i].Error = o.Err.Error()
			}
		}
		_ = r.JSON(views)
	case output.ModeMarkdown:
		_ = r.RenderTable(outcomesTable(outcomes))
	default:
		for _, o := range outcomes {
			switch {
			case o.Status != imports.StatusImported:
				r.StatusLine(o.File, "failure", fmt.Sprint(o.Err))
			case o.Oversize:
				r.StatusLine(o.Message(), "warning", "larger than the advisory size")
			default:
				r.StatusLine(o.Message(), "success", "")
			}
		}
	}
}

func outcomesTable(outcomes []imports.Outcome) output.Table {
	t := output.Table{
		Header:     []string{"file", "table", "size", "status"},
		RightAlign: []bool{false, false, true, false},
		Rows:       make([][]string, len(outcomes)),
	}
	for i, o := range outcomes {
		status := string(o.Status)
		table := o.Table
		if o.Err != nil {
			status += ": " + o.Err.Error()
		}
		if o.Status != imports.StatusImported {
			table = ""
		}
		t.Rows[i] = []string{o.File, table, humanize.Bytes(uint64(max(o.Size, 0))), status}
	}
	return t
}
