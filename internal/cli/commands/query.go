package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
	Limit  int64
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against the workbench database",
		Long: `Run SQL against the embedded DuckDB database.

Numbers and dates are formatted the same way as in the workbench grid; csv and
json output keep the stored values. Columns that are entirely empty are hidden.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  leapbench query "SELECT 42 AS answer"

  # List registered tables
  leapbench query tables

  # Show the columns of a table
  leapbench query schema sales_q1

  # Export as CSV
  leapbench query "SELECT * FROM sales_q1" --format csv > sales.csv

  # Interactive mode
  leapbench query --database bench.duckdb`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	// Flags
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, md, json, csv (default follows --output)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().Int64Var(&opts.Limit, "limit", 0, "Render at most this many rows (0 for all)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return queryFormats, cobra.ShellCompDirectiveNoFileComp
	})

	// Subcommands
	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	// Determine SQL source
	var sqlQuery string
	interactive := false

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(cmd.InOrStdin()):
		// Read from stdin (piped input)
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		interactive = true
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	gridOpts, err := gridOptions(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	if interactive {
		return runQueryREPL(cmd, cmdCtx, gridOpts, opts)
	}
	return executeAndRender(cmd.Context(), cmdCtx.Renderer, cmdCtx.Engine, gridOpts, sqlQuery, opts.Format, opts.Limit)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List registered tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return listTables(cmd.Context(), cmdCtx.Renderer, cmdCtx.Engine, opts.Format)
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show the columns of a table or view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			gridOpts, err := gridOptions(cmdCtx.Cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}
			return showSchema(cmd.Context(), cmdCtx.Renderer, cmdCtx.Engine, gridOpts, args[0], opts.Format)
		},
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
