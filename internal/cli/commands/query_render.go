package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/leapstack-labs/leapbench/internal/adapter"
	"github.com/leapstack-labs/leapbench/internal/cli/output"
	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/grid"
	"github.com/leapstack-labs/leapbench/internal/results"
)

// Query output formats accepted by --format.
var queryFormats = []string{"table", "md", "json", "csv"}

// validateFormat rejects unknown --format values.
func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "table", "text", "md", "markdown", "json", "csv":
		return nil
	}
	return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(queryFormats, ", "))
}

// formatRenderer returns a renderer for an explicit --format, or r itself
// when the format follows --output.
func formatRenderer(r *output.Renderer, format string) (*output.Renderer, error) {
	if err := validateFormat(format); err != nil {
		return nil, err
	}
	var mode output.Mode
	switch strings.ToLower(format) {
	case "table", "text":
		mode = output.ModeText
	case "md", "markdown":
		mode = output.ModeMarkdown
	case "json":
		mode = output.ModeJSON
	default:
		return r, nil
	}
	return output.NewRendererWithTTY(r.Writer(), r.ErrWriter(), r.IsTTY(), mode), nil
}

// resultTable renders up to limit rows of res through the grid, so numbers
// and dates read the same as in the workbench. raw keeps the stored values.
// A non-positive limit renders every row.
func resultTable(res *results.Result, gridOpts []grid.Option, limit int64, raw bool) output.Table {
	g := grid.New(res.Table, gridOpts...)
	defer g.Release()

	if limit <= 0 {
		limit = g.Rows()
	}
	view := g.Page(0, limit)

	t := output.Table{
		Header:     make([]string, len(view.Columns)),
		RightAlign: make([]bool, len(view.Columns)),
		Rows:       make([][]string, len(view.Rows)),
	}
	for i, c := range view.Columns {
		t.Header[i] = c.Title
		t.RightAlign[i] = c.Type.Kind.IsNumeric()
	}
	for i, row := range view.Rows {
		cells := make([]string, len(row.Cells))
		for c, cell := range row.Cells {
			if raw {
				cells[c] = cell.Data
			} else {
				cells[c] = cell.DisplayData
			}
		}
		t.Rows[i] = cells
	}

	t.Footer = rowsFooter(int64(len(view.Rows)), view.Total, g.Dropped())
	return t
}

func rowsFooter(shown, total int64, dropped int) string {
	var b strings.Builder
	b.WriteString("(")
	if shown < total {
		fmt.Fprintf(&b, "%s of ", humanize.Comma(shown))
	}
	b.WriteString(humanize.Comma(total))
	b.WriteString(" ")
	b.WriteString(english.PluralWord(int(total), "row", ""))
	if dropped > 0 {
		fmt.Fprintf(&b, ", %s hidden", english.Plural(dropped, "empty column", ""))
	}
	b.WriteString(")")
	return b.String()
}

// renderResult writes res in the requested format.
func renderResult(r *output.Renderer, res *results.Result, gridOpts []grid.Option, format string, limit int64) error {
	if strings.EqualFold(format, "csv") {
		return r.RenderCSV(resultTable(res, gridOpts, limit, true))
	}
	fr, err := formatRenderer(r, format)
	if err != nil {
		return err
	}
	raw := fr.EffectiveMode() == output.ModeJSON
	return fr.RenderTable(resultTable(res, gridOpts, limit, raw))
}

// executeAndRender runs sqlStr and renders the result.
func executeAndRender(ctx context.Context, r *output.Renderer, eng *engine.Engine, gridOpts []grid.Option, sqlStr, format string, limit int64) error {
	res, err := eng.Execute(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer res.Release()

	if err := renderResult(r, res, gridOpts, format, limit); err != nil {
		return err
	}
	if strings.EqualFold(format, "csv") {
		return nil
	}
	if fr, _ := formatRenderer(r, format); fr != nil && fr.EffectiveMode() == output.ModeText {
		r.Muted(fmt.Sprintf("Time: %s", res.Elapsed.Round(time.Microsecond)))
	}
	return nil
}

// listTables renders the registered tables.
func listTables(ctx context.Context, r *output.Renderer, eng *engine.Engine, format string) error {
	tables, err := eng.Tables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	t := tablesTable(tables)
	if strings.EqualFold(format, "csv") {
		return r.RenderCSV(t)
	}
	fr, err := formatRenderer(r, format)
	if err != nil {
		return err
	}
	return fr.RenderTable(t)
}

func tablesTable(tables []adapter.TableInfo) output.Table {
	t := output.Table{
		Header:     []string{"name", "columns", "rows"},
		RightAlign: []bool{false, true, true},
		Rows:       make([][]string, len(tables)),
		Footer:     "(" + english.Plural(len(tables), "table", "") + ")",
	}
	for i, ti := range tables {
		t.Rows[i] = []string{ti.Name, humanize.Comma(ti.Columns), humanize.Comma(ti.EstimatedRows)}
	}
	return t
}

// showSchema renders the columns of one table.
func showSchema(ctx context.Context, r *output.Renderer, eng *engine.Engine, gridOpts []grid.Option, table, format string) error {
	res, err := eng.Execute(ctx, "DESCRIBE "+adapter.QuoteIdent(table))
	if err != nil {
		return fmt.Errorf("table or view '%s' not found: %w", table, err)
	}
	defer res.Release()
	return renderResult(r, res, gridOpts, format, 0)
}
