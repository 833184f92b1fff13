package output

import (
	"encoding/csv"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table is a rendered grid of strings.
type Table struct {
	Header []string
	Rows   [][]string
	// RightAlign marks numeric columns.
	RightAlign []bool
	// Footer is printed under text and markdown tables.
	Footer string
}

func (t Table) writer() table.Writer {
	tw := table.NewWriter()
	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range t.Rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		tw.AppendRow(r)
	}

	var configs []table.ColumnConfig
	for i, right := range t.RightAlign {
		if right {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	tw.SetColumnConfigs(configs)
	return tw
}

// RenderTable writes t as a box-drawn table in text mode, a pipe table in
// markdown mode, or an array of objects in JSON mode.
func (r *Renderer) RenderTable(t Table) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		objs := make([]map[string]string, len(t.Rows))
		for i, row := range t.Rows {
			obj := make(map[string]string, len(t.Header))
			for c, h := range t.Header {
				if c < len(row) {
					obj[h] = row[c]
				}
			}
			objs[i] = obj
		}
		return r.JSON(objs)
	case ModeMarkdown:
		tw := t.writer()
		r.Println(tw.RenderMarkdown())
	default:
		tw := t.writer()
		tw.SetStyle(table.StyleLight)
		tw.Style().Format.Header = text.FormatDefault
		r.Println(tw.Render())
	}
	if t.Footer != "" {
		r.Muted(t.Footer)
	}
	return nil
}

// RenderCSV writes t as RFC 4180 CSV.
func (r *Renderer) RenderCSV(t Table) error {
	w := csv.NewWriter(r.out)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
