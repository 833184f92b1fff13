package results

import (
	"time"

	"github.com/leapstack-labs/leapbench/internal/grid"
)

// DefaultPageSize is the number of rows rendered per page.
const DefaultPageSize = 100

// ColumnView is one rendered column header.
type ColumnView struct {
	Title   string
	Glyph   string
	Icon    string
	Width   int
	Numeric bool
}

// CellView is one rendered cell.
type CellView struct {
	Display string
	Raw     string
	// Background is empty when the default color applies.
	Background string
	Numeric    bool
}

// RowView is one rendered row with its marker.
type RowView struct {
	Number int64
	Cells  []CellView
}

// ResultView is the results panel content.
type ResultView struct {
	Empty   bool
	SQL     string
	Total   int64
	Elapsed string
	Dropped int64

	Columns []ColumnView
	Rows    []RowView

	First, Last int64
	HasPrev     bool
	HasNext     bool
	PrevOffset  int64
	NextOffset  int64
}

// newResultView converts a grid page into template data.
func newResultView(sql string, elapsed time.Duration, dropped int, page grid.View, pageSize int64) ResultView {
	v := ResultView{
		SQL:     sql,
		Total:   page.Total,
		Elapsed: elapsed.Round(time.Millisecond).String(),
		Dropped: int64(dropped),
		HasPrev: page.HasPrev(),
		HasNext: page.HasNext(),
	}

	v.Columns = make([]ColumnView, len(page.Columns))
	for i, c := range page.Columns {
		v.Columns[i] = ColumnView{
			Title:   c.Title,
			Glyph:   c.Icon.Glyph(),
			Icon:    string(c.Icon),
			Width:   c.Width,
			Numeric: c.Type.Kind.IsNumeric(),
		}
	}

	v.Rows = make([]RowView, len(page.Rows))
	for i, row := range page.Rows {
		cells := make([]CellView, len(row.Cells))
		for j, cell := range row.Cells {
			bg := cell.Theme.BgCell
			if bg == grid.DefaultBackground {
				bg = ""
			}
			cells[j] = CellView{
				Display:    cell.DisplayData,
				Raw:        cell.Data,
				Background: bg,
				Numeric:    j < len(v.Columns) && v.Columns[j].Numeric,
			}
		}
		v.Rows[i] = RowView{Number: row.Number, Cells: cells}
	}

	if len(page.Rows) > 0 {
		v.First = page.Offset + 1
		v.Last = page.Offset + int64(len(page.Rows))
	}
	v.PrevOffset = max(0, page.Offset-pageSize)
	v.NextOffset = page.Offset + int64(len(page.Rows))
	return v
}
