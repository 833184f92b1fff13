package grid

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Cell defaults.
const (
	CellKindText       = "text"
	DefaultBackground  = "#fff"
	DefaultBorderColor = "#00ff51"
)

// Theme carries per-cell visual overrides.
type Theme struct {
	BgCell      string `json:"bgCell"`
	BorderColor string `json:"borderColor"`
}

// Cell is the renderable content of one grid position.
type Cell struct {
	Kind         string `json:"kind"`
	Data         string `json:"data"`
	DisplayData  string `json:"displayData"`
	Theme        Theme  `json:"themeOverride"`
	AllowOverlay bool   `json:"allowOverlay"`
	Readonly     bool   `json:"readonly"`
}

// OverlayFunc returns an in-progress value for a cell, if any.
type OverlayFunc func(col, row int) (any, bool)

// BackgroundFunc returns a background color override for a cell, if any.
type BackgroundFunc func(col, row int) (string, bool)

// Option configures a Grid.
type Option func(*Grid)

// WithOverlay sets the overlay lookup consulted before stored values.
func WithOverlay(fn OverlayFunc) Option {
	return func(g *Grid) { g.overlay = fn }
}

// WithBackground sets the per-cell background callback.
func WithBackground(fn BackgroundFunc) Option {
	return func(g *Grid) { g.background = fn }
}

// WithNullColumns keeps null-typed columns visible.
func WithNullColumns() Option {
	return func(g *Grid) { g.showNull = true }
}

// WithFormatter sets the value formatter.
func WithFormatter(f *Formatter) Option {
	return func(g *Grid) {
		if f != nil {
			g.formatter = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Grid) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Grid is a read-only cell view over an Arrow table.
// Column indices always refer to the filtered view, never the source table.
type Grid struct {
	table      arrow.Table
	types      []LogicalType
	columns    []Column
	formatter  *Formatter
	overlay    OverlayFunc
	background BackgroundFunc
	showNull   bool
	dropped    int
	logger     *slog.Logger
}

// New builds a Grid over tbl. The grid holds its own reference to the data;
// call Release when done. A nil table yields an empty grid.
func New(tbl arrow.Table, opts ...Option) *Grid {
	g := &Grid{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.formatter == nil {
		g.formatter = NewFormatter(WithFormatterLogger(g.logger))
	}

	g.table = g.filter(tbl)
	g.types = make([]LogicalType, g.table.NumCols())
	for i := range g.types {
		g.types[i] = LogicalTypeOf(g.table.Column(i).DataType())
	}
	g.columns = g.buildColumns()
	return g
}

// filter returns a retained view of tbl without null-typed columns.
func (g *Grid) filter(tbl arrow.Table) arrow.Table {
	if tbl == nil {
		return array.NewTable(arrow.NewSchema(nil, nil), nil, 0)
	}
	if g.showNull {
		tbl.Retain()
		return tbl
	}

	schema := tbl.Schema()
	fields := make([]arrow.Field, 0, schema.NumFields())
	cols := make([]arrow.Column, 0, schema.NumFields())
	for i, field := range schema.Fields() {
		if field.Type.ID() == arrow.NULL {
			g.logger.Warn("dropping null-typed column", "column", field.Name)
			g.dropped++
			continue
		}
		fields = append(fields, field)
		cols = append(cols, *tbl.Column(i))
	}

	if g.dropped == 0 {
		tbl.Retain()
		return tbl
	}

	md := schema.Metadata()
	return array.NewTable(arrow.NewSchema(fields, &md), cols, tbl.NumRows())
}

func (g *Grid) buildColumns() []Column {
	columns := make([]Column, len(g.types))
	for i, t := range g.types {
		name := g.table.Schema().Field(i).Name
		sample := ""
		if g.table.NumRows() > 0 {
			sample = g.Cell(i, 0).DisplayData
		}
		columns[i] = Column{
			ID:    name,
			Title: name,
			Icon:  IconFor(t),
			Width: WidthHint(sample, name),
			Type:  t,
			Index: i,
		}
	}
	return columns
}

// Columns returns the visible column descriptors.
func (g *Grid) Columns() []Column {
	return g.columns
}

// Rows returns the number of rows.
func (g *Grid) Rows() int64 {
	if g.table == nil {
		return 0
	}
	return g.table.NumRows()
}

// Dropped returns how many null-typed columns were hidden.
func (g *Grid) Dropped() int {
	return g.dropped
}

// Release drops the grid's reference to the table.
func (g *Grid) Release() {
	if g.table != nil {
		g.table.Release()
		g.table = nil
	}
}

// Cell returns the formatted cell at (col, row). Out-of-range positions
// yield an empty text cell.
func (g *Grid) Cell(col, row int) Cell {
	value, raw := g.value(col, row)

	t := LogicalType{Kind: KindText}
	if col >= 0 && col < len(g.types) {
		t = g.types[col]
	}
	display := g.formatter.Format(value, t)

	bg := DefaultBackground
	if g.background != nil {
		if c, ok := g.background(col, row); ok && c != "" {
			bg = c
		}
	}

	return Cell{
		Kind:         CellKindText,
		Data:         raw,
		DisplayData:  display,
		Theme:        Theme{BgCell: bg, BorderColor: DefaultBorderColor},
		AllowOverlay: true,
		Readonly:     false,
	}
}

// value resolves overlay, then stored value, then the empty string.
func (g *Grid) value(col, row int) (any, string) {
	if g.overlay != nil {
		if v, ok := g.overlay(col, row); ok && v != nil {
			return v, defaultString(v)
		}
	}
	if g.table == nil || col < 0 || col >= int(g.table.NumCols()) || row < 0 || int64(row) >= g.table.NumRows() {
		return "", ""
	}

	arr, i, ok := locate(g.table.Column(col).Data(), row)
	// Null arrays carry no validity bitmap, so IsNull reports false.
	if !ok || arr.DataType().ID() == arrow.NULL || arr.IsNull(i) {
		return "", ""
	}
	return scalar(arr, i), arr.ValueStr(i)
}

// locate finds the chunk holding row and the offset within it.
func locate(chunked *arrow.Chunked, row int) (arrow.Array, int, bool) {
	for _, arr := range chunked.Chunks() {
		n := arr.Len()
		if row < n {
			return arr, row, true
		}
		row -= n
	}
	return nil, 0, false
}

// scalar extracts a Go value for the formatter.
func scalar(arr arrow.Array, i int) any {
	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return uint64(a.Value(i))
	case *array.Uint16:
		return uint64(a.Value(i))
	case *array.Uint32:
		return uint64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	case *array.Float16:
		return float64(a.Value(i).Float32())
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Decimal128:
		return a.Value(i)
	case *array.Decimal256:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.Date32:
		return a.Value(i)
	case *array.Date64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	default:
		return arr.ValueStr(i)
	}
}

// Row is one rendered row of a View.
type Row struct {
	// Number is the 1-based row marker.
	Number int64  `json:"number"`
	Cells  []Cell `json:"cells"`
}

// View is a window of rendered rows.
type View struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
	Offset  int64    `json:"offset"`
	Total   int64    `json:"total"`
}

// HasPrev reports whether rows exist before the window.
func (v View) HasPrev() bool { return v.Offset > 0 }

// HasNext reports whether rows exist after the window.
func (v View) HasNext() bool { return v.Offset+int64(len(v.Rows)) < v.Total }

// Page renders up to limit rows starting at offset. Offsets are clamped into
// range; a non-positive limit renders no rows.
func (g *Grid) Page(offset, limit int64) View {
	total := g.Rows()
	offset = max(0, min(offset, total))
	end := offset
	if limit > 0 {
		end = min(total, offset+limit)
	}

	view := View{
		Columns: g.columns,
		Rows:    make([]Row, 0, end-offset),
		Offset:  offset,
		Total:   total,
	}
	for r := offset; r < end; r++ {
		cells := make([]Cell, len(g.columns))
		for c := range g.columns {
			cells[c] = g.Cell(c, int(r))
		}
		view.Rows = append(view.Rows, Row{Number: r + 1, Cells: cells})
	}
	return view
}
