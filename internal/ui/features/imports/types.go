package imports

import (
	"github.com/leapstack-labs/leapbench/internal/adapter"
	importer "github.com/leapstack-labs/leapbench/internal/imports"
)

// maxUploadMemory is how much of a multipart upload is held in memory before
// spilling to disk.
const maxUploadMemory = 32 << 20

// OutcomeView is one line of the import report.
type OutcomeView struct {
	Status   string
	Message  string
	Oversize bool
}

// TableView is one registered table.
type TableView struct {
	Name    string
	Columns int64
	Rows    int64
}

// PanelView is the import panel content.
type PanelView struct {
	Accept      string
	Description string
	MaxFiles    int
	Outcomes    []OutcomeView
	Tables      []TableView
}

func outcomeViews(outcomes []importer.Outcome) []OutcomeView {
	views := make([]OutcomeView, len(outcomes))
	for i, o := range outcomes {
		views[i] = OutcomeView{Status: string(o.Status), Message: o.Message(), Oversize: o.Oversize}
	}
	return views
}

func tableViews(tables []adapter.TableInfo) []TableView {
	views := make([]TableView, len(tables))
	for i, t := range tables {
		views[i] = TableView{Name: t.Name, Columns: t.Columns, Rows: t.EstimatedRows}
	}
	return views
}
