package sqleditor

import "github.com/leapstack-labs/leapbench/internal/engine"

// DefaultSQL is the editor text shown before anything was run.
const DefaultSQL = engine.DefaultSQL

const (
	sessionName   = "leapbench"
	sessionKeySQL = "sql"
)

// Signals represents the signals sent from the frontend.
type Signals struct {
	SQL string `json:"sql"`
}

// EditorView is what the editor panel renders.
type EditorView struct {
	SQL string
	// Signals is the JSON object seeding the datastar store.
	Signals string
}
