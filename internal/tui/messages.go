package tui

import (
	"time"

	"github.com/leapstack-labs/leapbench/internal/adapter"
	"github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/notifier"
	"github.com/leapstack-labs/leapbench/internal/stats"
)

// ConnectedMsg reports that the background database open finished.
type ConnectedMsg struct {
	Err error
}

type queryDoneMsg struct {
	rows    int64
	elapsed time.Duration
	err     error
}

type importDoneMsg struct {
	outcomes []imports.Outcome
	err      error
}

type statsMsg struct {
	entries []stats.Entry
	err     error
}

type tablesMsg struct {
	tables []adapter.TableInfo
}

type topicMsg struct {
	topic notifier.Topic
}
