// Package testutil provides shared test helpers for structured logging.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Record is a captured log record.
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// Recorder is a slog.Handler that keeps every record for assertions.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// NewRecorder returns a logger backed by a Recorder.
func NewRecorder() (*slog.Logger, *Recorder) {
	r := &Recorder{}
	return slog.New(r), r
}

// Enabled implements slog.Handler.
func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	attrs := make(map[string]string)
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})

	r.mu.Lock()
	r.records = append(r.records, Record{Level: rec.Level, Message: rec.Message, Attrs: attrs})
	r.mu.Unlock()
	return nil
}

// WithAttrs implements slog.Handler. Derived handlers share the record buffer.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &derived{root: r, attrs: attrs}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Records returns a copy of the captured records.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Count returns how many records at level contain substr in their message.
func (r *Recorder) Count(level slog.Level, substr string) int {
	n := 0
	for _, rec := range r.Records() {
		if rec.Level == level && strings.Contains(rec.Message, substr) {
			n++
		}
	}
	return n
}

type derived struct {
	root  *Recorder
	attrs []slog.Attr
}

func (d *derived) Enabled(ctx context.Context, l slog.Level) bool { return d.root.Enabled(ctx, l) }

func (d *derived) Handle(ctx context.Context, rec slog.Record) error {
	rec = rec.Clone()
	rec.AddAttrs(d.attrs...)
	return d.root.Handle(ctx, rec)
}

func (d *derived) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, d.attrs...), attrs...)
	return &derived{root: d.root, attrs: merged}
}

func (d *derived) WithGroup(string) slog.Handler { return d }
