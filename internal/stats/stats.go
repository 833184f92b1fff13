// Package stats gathers memory and storage statistics for the workbench.
package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// Bytes marks a value as a byte quantity for display.
type Bytes int64

// Snapshot is a nested statistics tree.
type Snapshot map[string]any

// Querier is the slice of *sql.DB the collector needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Collector reads statistics from the Go runtime and DuckDB.
type Collector struct {
	db     Querier
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewCollector creates a Collector. db may be nil, in which case only runtime
// statistics are reported. path is the database file, or ":memory:".
func NewCollector(db Querier, path string, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{db: db, path: path, logger: logger, now: time.Now}
}

// Collect takes a snapshot. Sections that fail are logged and left out; the
// joined error reports them while the rest of the snapshot stays usable.
func (c *Collector) Collect(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{
		"collectedAt": c.now().UTC().Format(time.RFC3339),
		"runtime":     runtimeStats(),
	}

	if fi, err := os.Stat(c.path); err == nil && !fi.IsDir() {
		snap["storage"] = map[string]any{
			"path": c.path,
			"size": Bytes(fi.Size()),
		}
	}

	if c.db == nil {
		return snap, nil
	}

	duck := map[string]any{}
	var errs []error

	if mem, err := c.memory(ctx); err != nil {
		c.logger.Warn("failed to read duckdb memory", "error", err)
		errs = append(errs, err)
	} else {
		duck["memory"] = mem
	}

	if settings, err := c.settings(ctx); err != nil {
		c.logger.Warn("failed to read duckdb settings", "error", err)
		errs = append(errs, err)
	} else {
		duck["settings"] = settings
	}

	if n, err := c.tableCount(ctx); err != nil {
		c.logger.Warn("failed to count tables", "error", err)
		errs = append(errs, err)
	} else {
		duck["tables"] = n
	}

	if len(duck) > 0 {
		snap["duckdb"] = duck
	}
	return snap, errors.Join(errs...)
}

func runtimeStats() map[string]any {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return map[string]any{
		"heapAlloc":  Bytes(m.HeapAlloc),
		"heapSys":    Bytes(m.HeapSys),
		"sys":        Bytes(m.Sys),
		"numGC":      int64(m.NumGC),
		"goroutines": int64(runtime.NumGoroutine()),
	}
}

// memory reports DuckDB memory usage by tag, skipping empty tags.
func (c *Collector) memory(ctx context.Context) (map[string]any, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT tag, memory_usage_bytes, temporary_storage_bytes FROM duckdb_memory()")
	if err != nil {
		return nil, fmt.Errorf("failed to query duckdb_memory: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := map[string]any{}
	var total, temp int64
	for rows.Next() {
		var tag string
		var used, tmp int64
		if err := rows.Scan(&tag, &used, &tmp); err != nil {
			return nil, fmt.Errorf("failed to scan duckdb_memory: %w", err)
		}
		total += used
		temp += tmp
		if used > 0 {
			out[tag] = Bytes(used)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating duckdb_memory: %w", err)
	}
	out["total"] = Bytes(total)
	out["temporary"] = Bytes(temp)
	return out, nil
}

func (c *Collector) settings(ctx context.Context) (map[string]any, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT current_setting('memory_limit'), current_setting('threads')")
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
		return nil, errors.New("settings query returned no rows")
	}
	var limit string
	var threads int64
	if err := rows.Scan(&limit, &threads); err != nil {
		return nil, fmt.Errorf("failed to scan settings: %w", err)
	}
	return map[string]any{"memory_limit": limit, "threads": threads}, nil
}

func (c *Collector) tableCount(ctx context.Context) (int64, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT count(*) FROM duckdb_tables() WHERE schema_name = 'main'")
	if err != nil {
		return 0, fmt.Errorf("failed to count tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to scan table count: %w", err)
		}
	}
	return n, rows.Err()
}
