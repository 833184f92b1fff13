// Package engine ties the workbench together: it owns the embedded database,
// the result store, the import pipeline and the statistics collector.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/leapstack-labs/leapbench/internal/adapter"
	"github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/notifier"
	"github.com/leapstack-labs/leapbench/internal/results"
	"github.com/leapstack-labs/leapbench/internal/stats"
)

// ErrEmptyQuery is returned for blank SQL.
var ErrEmptyQuery = errors.New("query cannot be empty")

// DefaultSQL is the editor text every surface starts with.
const DefaultSQL = "SELECT * FROM information_schema.columns;"

// Engine executes SQL and imports files against one embedded database.
type Engine struct {
	// Database adapter (set by Open)
	db        adapter.Adapter
	dbConfig  adapter.Config
	connected bool
	dbMu      sync.RWMutex

	store     *results.Store
	importCfg imports.Config
	pipeline  *imports.Pipeline
	collector *stats.Collector
	notifier  *notifier.Notifier
	timeout   time.Duration

	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Adapter configures the embedded database.
	Adapter adapter.Config
	// Database overrides the adapter implementation (DuckDB by default).
	Database adapter.Adapter
	// Import configures the import pipeline.
	Import imports.Config
	// QueryTimeout bounds each query. Zero means no limit.
	QueryTimeout time.Duration
	// Notifier receives change pings (a private one is created if nil).
	Notifier *notifier.Notifier
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. The database is not opened until Open is called;
// until then queries and imports are logged no-ops.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	notify := cfg.Notifier
	if notify == nil {
		notify = notifier.New()
	}
	db := cfg.Database
	if db == nil {
		db = adapter.NewDuckDBAdapter()
	}
	if cfg.Adapter.Logger == nil {
		cfg.Adapter.Logger = logger
	}
	if cfg.Import.Logger == nil {
		cfg.Import.Logger = logger
	}

	logger.Debug("initializing engine", "database", cfg.Adapter.Path, "query_timeout", cfg.QueryTimeout)

	return &Engine{
		db:        db,
		dbConfig:  cfg.Adapter,
		store:     results.New(results.WithNotifier(notify), results.WithLogger(logger)),
		importCfg: cfg.Import,
		pipeline:  imports.New(nil, cfg.Import),
		collector: stats.NewCollector(nil, cfg.Adapter.Path, logger),
		notifier:  notify,
		timeout:   cfg.QueryTimeout,
		logger:    logger,
	}
}

// Open connects the database. Calling Open on an open engine is a no-op.
func (e *Engine) Open(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.connected {
		return nil
	}

	e.logger.Debug("connecting to database", "path", e.dbConfig.Path)
	if err := e.db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	e.connected = true
	e.pipeline = imports.New(e.db, e.importCfg)
	if sqlDB := e.db.DB(); sqlDB != nil {
		e.collector = stats.NewCollector(sqlDB, e.db.Path(), e.logger)
	}

	e.logger.Debug("database connected", "path", e.db.Path())
	return nil
}

// IsConnected reports whether Open has succeeded.
func (e *Engine) IsConnected() bool {
	e.dbMu.RLock()
	defer e.dbMu.RUnlock()
	return e.connected
}

// Close releases the database and the held result.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	e.store.Clear()

	e.dbMu.Lock()
	defer e.dbMu.Unlock()
	if !e.connected {
		return nil
	}
	e.connected = false
	if err := e.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Execute runs sqlStr and publishes the result to the store. The returned
// result holds its own table reference; the caller must Release it.
//
// Results are ordered by submission: if a later query has already completed,
// this result is returned to the caller but not published. On failure the
// store is left untouched.
func (e *Engine) Execute(ctx context.Context, sqlStr string) (*results.Result, error) {
	if strings.TrimSpace(sqlStr) == "" {
		return nil, ErrEmptyQuery
	}

	e.dbMu.RLock()
	defer e.dbMu.RUnlock()
	if !e.connected {
		e.logger.Warn("no database instance, ignoring query")
		return nil, adapter.ErrNotConnected
	}

	ticket := e.store.Begin()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	tbl, err := e.db.Query(ctx, sqlStr)
	if err != nil {
		e.logger.Debug("query failed", "error", err)
		return nil, err
	}
	elapsed := time.Since(start)

	res := results.NewResult(sqlStr, tbl, elapsed)
	out := *res
	tbl.Retain()

	if e.store.Commit(ticket, res) {
		out.Seq = ticket.Seq()
	} else {
		e.logger.Debug("newer query already completed, result not published", "seq", ticket.Seq())
	}

	e.logger.Debug("query executed", "rows", out.Rows(), "elapsed", elapsed)
	return &out, nil
}

// Import registers files as tables. It reports per-file outcomes.
func (e *Engine) Import(ctx context.Context, files []imports.File) ([]imports.Outcome, error) {
	e.dbMu.RLock()
	defer e.dbMu.RUnlock()
	if !e.connected {
		e.logger.Warn("no database instance, ignoring import", "files", len(files))
		return nil, adapter.ErrNotConnected
	}

	outcomes, err := e.pipeline.Import(ctx, files)
	if err != nil {
		return outcomes, err
	}
	for _, o := range outcomes {
		if o.Status == imports.StatusImported {
			e.notifier.Broadcast(notifier.TopicTables)
			e.notifier.Broadcast(notifier.TopicStats)
			break
		}
	}
	return outcomes, nil
}

// Tables lists registered tables.
func (e *Engine) Tables(ctx context.Context) ([]adapter.TableInfo, error) {
	e.dbMu.RLock()
	defer e.dbMu.RUnlock()
	if !e.connected {
		return nil, adapter.ErrNotConnected
	}
	return e.db.Tables(ctx)
}

// Stats collects memory and storage statistics. Before Open only runtime
// statistics are available.
func (e *Engine) Stats(ctx context.Context) (stats.Snapshot, error) {
	e.dbMu.RLock()
	collector := e.collector
	e.dbMu.RUnlock()
	return collector.Collect(ctx)
}

// Results returns the result store.
func (e *Engine) Results() *results.Store {
	return e.store
}

// Notifier returns the engine's change notifier.
func (e *Engine) Notifier() *notifier.Notifier {
	return e.notifier
}

// Pipeline returns the import pipeline.
func (e *Engine) Pipeline() *imports.Pipeline {
	e.dbMu.RLock()
	defer e.dbMu.RUnlock()
	return e.pipeline
}

// DatabasePath returns the configured database path.
func (e *Engine) DatabasePath() string {
	if e.dbConfig.InMemory() {
		return adapter.MemoryPath
	}
	return e.dbConfig.Path
}
