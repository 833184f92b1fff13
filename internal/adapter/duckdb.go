package adapter

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/marcboeker/go-duckdb"
)

// DuckDBAdapter is the embedded DuckDB database.
//
// Queries and view-based registration run on one dedicated connection
// because Arrow views are connection-local; the mutex serializes them.
// Catalog lookups and plain statements use the database/sql pool.
type DuckDBAdapter struct {
	BaseSQLAdapter

	mu        sync.Mutex
	connector *duckdb.Connector
	conn      driver.Conn
	arrow     *duckdb.Arrow
}

// NewDuckDBAdapter creates an unconnected adapter.
func NewDuckDBAdapter() *DuckDBAdapter {
	return &DuckDBAdapter{}
}

// Connect opens the database at cfg.Path.
func (a *DuckDBAdapter) Connect(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	path := cfg.Path
	if cfg.InMemory() {
		path = ""
	} else if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	connector, err := duckdb.NewConnector(path, func(execer driver.ExecerContext) error {
		return applySettings(ctx, execer, cfg)
	})
	if err != nil {
		return fmt.Errorf("failed to open duckdb: %w", err)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	conn, err := connector.Connect(ctx)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to open arrow connection: %w", err)
	}

	ar, err := duckdb.NewArrowFromConn(conn)
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return fmt.Errorf("failed to create arrow interface: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.SQL = db
	a.Cfg = cfg
	a.Logger = logger
	a.connector = connector
	a.conn = conn
	a.arrow = ar

	logger.Debug("connected to duckdb", "path", a.Path())
	return nil
}

// applySettings runs once for every new connection.
func applySettings(ctx context.Context, execer driver.ExecerContext, cfg Config) error {
	var stmts []string
	if cfg.Threads > 0 {
		stmts = append(stmts, fmt.Sprintf("SET threads = %d", cfg.Threads))
	}
	if cfg.MemoryLimit != "" {
		stmts = append(stmts, "SET memory_limit = "+QuoteLiteral(cfg.MemoryLimit))
	}
	for _, stmt := range stmts {
		if _, err := execer.ExecContext(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to apply %q: %w", stmt, err)
		}
	}
	return nil
}

// Close releases the Arrow connection, the pool and the database.
func (a *DuckDBAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var firstErr error
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			firstErr = err
		}
		a.conn = nil
		a.arrow = nil
	}
	// closing the pool also closes the connector
	if err := a.BaseSQLAdapter.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	a.connector = nil
	return firstErr
}

// Query runs sqlStr and materializes the whole result as an Arrow table.
// The caller owns the returned table.
func (a *DuckDBAdapter) Query(ctx context.Context, sqlStr string) (arrow.Table, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.arrow == nil {
		return nil, ErrNotConnected
	}
	return a.queryLocked(ctx, sqlStr)
}

func (a *DuckDBAdapter) queryLocked(ctx context.Context, sqlStr string) (arrow.Table, error) {
	rdr, err := a.arrow.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rdr.Release()

	return materialize(rdr)
}

// materialize drains a record reader into a table.
func materialize(rdr array.RecordReader) (arrow.Table, error) {
	var recs []arrow.Record
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()

	for rdr.Next() {
		rec := rdr.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return array.NewTableFromRecords(rdr.Schema(), recs), nil
}

// Insert registers src as table, replacing any table with the same name.
func (a *DuckDBAdapter) Insert(ctx context.Context, table string, src Source) error {
	if !a.IsConnected() {
		return ErrNotConnected
	}

	switch src.Format {
	case FormatCSV:
		return a.Exec(ctx, fmt.Sprintf(
			"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto(%s, header=true)",
			QuoteIdent(table), QuoteLiteral(src.Path)))
	case FormatParquet:
		return a.Exec(ctx, fmt.Sprintf(
			"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_parquet(%s)",
			QuoteIdent(table), QuoteLiteral(src.Path)))
	case FormatArrow:
		rdr, err := openIPC(src.Path)
		if err != nil {
			return err
		}
		defer rdr.Release()
		return a.insertReader(ctx, table, rdr)
	case FormatXLSX:
		rdr, err := readSpreadsheet(src.Path)
		if err != nil {
			return err
		}
		defer rdr.Release()
		return a.insertReader(ctx, table, rdr)
	default:
		return fmt.Errorf("unsupported format %q", src.Format)
	}
}

// insertReader copies an Arrow stream into a table through a temporary view.
func (a *DuckDBAdapter) insertReader(ctx context.Context, table string, rdr array.RecordReader) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.arrow == nil {
		return ErrNotConnected
	}

	view := "__leapbench_import_" + table
	release, err := a.arrow.RegisterView(rdr, view)
	if err != nil {
		return fmt.Errorf("failed to register arrow view: %w", err)
	}
	defer release()

	tbl, err := a.queryLocked(ctx, fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM %s", QuoteIdent(table), QuoteIdent(view)))
	if err != nil {
		return err
	}
	tbl.Release()
	return nil
}

// Ensure DuckDBAdapter implements the Adapter interface.
var _ Adapter = (*DuckDBAdapter)(nil)
