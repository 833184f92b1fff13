package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// BaseSQLAdapter provides the database/sql half of the adapter: statement
// execution and catalog lookups over the connection pool.
type BaseSQLAdapter struct {
	SQL    *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// DB returns the underlying connection pool, or nil before Connect.
func (b *BaseSQLAdapter) DB() *sql.DB {
	return b.SQL
}

// Path returns the configured database path.
func (b *BaseSQLAdapter) Path() string {
	if b.Cfg.InMemory() {
		return MemoryPath
	}
	return b.Cfg.Path
}

// Close closes the connection pool.
func (b *BaseSQLAdapter) Close() error {
	if b.SQL != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		err := b.SQL.Close()
		b.SQL = nil
		return err
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.SQL == nil {
		return ErrNotConnected
	}
	if _, err := b.SQL.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Tables lists tables in the main schema ordered by name.
func (b *BaseSQLAdapter) Tables(ctx context.Context) ([]TableInfo, error) {
	if b.SQL == nil {
		return nil, ErrNotConnected
	}

	rows, err := b.SQL.QueryContext(ctx, `
		SELECT table_name, column_count, estimated_size
		FROM duckdb_tables()
		WHERE schema_name = 'main'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.Columns, &t.EstimatedRows); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

// IsConnected returns true if the connection pool is open.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.SQL != nil
}
