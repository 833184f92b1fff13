// Package adapter provides the embedded DuckDB connection used by the
// workbench: Arrow-native queries, file registration and catalog lookups.
package adapter

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// ErrNotConnected is returned by every operation before Connect succeeds.
var ErrNotConnected = errors.New("database connection not established")

// MemoryPath opens a transient in-memory database.
const MemoryPath = ":memory:"

// Config holds the configuration for opening the embedded database.
type Config struct {
	// Path is the database file. Empty or ":memory:" opens an in-memory database.
	Path string

	// Threads caps DuckDB worker threads. Zero keeps the DuckDB default.
	Threads int

	// MemoryLimit is a DuckDB size string such as "2GB". Empty keeps the default.
	MemoryLimit string

	Logger *slog.Logger
}

// InMemory reports whether the configuration targets an in-memory database.
func (c Config) InMemory() bool {
	return c.Path == "" || c.Path == MemoryPath
}

// Format is the on-disk format of a file handed to Insert.
type Format string

// Supported formats. Compressed inputs are decompressed before they reach
// the adapter.
const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatArrow   Format = "arrow"
	FormatXLSX    Format = "xlsx"
)

// Source is a file to register as a table.
type Source struct {
	Format Format
	Path   string
}

// TableInfo describes a registered table.
type TableInfo struct {
	Name          string
	Columns       int64
	EstimatedRows int64
}

// Adapter is the database contract the engine drives.
type Adapter interface {
	Connect(ctx context.Context, cfg Config) error
	Close() error
	Exec(ctx context.Context, sql string) error
	Query(ctx context.Context, sql string) (arrow.Table, error)
	Insert(ctx context.Context, table string, src Source) error
	Tables(ctx context.Context) ([]TableInfo, error)
	DB() *sql.DB
	Path() string
	IsConnected() bool
}

// QuoteIdent quotes name as a SQL identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral quotes s as a SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
