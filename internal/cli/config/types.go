// Package config provides configuration management for the LeapBench CLI.
//
// Values are layered: built-in defaults, then leapbench.yaml, then
// LEAPBENCH_* environment variables, then explicitly set flags.
package config

import (
	"time"

	"github.com/leapstack-labs/leapbench/internal/imports"
)

// UIConfig holds configuration for the web server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	SessionSecret string `koanf:"session_secret"`
	PageSize      int    `koanf:"page_size"`
	// WatchDir is a folder whose new files are imported automatically.
	WatchDir string `koanf:"watch_dir"`
}

// ImportConfig holds import pipeline limits.
type ImportConfig struct {
	MaxFiles int `koanf:"max_files"`
	// SizeHint accepts human sizes such as "5MB".
	SizeHint int64  `koanf:"size_hint"`
	SpoolDir string `koanf:"spool_dir"`
}

// GridConfig holds result grid options.
type GridConfig struct {
	ShowNullColumns bool `koanf:"show_null_columns"`
}

// DuckDBConfig holds engine settings applied on connect.
type DuckDBConfig struct {
	Threads     int    `koanf:"threads"`
	MemoryLimit string `koanf:"memory_limit"`
}

// Config holds all CLI configuration options.
type Config struct {
	DatabasePath string        `koanf:"database"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Locale       string        `koanf:"locale"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	LayoutFile   string        `koanf:"layout_file"`
	UI           UIConfig      `koanf:"ui"`
	Import       ImportConfig  `koanf:"import"`
	Grid         GridConfig    `koanf:"grid"`
	DuckDB       DuckDBConfig  `koanf:"duckdb"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultDatabase = ":memory:"
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLocale   = "en-US"
	DefaultPort     = 8765
	DefaultPageSize = 100
)

// Defaults returns the built-in configuration as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"database":               DefaultDatabase,
		"verbose":                false,
		"output":                 DefaultOutput,
		"locale":                 DefaultLocale,
		"query_timeout":          "0s",
		"layout_file":            "",
		"ui.port":                DefaultPort,
		"ui.auto_open":           true,
		"ui.session_secret":      "",
		"ui.page_size":           DefaultPageSize,
		"ui.watch_dir":           "",
		"import.max_files":       imports.DefaultMaxFiles,
		"import.size_hint":       imports.DefaultSizeHint,
		"import.spool_dir":       "",
		"grid.show_null_columns": false,
		"duckdb.threads":         0,
		"duckdb.memory_limit":    "",
	}
}
