package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// chdir switches into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	t.Chdir(dir)
	ResetConfig()
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "leapbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("database", "", "")
	fs.String("output", "", "")
	fs.String("locale", "", "")
	fs.Bool("verbose", false, "")
	fs.Int("port", 0, "")
	fs.String("layout", "", "")
	fs.Duration("timeout", 0, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabase, cfg.DatabasePath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLocale, cfg.Locale)
	assert.Equal(t, DefaultPort, cfg.UI.Port)
	assert.Equal(t, DefaultPageSize, cfg.UI.PageSize)
	assert.True(t, cfg.UI.AutoOpen)
	assert.Equal(t, 10, cfg.Import.MaxFiles)
	assert.Equal(t, int64(5_000_000), cfg.Import.SizeHint)
	assert.Zero(t, cfg.QueryTimeout)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
database: data/bench.duckdb
output: json
query_timeout: 30s
ui:
  port: 9000
  watch_dir: inbox
import:
  max_files: 3
  size_hint: 2MB
grid:
  show_null_columns: true
duckdb:
  threads: 4
  memory_limit: 1GB
`)
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "bench.duckdb"), cfg.DatabasePath)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.Equal(t, filepath.Join(dir, "inbox"), cfg.UI.WatchDir)
	assert.Equal(t, 3, cfg.Import.MaxFiles)
	assert.Equal(t, int64(2_000_000), cfg.Import.SizeHint)
	assert.True(t, cfg.Grid.ShowNullColumns)
	assert.Equal(t, 4, cfg.DuckDB.Threads)
	assert.Equal(t, "1GB", cfg.DuckDB.MemoryLimit)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.NotEmpty(t, GetConfigFileUsed())
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "ui:\n  port: 9100\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	chdir(t, nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.UI.Port)
	assert.Equal(t, dir, cfg.ProjectRoot)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output: json\nui:\n  port: 9000\n")
	chdir(t, dir)
	t.Setenv("LEAPBENCH_OUTPUT", "markdown")
	t.Setenv("LEAPBENCH_UI__PORT", "9200")
	t.Setenv("LEAPBENCH_IMPORT__SIZE_HINT", "10 MB")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, 9200, cfg.UI.Port)
	assert.Equal(t, int64(10_000_000), cfg.Import.SizeHint)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("LEAPBENCH_OUTPUT", "markdown")
	t.Setenv("LEAPBENCH_UI__PORT", "9200")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{
		"--output", "text",
		"--port", "9300",
		"--database", "local.duckdb",
		"--timeout", "5s",
	}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, 9300, cfg.UI.Port)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, filepath.Join(dir, "local.duckdb"), cfg.DatabasePath)
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output: json\n")
	chdir(t, dir)

	cfg, err := LoadConfig("", testFlags())
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: de-DE\n"), 0o600))
	chdir(t, t.TempDir())

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "de-DE", cfg.Locale)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad yaml", "ui: [", "error reading config file"},
		{"bad output", "output: html\n", "output must be one of"},
		{"bad locale", "locale: \"xx_!!\"\n", "invalid locale"},
		{"bad size", "import:\n  size_hint: lots\n", "invalid size"},
		{"bad port", "ui:\n  port: 70000\n", "ui.port out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			chdir(t, dir)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
}

func TestConfig_LocaleTag(t *testing.T) {
	tag, err := (&Config{}).LocaleTag()
	require.NoError(t, err)
	assert.Equal(t, language.AmericanEnglish, tag)

	tag, err = (&Config{Locale: "fr-FR"}).LocaleTag()
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", tag.String())
}

func TestResolvePathRelativeTo(t *testing.T) {
	tests := []struct {
		path, base, want string
	}{
		{"", "/root", ""},
		{":memory:", "/root", ":memory:"},
		{"/abs/db.duckdb", "/root", "/abs/db.duckdb"},
		{"db.duckdb", "/root", filepath.Join("/root", "db.duckdb")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolvePathRelativeTo(tt.path, tt.base), tt.path)
	}
}
