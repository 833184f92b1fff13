// Package main provides tests for the LeapBench CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapbench/internal/cli"
	"github.com/leapstack-labs/leapbench/internal/cli/config"
)

// runCLI executes the root command in an empty directory and returns its
// stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(out, "LeapBench") {
		t.Errorf("version output should contain 'LeapBench', got: %s", out)
	}
}

func TestHelpCommand(t *testing.T) {
	out, _, err := runCLI(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"serve", "tui", "query", "import", "stats", "layout", "completion"}
	for _, expected := range expectedCommands {
		if !strings.Contains(out, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, out)
		}
	}
}

func TestQueryCommand(t *testing.T) {
	out, _, err := runCLI(t, "query", "SELECT 42 AS answer")
	if err != nil {
		t.Fatalf("query command error = %v", err)
	}
	// Output is not a terminal, so auto mode renders markdown
	if !strings.Contains(out, "| answer |") {
		t.Errorf("query output should contain a markdown header, got: %s", out)
	}
	if !strings.Contains(out, "(1 row)") {
		t.Errorf("query output should contain the row count, got: %s", out)
	}
}

func TestQueryCommandJSON(t *testing.T) {
	out, _, err := runCLI(t, "query", "SELECT 'a' AS x UNION ALL SELECT 'b'", "-o", "json")
	if err != nil {
		t.Fatalf("query command error = %v", err)
	}

	var rows []map[string]string
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output should be valid JSON: %v\n%s", err, out)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
}

func TestImportCommandWithQuery(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "Daily Orders.csv", "id,total\n1,5\n2,7\n")

	out, _, err := runCLI(t, "import", path, "--query", "SELECT max(total) AS top FROM daily_orders")
	if err != nil {
		t.Fatalf("import command error = %v", err)
	}
	if !strings.Contains(out, "daily_orders") {
		t.Errorf("import output should name the table, got: %s", out)
	}
	if !strings.Contains(out, "| top |") || !strings.Contains(out, "7") {
		t.Errorf("query output should contain the maximum, got: %s", out)
	}
}

func TestImportCommandPersistsDatabase(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "customers.csv", "id,name\n1,Alice\n")
	db := filepath.Join(dir, "bench.duckdb")

	if _, _, err := runCLI(t, "import", path, "--database", db); err != nil {
		t.Fatalf("import command error = %v", err)
	}

	out, _, err := runCLI(t, "query", "tables", "--database", db)
	if err != nil {
		t.Fatalf("query tables error = %v", err)
	}
	if !strings.Contains(out, "customers") {
		t.Errorf("tables output should contain 'customers', got: %s", out)
	}
}

func TestImportCommandMissingFile(t *testing.T) {
	_, _, err := runCLI(t, "import", "does-not-exist.csv")
	if err == nil {
		t.Fatal("importing a missing file should return an error")
	}
	if !strings.Contains(err.Error(), "1 of 1 files were not imported") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "leapbench.yaml", "output: json\nlocale: de-DE\n")

	out, _, err := runCLI(t, "--config", path, "layout", "print")
	if err != nil {
		t.Fatalf("layout print error = %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Errorf("output: json in the config file should select JSON output, got: %s", out)
	}
	if got := config.GetConfigFileUsed(); got != path {
		t.Errorf("config file used = %q, want %q", got, path)
	}
}

func TestInvalidOutputFlag(t *testing.T) {
	_, _, err := runCLI(t, "stats", "-o", "yaml")
	if err == nil {
		t.Fatal("invalid --output should return an error")
	}
	if !strings.Contains(err.Error(), "output must be one of") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLayoutArrange(t *testing.T) {
	out, _, err := runCLI(t, "layout", "arrange", "--width", "100", "--height", "30")
	if err != nil {
		t.Fatalf("layout arrange error = %v", err)
	}
	for _, component := range []string{"sql", "results"} {
		if !strings.Contains(out, component) {
			t.Errorf("arrange output should contain %q, got: %s", component, out)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			out, _, err := runCLI(t, "completion", shell)
			if err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
			if !strings.Contains(out, "leapbench") {
				t.Errorf("completion %s output should mention leapbench", shell)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := runCLI(t, "unknown-command")
	if err == nil {
		t.Error("unknown command should return an error")
	}
}
