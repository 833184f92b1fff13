// Package commands_test provides tests for CLI command creation.
package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapbench/internal/cli/testutil"
	"github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/layout"
)

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.Contains(t, cmd.Aliases, "ui")

	flags := []string{"port", "no-browser", "watch", "dev"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewTUICommand(t *testing.T) {
	cmd := NewTUICommand()

	assert.Equal(t, "tui", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewQueryCommand(t *testing.T) {
	cmd := NewQueryCommand()

	assert.Equal(t, "query [SQL]", cmd.Use)
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// format is persistent so the tables and schema subcommands share it
	assert.NotNil(t, cmd.PersistentFlags().Lookup("format"))
	for _, flag := range []string{"input", "limit"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}

	var subcommands []string
	for _, sub := range cmd.Commands() {
		subcommands = append(subcommands, sub.Name())
	}
	assert.ElementsMatch(t, []string{"tables", "schema"}, subcommands)
}

func TestNewImportCommand(t *testing.T) {
	cmd := NewImportCommand()

	assert.Equal(t, "import <file> [file...]", cmd.Use)
	assert.NotNil(t, cmd.Flags().ShorthandLookup("q"))
	assert.Error(t, cmd.Args(cmd, nil), "import requires at least one file")
}

func TestNewStatsCommand(t *testing.T) {
	cmd := NewStatsCommand()

	assert.Equal(t, "stats", cmd.Use)
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
}

func TestNewLayoutCommand(t *testing.T) {
	cmd := NewLayoutCommand()

	assert.Equal(t, "layout", cmd.Use)
	var subcommands []string
	for _, sub := range cmd.Commands() {
		subcommands = append(subcommands, sub.Name())
	}
	assert.ElementsMatch(t, []string{"print", "validate", "arrange"}, subcommands)
}

func TestImportFiles_Outcomes(t *testing.T) {
	eng := testutil.OpenTestEngine(t)
	dir := testutil.SetupTestData(t)
	tr := testutil.NewTestRendererText()

	outcomes, err := importFiles(context.Background(), tr.Renderer, eng, []string{
		filepath.Join(dir, "Sales Q1.csv"),
		filepath.Join(dir, "missing.csv"),
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, imports.StatusImported, outcomes[0].Status)
	assert.Equal(t, "sales_q1", outcomes[0].Table)
	assert.Equal(t, imports.StatusFailed, outcomes[1].Status)

	output := tr.Output()
	assert.Contains(t, output, "sales_q1")
	assert.Contains(t, output, "missing.csv")
	testutil.AssertNoANSI(t, output)
}

func TestImportFiles_JSON(t *testing.T) {
	eng := testutil.OpenTestEngine(t)
	dir := testutil.SetupTestData(t)
	tr := testutil.NewTestRendererJSON()

	_, err := importFiles(context.Background(), tr.Renderer, eng, []string{filepath.Join(dir, "customers.csv")})
	require.NoError(t, err)

	var views []outcomeView
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "customers", views[0].Table)
	assert.Equal(t, string(imports.StatusImported), views[0].Status)
	assert.Empty(t, views[0].Error)
}

func TestImportFiles_Markdown(t *testing.T) {
	eng := testutil.OpenTestEngine(t)
	dir := testutil.SetupTestData(t)
	tr := testutil.NewTestRendererMarkdown()

	_, err := importFiles(context.Background(), tr.Renderer, eng, []string{filepath.Join(dir, "customers.csv")})
	require.NoError(t, err)

	output := tr.Output()
	assert.Contains(t, output, "| file | table | size | status |")
	assert.Contains(t, output, "customers")
	testutil.AssertValidMarkdown(t, output)
}

func TestRenderStats(t *testing.T) {
	eng := testutil.OpenTestEngine(t)

	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		require.NoError(t, renderStats(context.Background(), tr.Renderer, eng))

		output := tr.Output()
		assert.Contains(t, output, "# Statistics")
		assert.Contains(t, output, "runtime.goroutines")
		assert.Contains(t, output, "duckdb.tables")
	})

	t.Run("json", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		require.NoError(t, renderStats(context.Background(), tr.Renderer, eng))
		assert.True(t, json.Valid(tr.Out.Bytes()), "stats JSON should be valid: %s", tr.Output())
	})
}

func TestLayoutCommands(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.yaml")
	invalid := filepath.Join(dir, "invalid.yaml")

	data, err := yaml.Marshal(layout.Default())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(valid, data, 0o600))
	require.NoError(t, os.WriteFile(invalid, []byte("root: [unclosed"), 0o600))

	t.Run("validate", func(t *testing.T) {
		cmd := NewLayoutCommand()
		tr := testutil.NewTestRendererText()
		cmd.SetOut(tr.Out)
		cmd.SetErr(tr.ErrOut)
		cmd.SetArgs([]string{"validate", valid, invalid})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 layouts are invalid")
		assert.Contains(t, tr.Output(), "4 components")
		assert.Contains(t, tr.Output(), "invalid.yaml")
	})

	t.Run("arrange", func(t *testing.T) {
		cmd := NewLayoutCommand()
		tr := testutil.NewTestRendererText()
		cmd.SetOut(tr.Out)
		cmd.SetErr(tr.ErrOut)
		cmd.SetArgs([]string{"arrange", "--width", "100", "--height", "40"})

		require.NoError(t, cmd.Execute())
		output := tr.Output()
		assert.Contains(t, output, "component")
		assert.Contains(t, output, "sql")
		assert.Contains(t, output, "results")
	})
}

func TestPlacementsTable(t *testing.T) {
	placements := []layout.Placement{
		{Component: "sql", Name: "SQL", Rect: layout.Rect{X: 0, Y: 0, W: 50, H: 20}, Active: true},
	}
	table := placementsTable(placements)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"SQL", "sql", "0", "true", "0", "0", "50", "20"}, table.Rows[0])
	assert.Len(t, table.RightAlign, len(table.Header))
}
