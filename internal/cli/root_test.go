package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapbench/internal/cli/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.verbose)
			logger.Debug("debug line")
			logger.Warn("warn line")

			assert.Contains(t, buf.String(), "warn line")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
		})
	}
}

func TestGetConfigDefaults(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, config.DefaultDatabase, cfg.DatabasePath)
	assert.Equal(t, config.DefaultPort, cfg.UI.Port)

	want := &config.Config{DatabasePath: "bench.duckdb"}
	ctx := context.WithValue(context.Background(), configKey{}, want)
	assert.Same(t, want, GetConfig(ctx))
}

func TestRootFlags(t *testing.T) {
	cmd := NewRootCmd()
	for _, flag := range []string{"config", "database", "verbose", "output", "locale", "layout", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}
