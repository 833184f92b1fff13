// Package stats provides the memory and storage statistics panel.
package stats

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// SetupRoutes registers the stats routes and returns the stats panel.
func SetupRoutes(router chi.Router, eng *engine.Engine, logger *slog.Logger) (common.Panel, error) {
	handlers := NewHandlers(eng, logger)

	router.Get("/api/stats", handlers.RefreshSSE)

	return handlers.Panel, nil
}
