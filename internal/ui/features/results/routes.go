// Package results provides the paged results panel.
package results

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/grid"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// SetupRoutes registers the results routes and returns the results panel.
func SetupRoutes(
	router chi.Router,
	eng *engine.Engine,
	pageSize int,
	gridOpts []grid.Option,
	logger *slog.Logger,
) (common.Panel, error) {
	handlers := NewHandlers(eng, pageSize, gridOpts, logger)

	router.Get("/api/results", handlers.PageSSE)

	return handlers.Panel, nil
}
