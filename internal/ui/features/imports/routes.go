// Package imports provides the file import panel.
package imports

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// SetupRoutes registers the import routes and returns the import panel.
func SetupRoutes(router chi.Router, eng *engine.Engine, logger *slog.Logger) (common.Panel, error) {
	handlers := NewHandlers(eng, logger)

	router.Post("/api/import", handlers.UploadSSE)
	router.Get("/api/tables", handlers.TablesSSE)

	return handlers.Panel, nil
}
