// Package sqleditor provides the SQL editor panel and query execution.
package sqleditor

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// SetupRoutes registers the editor routes and returns the editor panel.
// results renders the results panel after a successful run.
func SetupRoutes(
	router chi.Router,
	eng *engine.Engine,
	sessionStore sessions.Store,
	results common.Panel,
	logger *slog.Logger,
) (common.Panel, error) {
	handlers := NewHandlers(eng, sessionStore, results, logger)

	router.Route("/api/sql", func(r chi.Router) {
		r.Post("/execute", handlers.ExecuteSSE)
	})

	return handlers.Panel, nil
}
