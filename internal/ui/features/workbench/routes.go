// Package workbench renders the panel layout and streams panel updates.
package workbench

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leapbench/internal/layout"
	"github.com/leapstack-labs/leapbench/internal/notifier"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// SetupRoutes configures routes for the workbench feature.
func SetupRoutes(
	router chi.Router,
	model layout.Model,
	panels *layout.Factory[common.Panel],
	notify *notifier.Notifier,
	isDev bool,
	logger *slog.Logger,
) error {
	if err := model.Validate(); err != nil {
		return err
	}
	handlers := NewHandlers(model, panels, notify, isDev, logger)

	router.Get("/", handlers.Page)
	router.Get("/updates", handlers.Updates)
	router.Get("/api/layout", handlers.Layout)

	return nil
}
