// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/grid"
	"github.com/leapstack-labs/leapbench/internal/layout"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
	importsFeature "github.com/leapstack-labs/leapbench/internal/ui/features/imports"
	resultsFeature "github.com/leapstack-labs/leapbench/internal/ui/features/results"
	sqleditorFeature "github.com/leapstack-labs/leapbench/internal/ui/features/sqleditor"
	statsFeature "github.com/leapstack-labs/leapbench/internal/ui/features/stats"
	workbenchFeature "github.com/leapstack-labs/leapbench/internal/ui/features/workbench"
	"github.com/leapstack-labs/leapbench/internal/ui/resources"
)

// Options holds what the routes need besides the engine.
type Options struct {
	Layout       layout.Model
	SessionStore sessions.Store
	PageSize     int
	GridOptions  []grid.Option
	IsDev        bool
	Logger       *slog.Logger
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, eng *engine.Engine, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Hot reload endpoint for dev mode
	if opts.IsDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes; each returns the panel it contributes to the layout
	resultsPanel, err := resultsFeature.SetupRoutes(router, eng, opts.PageSize, opts.GridOptions, logger)
	if err != nil {
		return err
	}

	sqlPanel, err := sqleditorFeature.SetupRoutes(router, eng, opts.SessionStore, resultsPanel, logger)
	if err != nil {
		return err
	}

	importPanel, err := importsFeature.SetupRoutes(router, eng, logger)
	if err != nil {
		return err
	}

	statsPanel, err := statsFeature.SetupRoutes(router, eng, logger)
	if err != nil {
		return err
	}

	panels := layout.NewFactory(common.MissingPanel).
		Register(layout.ComponentSQL, sqlPanel).
		Register(layout.ComponentResults, resultsPanel).
		Register(layout.ComponentImport, importPanel).
		Register(layout.ComponentStats, statsPanel)

	return workbenchFeature.SetupRoutes(router, opts.Layout, panels, eng.Notifier(), opts.IsDev, logger)
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
