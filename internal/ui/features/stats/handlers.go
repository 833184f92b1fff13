package stats

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapbench/internal/engine"
)

// Handlers provides HTTP handlers for the stats feature.
type Handlers struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(eng *engine.Engine, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{engine: eng, logger: logger}
}

// Panel collects a fresh snapshot. Sections that failed are left out and
// flagged with a warning line.
func (h *Handlers) Panel(r *http.Request) (templ.Component, error) {
	snap, err := h.engine.Stats(r.Context())
	view := PanelView{}
	if err != nil {
		h.logger.Warn("incomplete statistics", "error", err)
		view.Warning = "some statistics are unavailable"
	}
	for _, e := range snap.Entries() {
		view.Entries = append(view.Entries, Entry{Key: e.Key, Value: e.Value})
	}
	return Panel(view), nil
}

// RefreshSSE patches the stats panel with a new snapshot.
func (h *Handlers) RefreshSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	c, err := h.Panel(r)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(c); err != nil {
		_ = sse.ConsoleError(err)
	}
}
