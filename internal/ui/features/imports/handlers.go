package imports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapbench/internal/adapter"
	"github.com/leapstack-labs/leapbench/internal/engine"
	importer "github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the import feature.
type Handlers struct {
	engine *engine.Engine
	logger *slog.Logger

	mu   sync.Mutex
	last []OutcomeView
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(eng *engine.Engine, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{engine: eng, logger: logger}
}

// Panel renders the drop zone, the last upload report and the table list.
func (h *Handlers) Panel(r *http.Request) (templ.Component, error) {
	pipeline := h.engine.Pipeline()

	h.mu.Lock()
	last := h.last
	h.mu.Unlock()

	return Panel(PanelView{
		Accept:      importer.AcceptAttr(),
		Description: pipeline.Description(),
		MaxFiles:    pipeline.MaxFiles(),
		Outcomes:    last,
		Tables:      h.tables(r.Context()),
	}), nil
}

// tables lists registered tables; before the database is open the list is empty.
func (h *Handlers) tables(ctx context.Context) []TableView {
	tables, err := h.engine.Tables(ctx)
	if err != nil {
		if !errors.Is(err, adapter.ErrNotConnected) {
			h.logger.Warn("failed to list tables", "error", err)
		}
		return nil
	}
	return tableViews(tables)
}

// UploadSSE imports the uploaded files and reports one line per file.
func (h *Handlers) UploadSSE(w http.ResponseWriter, r *http.Request) {
	// Parse the form BEFORE creating SSE (SSE consumes the request body)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(common.ErrorToast(fmt.Errorf("failed to read upload: %w", err)))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	files := make([]importer.File, len(headers))
	for i, fh := range headers {
		files[i] = importer.FromMultipart(fh)
	}

	sse := datastar.NewSSE(w, r)

	outcomes, err := h.engine.Import(r.Context(), files)
	if err != nil {
		_ = sse.PatchElementTempl(common.ErrorToast(err))
		return
	}

	views := outcomeViews(outcomes)
	h.mu.Lock()
	h.last = views
	h.mu.Unlock()

	if err := sse.PatchElementTempl(Outcomes(views)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(Tables(h.tables(r.Context()))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// TablesSSE patches the table list.
func (h *Handlers) TablesSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(Tables(h.tables(r.Context()))); err != nil {
		_ = sse.ConsoleError(err)
	}
}
