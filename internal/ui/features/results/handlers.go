package results

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/grid"
)

// Handlers provides HTTP handlers for the results feature.
type Handlers struct {
	engine   *engine.Engine
	pageSize int64
	gridOpts []grid.Option
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(eng *engine.Engine, pageSize int, gridOpts []grid.Option, logger *slog.Logger) *Handlers {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		engine:   eng,
		pageSize: int64(pageSize),
		gridOpts: append([]grid.Option{grid.WithLogger(logger)}, gridOpts...),
		logger:   logger,
	}
}

// Panel renders the current result at the offset given by the "offset" query
// parameter.
func (h *Handlers) Panel(r *http.Request) (templ.Component, error) {
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
	return Results(h.view(offset)), nil
}

func (h *Handlers) view(offset int64) ResultView {
	res, ok := h.engine.Results().Current()
	if !ok {
		return ResultView{Empty: true}
	}
	defer res.Release()

	g := grid.New(res.Table, h.gridOpts...)
	defer g.Release()

	return newResultView(res.SQL, res.Elapsed, g.Dropped(), g.Page(offset, h.pageSize), h.pageSize)
}

// PageSSE patches the results panel with the requested page.
func (h *Handlers) PageSSE(w http.ResponseWriter, r *http.Request) {
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
