package sqleditor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the editor feature.
type Handlers struct {
	engine       *engine.Engine
	sessionStore sessions.Store
	results      common.Panel
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(eng *engine.Engine, sessionStore sessions.Store, results common.Panel, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		engine:       eng,
		sessionStore: sessionStore,
		results:      results,
		logger:       logger,
	}
}

// Panel renders the editor with the last SQL this browser ran.
func (h *Handlers) Panel(r *http.Request) (templ.Component, error) {
	sql := h.lastSQL(r)
	signals, err := json.Marshal(Signals{SQL: sql})
	if err != nil {
		return nil, err
	}
	return Editor(EditorView{SQL: sql, Signals: string(signals)}), nil
}

// ExecuteSSE runs the submitted SQL. Success patches the results panel;
// failure shows the engine message in a toast and leaves results alone.
func (h *Handlers) ExecuteSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(common.ErrorToast(fmt.Errorf("failed to read signals: %w", err)))
		return
	}

	// The session cookie must be written before the event stream starts.
	h.saveSQL(w, r, signals.SQL)

	sse := datastar.NewSSE(w, r)

	res, err := h.engine.Execute(r.Context(), signals.SQL)
	if err != nil {
		h.logger.Debug("query failed", "error", err)
		_ = sse.PatchElementTempl(common.ErrorToast(err))
		return
	}
	res.Release()

	if h.results == nil {
		return
	}
	c, err := h.results(r)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(c); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = sse.PatchElementTempl(common.ToastComponent(common.Toast{}))
}

func (h *Handlers) lastSQL(r *http.Request) string {
	if h.sessionStore == nil {
		return DefaultSQL
	}
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		return DefaultSQL
	}
	if sql, ok := session.Values[sessionKeySQL].(string); ok && sql != "" {
		return sql
	}
	return DefaultSQL
}

func (h *Handlers) saveSQL(w http.ResponseWriter, r *http.Request, sql string) {
	if h.sessionStore == nil || sql == "" {
		return
	}
	// Get returns a fresh session alongside a decode error, so it is still usable.
	session, _ := h.sessionStore.Get(r, sessionName)
	if session == nil {
		return
	}
	session.Values[sessionKeySQL] = sql
	if err := session.Save(r, w); err != nil {
		h.logger.Warn("failed to save editor session", "error", err)
	}
}
