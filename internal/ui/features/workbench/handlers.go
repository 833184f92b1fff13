package workbench

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapbench/internal/layout"
	"github.com/leapstack-labs/leapbench/internal/notifier"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the workbench feature.
type Handlers struct {
	model    layout.Model
	panels   *layout.Factory[common.Panel]
	notifier *notifier.Notifier
	isDev    bool
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(model layout.Model, panels *layout.Factory[common.Panel], notify *notifier.Notifier, isDev bool, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		model:    model,
		panels:   panels,
		notifier: notify,
		isDev:    isDev,
		logger:   logger,
	}
}

// Page renders the workbench with every panel filled in.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	root := h.buildNode(r, h.model.Layout)

	page := common.Page(common.PageData{
		Title: "Workbench",
		IsDev: h.isDev,
		Body:  Workbench(root),
	})
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handlers) buildNode(r *http.Request, n layout.Node) NodeView {
	view := NodeView{Class: "layout-" + string(n.Type), Flex: flex(n.Weight)}

	switch n.Type {
	case layout.NodeTabSet:
		view.Class = "tabset"
		for i, tab := range n.Children {
			view.Tabs = append(view.Tabs, TabView{
				Name:      tab.Name,
				Component: tab.Component,
				Active:    i == 0,
				Body:      h.renderPanel(r, tab.Component),
			})
		}
	default:
		for _, child := range n.Children {
			view.Children = append(view.Children, h.buildNode(r, child))
		}
	}
	return view
}

// renderPanel builds a component; a failing panel shows its error in place.
func (h *Handlers) renderPanel(r *http.Request, component string) templ.Component {
	c, err := h.panels.Build(component)(r)
	if err != nil {
		h.logger.Error("failed to render panel", "component", component, "error", err)
		return common.PanelMessage(component, err.Error())
	}
	return c
}

// Updates is the long-lived SSE endpoint. It re-renders the panel behind each
// notifier topic when that topic fires. Initial content comes from Page.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case topic, ok := <-updates:
			if !ok {
				return
			}
			component, known := topicComponents[topic]
			if !known || !h.panels.Has(component) {
				continue
			}
			c, err := h.panels.Build(component)(r)
			if err == nil {
				err = sse.PatchElementTempl(c)
			}
			if err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// Layout returns the layout model as JSON.
func (h *Handlers) Layout(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.model); err != nil {
		h.logger.Error("failed to encode layout", "error", err)
	}
}
