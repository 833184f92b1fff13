package workbench

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapbench/internal/layout"
	"github.com/leapstack-labs/leapbench/internal/notifier"
	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// stubPanel renders a fixed panel for component.
func stubPanel(component, text string) common.Panel {
	return func(_ *http.Request) (templ.Component, error) {
		return common.PanelMessage(component, text), nil
	}
}

func testPanels() *layout.Factory[common.Panel] {
	return layout.NewFactory(common.MissingPanel).
		Register(layout.ComponentSQL, stubPanel(layout.ComponentSQL, "editor here")).
		Register(layout.ComponentResults, stubPanel(layout.ComponentResults, "results here")).
		Register(layout.ComponentImport, stubPanel(layout.ComponentImport, "import here")).
		Register(layout.ComponentStats, stubPanel(layout.ComponentStats, "stats here"))
}

func TestPage(t *testing.T) {
	h := NewHandlers(layout.Default(), testPanels(), notifier.New(), false, nil)

	rec := httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Workbench - LeapBench</title>",
		`data-init="@get('/updates')"`,
		`class="layout-row" style="flex: 100 1 0"`,
		`class="layout-column" style="flex: 70 1 0"`,
		`class="layout-column" style="flex: 30 1 0"`,
		"editor here",
		"results here",
		"import here",
		"stats here",
		`data-tab="sql"`,
		"datastar.js",
	} {
		assert.Contains(t, body, want)
	}
	assert.NotContains(t, body, "/reload")
}

func TestPage_DevReload(t *testing.T) {
	h := NewHandlers(layout.Default(), testPanels(), notifier.New(), true, nil)

	rec := httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rec.Body.String(), "/reload")
}

func TestPage_UnknownComponent(t *testing.T) {
	model := layout.Default()
	model.Layout.Children[1].Children[1].Children[0].Component = "chart"

	h := NewHandlers(model, testPanels(), notifier.New(), false, nil)
	rec := httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "No component found: chart")
	assert.Contains(t, body, `id="panel-chart"`)
	assert.NotContains(t, body, "stats here")
}

func TestPage_FailingPanel(t *testing.T) {
	panels := testPanels().Register(layout.ComponentStats, func(_ *http.Request) (templ.Component, error) {
		return nil, assert.AnError
	})
	h := NewHandlers(layout.Default(), panels, notifier.New(), false, nil)

	rec := httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), assert.AnError.Error())
}

func TestLayout(t *testing.T) {
	h := NewHandlers(layout.Default(), testPanels(), notifier.New(), false, nil)

	rec := httptest.NewRecorder()
	h.Layout(rec, httptest.NewRequest(http.MethodGet, "/api/layout", nil))

	var got layout.Model
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, layout.Default(), got)
}

func TestUpdates(t *testing.T) {
	notify := notifier.New()
	built := make(chan string, 4)
	signal := func(component string) common.Panel {
		inner := stubPanel(component, component+" here")
		return func(r *http.Request) (templ.Component, error) {
			built <- component
			return inner(r)
		}
	}
	panels := testPanels().
		Register(layout.ComponentResults, signal(layout.ComponentResults)).
		Register(layout.ComponentStats, signal(layout.ComponentStats))
	h := NewHandlers(layout.Default(), panels, notify, false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/updates", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Updates(rec, req)
	}()

	require.Eventually(t, func() bool { return notify.Len() == 1 }, time.Second, 5*time.Millisecond)
	notify.Broadcast(notifier.TopicResults)
	assert.Equal(t, layout.ComponentResults, <-built)
	notify.Broadcast(notifier.TopicStats)
	assert.Equal(t, layout.ComponentStats, <-built)

	// let the last patch reach the recorder
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Contains(t, body, "results here")
	assert.Contains(t, body, "stats here")
	assert.NotContains(t, body, "editor here")
	assert.Equal(t, 0, notify.Len())
}
