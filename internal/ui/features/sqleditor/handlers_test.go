package sqleditor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapbench/internal/ui/features"
)

// stubResults stands in for the results panel.
func stubResults(_ *http.Request) (templ.Component, error) {
	return templ.Raw(`<div id="panel-results">stub results</div>`), nil
}

func setupTestHandlers(t *testing.T, fixture *features.TestFixture) *Handlers {
	t.Helper()
	return NewHandlers(fixture.Engine, fixture.SessionStore, stubResults, nil)
}

func TestPanel_DefaultSQL(t *testing.T) {
	h := setupTestHandlers(t, features.SetupTestFixture(t))

	c, err := h.Panel(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body := features.Render(t, c)

	assert.Contains(t, body, `id="panel-sql"`)
	assert.Contains(t, body, "SELECT * FROM information_schema.columns;")
	assert.Contains(t, body, "@post('/api/sql/execute')")
	assert.Contains(t, body, "data-bind:sql")
}

func TestExecuteSSE(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantBody []string
		wantNone []string
		stored   bool
	}{
		{
			name:     "success patches results and clears the toast",
			sql:      `{"sql":"SELECT 1 AS x"}`,
			wantBody: []string{"datastar-patch-elements", "stub results", `id="toast"`},
			stored:   true,
		},
		{
			name:     "syntax error shows the engine message",
			sql:      `{"sql":"SELEC 1"}`,
			wantBody: []string{"toast-error", "syntax error"},
			wantNone: []string{"stub results"},
		},
		{
			name:     "empty query",
			sql:      `{"sql":"  "}`,
			wantBody: []string{"toast-error", "query cannot be empty"},
		},
		{
			name:     "invalid signals",
			sql:      `{"sql":`,
			wantBody: []string{"toast-error", "failed to read signals"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := features.SetupTestFixture(t)
			h := setupTestHandlers(t, fixture)

			rec := httptest.NewRecorder()
			h.ExecuteSSE(rec, features.SignalsRequest("/api/sql/execute", tt.sql))

			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			for _, unwanted := range tt.wantNone {
				assert.NotContains(t, body, unwanted)
			}

			_, ok := fixture.Engine.Results().Current()
			assert.Equal(t, tt.stored, ok)
		})
	}
}

func TestExecuteSSE_NotConnected(t *testing.T) {
	fixture := features.SetupUnopenedFixture(t)
	h := setupTestHandlers(t, fixture)

	rec := httptest.NewRecorder()
	h.ExecuteSSE(rec, features.SignalsRequest("/api/sql/execute", `{"sql":"SELECT 1"}`))

	assert.Contains(t, rec.Body.String(), "database connection not established")
	_, ok := fixture.Engine.Results().Current()
	assert.False(t, ok)
}

func TestExecuteSSE_ErrorKeepsPreviousResult(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	h := setupTestHandlers(t, fixture)
	fixture.Execute("SELECT 42 AS answer")

	rec := httptest.NewRecorder()
	h.ExecuteSSE(rec, features.SignalsRequest("/api/sql/execute", `{"sql":"SELECT * FROM missing_table"}`))
	assert.Contains(t, rec.Body.String(), "toast-error")

	res, ok := fixture.Engine.Results().Current()
	require.True(t, ok)
	defer res.Release()
	assert.Equal(t, "SELECT 42 AS answer", res.SQL)
}

func TestPanel_RestoresSessionSQL(t *testing.T) {
	h := setupTestHandlers(t, features.SetupTestFixture(t))

	rec := httptest.NewRecorder()
	h.ExecuteSSE(rec, features.SignalsRequest("/api/sql/execute", `{"sql":"SELECT 'kept' AS v"}`))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	c, err := h.Panel(req)
	require.NoError(t, err)
	body := features.Render(t, c)

	assert.Contains(t, body, "SELECT &#39;kept&#39; AS v")
	assert.NotContains(t, body, "information_schema")
}
