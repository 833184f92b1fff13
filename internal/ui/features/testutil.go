// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/testutil"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Engine       *engine.Engine
	SessionStore *sessions.CookieStore

	t *testing.T
}

// SetupTestFixture creates an engine backed by an open in-memory DuckDB.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	f := SetupUnopenedFixture(t)
	require.NoError(t, f.Engine.Open(context.Background()))
	return f
}

// SetupUnopenedFixture creates a fixture whose database was never opened,
// the state a server is in while it is still starting.
func SetupUnopenedFixture(t *testing.T) *TestFixture {
	t.Helper()

	eng := engine.New(engine.Config{
		Import: imports.Config{SpoolDir: t.TempDir()},
		Logger: testutil.NewTestLogger(t),
	})
	t.Cleanup(func() {
		_ = eng.Close()
	})

	return &TestFixture{
		Engine:       eng,
		SessionStore: NewTestSessionStore(),
		t:            t,
	}
}

// Execute runs sqlStr through the engine and fails the test on error.
func (f *TestFixture) Execute(sqlStr string) {
	f.t.Helper()
	res, err := f.Engine.Execute(context.Background(), sqlStr)
	require.NoError(f.t, err)
	res.Release()
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// SignalsRequest builds a datastar POST carrying a JSON signals body.
func SignalsRequest(target, signals string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(signals))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// UploadRequest builds a multipart POST with one "files" part per entry.
func UploadRequest(t *testing.T, target string, files map[string][]byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// Render renders a panel to a string.
func Render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}
