package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weblibrary/internal/config"
	"weblibrary/pkg/container"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>Library</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "app.js"), []byte("console.log('hi')"), 0o644))

	cfg := &config.Config{
		App: config.AppConfig{Name: "Test Library", Port: "0", Version: "test", StaticRoot: static},
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "router.db"),
		},
		Redis: config.RedisConfig{TTL: time.Minute},
	}

	c, err := container.NewContainerWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)

	return SetupRouter(c)
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)

	w := get(r, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
	assert.Contains(t, w.Body.String(), `"version":"test"`)
	assert.Contains(t, w.Body.String(), `"service":"Test Library"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStaticFrontend(t *testing.T) {
	r := newTestServer(t)

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Library")

	w = get(r, "/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")

	w = get(r, "/some/client/route")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Library")

	w = get(r, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookRoutesMounted(t *testing.T) {
	r := newTestServer(t)

	w := get(r, "/api/book")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(`{"title":"Dune","author":"Herbert","year":1965}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/book/1", rec.Header().Get("Location"))
}
