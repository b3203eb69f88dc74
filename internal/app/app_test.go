package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/folio-space/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testConfig points Mongo at a closed port so every database call fails fast.
func testConfig(t *testing.T) *config.AppConfig {
	return &config.AppConfig{
		Port:      5000,
		Env:       "production",
		ClientURL: "https://site.example",
		TokenTTL:  time.Hour,
		Mongo: config.MongoConfig{
			URI:                    "mongodb://127.0.0.1:1",
			Database:               "test",
			ServerSelectionTimeout: 100 * time.Millisecond,
		},
		SMTP:  config.SMTPConfig{Port: 587},
		Media: config.MediaConfig{MaxUploadMB: 1},
		Paths: config.PathsConfig{Logs: t.TempDir(), Uploads: t.TempDir()},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(zap.NewNop(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { a.Shutdown(context.Background()) })
	return a
}

func TestDatabaseDownAnswers503(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","database":false,"indexes":false}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/subscribers/subscribe", strings.NewReader(`{"email":"a@x.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Database not available. Please check MongoDB connection.")

	w = httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRoutes(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddr(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, ":5000", a.Addr())
}

func TestMatchOriginPattern(t *testing.T) {
	tests := []struct {
		pattern, host string
		want          bool
	}{
		{"example.com", "example.com", true},
		{"example.com", "evil.com", false},
		{"*.example.com", "admin.example.com", true},
		{"*.example.com", "example.com.evil", false},
		{"localhost:*", "localhost:5173", true},
		{"localhost:*", "localhostevil:1", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchOriginPattern(tt.pattern, tt.host), "%s vs %s", tt.pattern, tt.host)
	}
}

func TestCorsConfig(t *testing.T) {
	cfg := testConfig(t)
	assert.True(t, corsConfig(cfg).AllowOriginFunc("https://anything.example"))

	cfg.AllowedOrigins = []string{"*.folio.example"}
	allow := corsConfig(cfg).AllowOriginFunc
	assert.True(t, allow("https://admin.folio.example"))
	assert.True(t, allow("https://site.example"))
	assert.False(t, allow("https://evil.example"))

	cfg.Env = "development"
	assert.True(t, corsConfig(cfg).AllowOriginFunc("https://evil.example"))
}
