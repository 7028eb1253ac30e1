package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sociallens/internal/config"
)

func testRouterConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			RateLimitRPS:   100,
			RateLimitBurst: 50,
		},
		Logging:   config.LoggingConfig{Level: "info", Format: "json"},
		Workbook:  config.WorkbookConfig{Kind: "excel", SourceID: "tracker.xlsx"},
		Analytics: config.AnalyticsConfig{SmoothingWindowDays: 7},
	}
}

func newTestRouter(svc AnalyticsService) http.Handler {
	return NewRouter(RouterDeps{
		Config:  testRouterConfig(),
		Service: svc,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version: "test",
	})
}

func TestRouter_HealthEndpoints(t *testing.T) {
	router := newTestRouter(&mockAnalyticsService{})

	for _, target := range []string{"/api/health", "/api/health/live", "/api/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestRouter_AnalyticsMounted(t *testing.T) {
	svc := &mockAnalyticsService{accounts: []string{"creator_one"}}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/accounts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_NotFoundIsProblemJSON(t *testing.T) {
	router := newTestRouter(&mockAnalyticsService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/not-found", problem["type"])
}

func TestRouter_MetricsExposed(t *testing.T) {
	router := newTestRouter(&mockAnalyticsService{})

	warmup := httptest.NewRecorder()
	router.ServeHTTP(warmup, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sociallens_http_requests_total")
}
