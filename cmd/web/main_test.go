package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/middleware"
	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/observability"
	"restaurant-dashboard/internal/server"
	"restaurant-dashboard/internal/services"
)

func newTestAnalytics() *services.Analytics {
	day := func(s string) time.Time {
		t, _ := time.Parse(time.DateOnly, s)
		return t
	}
	store := services.NewStore("Items.xlsx", []models.TransactionRecord{
		{Date: day("2024-01-01"), Item: "Tea", Quantity: 2, Total: decimal.NewFromInt(40)},
		{Date: day("2024-01-02"), Item: "Tea", Quantity: 1, Total: decimal.NewFromInt(20)},
		{Date: day("2024-02-01"), Item: "Coffee", Quantity: 3, Total: decimal.NewFromInt(90)},
	})
	return services.NewAnalytics(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestServer(t *testing.T) (http.Handler, *observability.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analytics := newTestAnalytics()
	metrics := observability.NewMetrics()
	analytics.SetObserver(metrics)
	defaults := services.DefaultQuery()

	srv := server.NewServer(analytics, logger,
		&server.TemplateHandlers{Dashboard: dashboardHandler(analytics, defaults)},
		server.Options{Defaults: defaults, Formatter: format.New("₹"), Metrics: metrics},
	)

	security := config.SecurityConfig{
		RateLimitRPS:   100,
		RateLimitBurst: 10,
		AllowedOrigins: []string{"http://localhost:8080"},
	}
	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(security),
		middleware.Metrics(metrics),
	)
	return chain(srv), metrics
}

func TestServer_Routes(t *testing.T) {
	handler, _ := newTestServer(t)

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/metrics", http.StatusOK, "text/plain"},
		{"/api/items", http.StatusOK, "application/json"},
		{"/api/sales", http.StatusOK, "application/json"},
		{"/api/top-items?view=Monthly&n=3", http.StatusOK, "application/json"},
		{"/api/metrics/summary", http.StatusOK, "application/json"},
		{"/sse/dashboard?datastar=" + url.QueryEscape(`{"granularity":"Yearly"}`), http.StatusOK, "text/event-stream"},
		{"/sse/top-items?datastar=" + url.QueryEscape(`{"topView":"Weekly","topN":1}`), http.StatusOK, "text/event-stream"},
		{"/api/sales?granularity=Hourly", http.StatusBadRequest, "application/json"},
		{"/missing", http.StatusNotFound, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Header().Get("Content-Type"), tt.contentType)
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestServer_SalesJSON(t *testing.T) {
	handler, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sales?granularity=Monthly", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    services.Report `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Periods, 2)
	assert.Equal(t, "2024-01", resp.Data.Periods[0].Period.Label)
	assert.Equal(t, "The sales trend shows an increasing pattern in the recent Monthly. Current sales are in line with the average trend.", resp.Data.TrendDescription)
}

func TestServer_MetricsRecorded(t *testing.T) {
	handler, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sales", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `dashboard_http_requests_total{method="GET",route="GET /api/sales",status="200"} 1`)
	assert.Contains(t, body, `dashboard_recompute_duration_seconds_count{granularity="Monthly"} 1`)
}

func TestDashboardTemplate(t *testing.T) {
	analytics := newTestAnalytics()
	handler := dashboardHandler(analytics, services.DefaultQuery())

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Restaurant Sales Analysis Dashboard")
	assert.Contains(t, body, `<option value="Coffee">Coffee</option>`)
	assert.Contains(t, body, "/sse/dashboard")
	assert.Contains(t, body, "2024-01-01")
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
}

func TestDefaultQuery(t *testing.T) {
	cfg := &config.Config{Dashboard: config.DashboardConfig{DefaultTopN: 3, DefaultGranularity: "weekly"}}

	q := defaultQuery(cfg)

	assert.Equal(t, models.Weekly, q.Granularity)
	assert.Equal(t, 3, q.TopN)
	assert.Equal(t, models.RankOverall, q.TopView)
}

func TestNewLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("when,what,count,amount\n2024-05-01,Lassi,2,80\n"), 0o644))

	cfg := &config.Config{Data: config.DataConfig{
		Columns: config.ColumnConfig{Date: "when", Item: "what", Quantity: "count", Total: "amount"},
	}}
	loader, err := newLoader(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	store, err := loader.Load(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lassi"}, store.Items())
}

func TestLoadStore_ServesEmptyOnFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader, err := newLoader(&config.Config{}, logger)
	require.NoError(t, err)

	store, loadErr := loadStore(t.Context(), loader, filepath.Join(t.TempDir(), "missing.xlsx"), time.Second)
	require.Error(t, loadErr)
	assert.Equal(t, 0, store.Len())

	analytics := services.NewAnalytics(store, logger)
	srv := server.NewServer(analytics, logger,
		&server.TemplateHandlers{Dashboard: dashboardHandler(analytics, services.DefaultQuery())},
		server.Options{LoadError: loadErr},
	)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "SOURCE_NOT_LOADED")

	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
