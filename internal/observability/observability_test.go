package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/config"
)

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "records", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, float64(3), entry["records"])
	assert.Contains(t, entry, "source")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("anything"))
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestSpan(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "GET /api/sales")
	_, child := StartSpan(ctx, "analytics.run")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.Same(t, parent, GetSpan(ctx))

	child.SetTag("granularity", "Weekly")
	child.SetError(errors.New("bad"))
	time.Sleep(time.Millisecond)
	child.Finish()

	assert.Equal(t, SpanStatusError, child.Status)
	assert.Positive(t, child.Duration)

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("done", "span", child)
	assert.Contains(t, buf.String(), `"granularity":"Weekly"`)
	assert.Contains(t, buf.String(), `"operation":"analytics.run"`)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.SetLoadedRecords(42)
	m.ObserveRequest(http.MethodGet, "GET /api/sales", http.StatusOK, 5*time.Millisecond)
	m.ObserveRecompute("Weekly", 10, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	assert.Contains(t, body, "dashboard_loaded_records 42")
	assert.Contains(t, body, `dashboard_http_requests_total{method="GET",route="GET /api/sales",status="200"} 1`)
	assert.Contains(t, body, `dashboard_recompute_duration_seconds_count{granularity="Weekly"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
