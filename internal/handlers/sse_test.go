package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/services"
)

func newTestSSEHandlers() *SSEHandlers {
	return NewSSEHandlers(createTestAnalytics(), services.DefaultQuery(), format.New("₹"), testLogger())
}

func signalsRequest(path, signals string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path+"?datastar="+url.QueryEscape(signals), nil)
}

func TestSSEHandlers_HandleDashboard(t *testing.T) {
	h := newTestSSEHandlers()

	rr := httptest.NewRecorder()
	h.HandleDashboard(rr, signalsRequest("/sse/dashboard", `{"items":["Tea"],"granularity":"Monthly","charts":["Bar","Line"],"window":0,"topView":"Overall","topN":3}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/event-stream")

	body := rr.Body.String()
	for _, id := range []string{"sales-content", "trend-content", "top-items-content", "metrics-content", "notices-content"} {
		assert.Contains(t, body, id)
	}
	assert.Contains(t, body, "Sale Analysis for: Tea (Viewed Monthly)")
	assert.Contains(t, body, "2024-01")
	assert.Contains(t, body, "₹ 60.00")
	assert.Contains(t, body, "Top 3 Most Sold Items (Viewed by Overall)")
	assert.Contains(t, body, services.WarnTrendTooFew)
	assert.Contains(t, body, "chartData")
}

func TestSSEHandlers_HandleDashboard_EmptySelectionClearsCharts(t *testing.T) {
	h := newTestSSEHandlers()

	rr := httptest.NewRecorder()
	h.HandleDashboard(rr, signalsRequest("/sse/dashboard", `{"items":["Lassi"],"charts":["Bar","Line"]}`))

	body := rr.Body.String()
	assert.Contains(t, body, services.WarnBarNoData)
	assert.Contains(t, body, `"labels":[]`)
	assert.Contains(t, body, `"revenue":[]`)
	assert.Contains(t, body, `"moving_average":[]`)
}

func TestSSEHandlers_HandleDashboard_InvalidSignals(t *testing.T) {
	h := newTestSSEHandlers()

	rr := httptest.NewRecorder()
	h.HandleDashboard(rr, signalsRequest("/sse/dashboard", `{"granularity":"Hourly"}`))

	body := rr.Body.String()
	assert.Contains(t, body, "notices-content")
	assert.Contains(t, body, "INVALID_QUERY")
	assert.NotContains(t, body, "sales-content")
}

func TestSSEHandlers_HandleDashboard_UndecodableSignals(t *testing.T) {
	h := newTestSSEHandlers()

	rr := httptest.NewRecorder()
	h.HandleDashboard(rr, signalsRequest("/sse/dashboard", `{"topN":"five"`))

	body := rr.Body.String()
	assert.Contains(t, body, "notices-content")
	assert.Contains(t, body, "INVALID_SIGNALS")
	assert.NotContains(t, body, "sales-content")
}

func TestSSEHandlers_HandleTopItems(t *testing.T) {
	h := newTestSSEHandlers()

	rr := httptest.NewRecorder()
	h.HandleTopItems(rr, signalsRequest("/sse/top-items", `{"topView":"Yearly","topN":2}`))

	body := rr.Body.String()
	assert.Contains(t, body, "top-items-content")
	assert.Contains(t, body, "<th>Period</th>")
	assert.Contains(t, body, "Samosa")
	assert.NotContains(t, body, "sales-content")
}

func TestSSEHandlers_renderTopItems_Empty(t *testing.T) {
	h := newTestSSEHandlers()

	html, err := h.renderTopItems(models.RankMonthly, 5, nil)
	require.NoError(t, err)

	assert.Contains(t, html, "No monthly sales data available to determine the top items.")
	assert.False(t, strings.Contains(html, "<table"))
}

func TestSSEHandlers_renderSales_Escapes(t *testing.T) {
	h := newTestSSEHandlers()

	html, err := h.render("sales", salesView{
		Selection:   "<script>alert(1)</script>",
		Granularity: models.Yearly,
		MaxRows:     maxTableRows,
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "No sales recorded for this selection.")
}
