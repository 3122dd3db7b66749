package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(date string, item string, qty int, total string) models.TransactionRecord {
	d, _ := time.Parse(time.DateOnly, date)
	return models.TransactionRecord{Date: d, Item: item, Quantity: qty, Total: decimal.RequireFromString(total)}
}

func createTestAnalytics() *services.Analytics {
	store := services.NewStore("Items.xlsx", []models.TransactionRecord{
		record("2023-12-28", "Samosa", 4, "60"),
		record("2024-01-01", "Tea", 2, "40"),
		record("2024-01-02", "Tea", 1, "20"),
		record("2024-02-01", "Coffee", 3, "90"),
	})
	return services.NewAnalytics(store, testLogger())
}

func newTestAPIHandlers() *APIHandlers {
	return NewAPIHandlers(createTestAnalytics(), services.DefaultQuery(), format.New("₹"), testLogger())
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}
