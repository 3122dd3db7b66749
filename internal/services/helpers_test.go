package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/models"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return d
}

func rec(t *testing.T, date, item string, qty int, total string) models.TransactionRecord {
	t.Helper()
	return models.TransactionRecord{
		Date:     day(t, date),
		Item:     item,
		Quantity: qty,
		Total:    decimal.RequireFromString(total),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// scenarioRecords is the tea and coffee example used across the tests.
func scenarioRecords(t *testing.T) []models.TransactionRecord {
	return []models.TransactionRecord{
		rec(t, "2024-01-01", "Tea", 2, "40"),
		rec(t, "2024-01-02", "Tea", 1, "20"),
		rec(t, "2024-02-01", "Coffee", 3, "90"),
	}
}
