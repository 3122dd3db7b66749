package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/models"
)

func labels(periods []models.AggregatedPeriod) []string {
	out := make([]string, len(periods))
	for i, p := range periods {
		out[i] = p.Period.Label
	}
	return out
}

func TestAggregate_MonthlyScenario(t *testing.T) {
	got := Aggregate(Bucket(scenarioRecords(t), models.Monthly))

	require.Len(t, got, 2)
	assert.Equal(t, "2024-01", got[0].Period.Label)
	assert.True(t, dec("60").Equal(got[0].TotalRevenue))
	assert.Equal(t, 3, got[0].TotalQty)
	assert.Equal(t, "2024-02", got[1].Period.Label)
	assert.True(t, dec("90").Equal(got[1].TotalRevenue))
	assert.Equal(t, 3, got[1].TotalQty)
}

func TestAggregate_Yearly(t *testing.T) {
	records := []models.TransactionRecord{
		rec(t, "2024-06-01", "Tea", 1, "10"),
		rec(t, "2023-03-01", "Tea", 2, "20"),
		rec(t, "2024-01-01", "Tea", 3, "30"),
	}

	got := Aggregate(Bucket(records, models.Yearly))

	assert.Equal(t, []string{"2023", "2024"}, labels(got))
	assert.True(t, dec("40").Equal(got[1].TotalRevenue))
	assert.Equal(t, 4, got[1].TotalQty)
}

func TestAggregate_WeeklyCrossesYearBoundary(t *testing.T) {
	records := []models.TransactionRecord{
		rec(t, "2024-01-03", "Tea", 1, "10"), // week 1 of 2024
		rec(t, "2024-03-01", "Tea", 1, "10"), // week 9 of 2024
		rec(t, "2023-12-28", "Tea", 1, "10"), // week 52 of 2023
		rec(t, "2024-03-06", "Tea", 1, "10"), // week 10 of 2024
		rec(t, "2024-12-30", "Tea", 1, "10"), // week 1 of 2025
	}

	got := Aggregate(Bucket(records, models.Weekly))

	assert.Equal(t, []string{"52-2023", "1-2024", "9-2024", "10-2024", "1-2025"}, labels(got))
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(Bucket(nil, models.Weekly))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregate_ConservesRevenue(t *testing.T) {
	records := []models.TransactionRecord{
		rec(t, "2023-12-31", "Tea", 1, "10.10"),
		rec(t, "2024-01-01", "Coffee", 2, "99.99"),
		rec(t, "2024-01-08", "Tea", 1, "0.01"),
		rec(t, "2024-02-29", "Samosa", 5, "125.50"),
		rec(t, "2025-07-04", "Tea", 3, "60"),
	}

	for _, g := range []models.Granularity{models.Yearly, models.Monthly, models.Weekly} {
		t.Run(string(g), func(t *testing.T) {
			periods := Aggregate(Bucket(records, g))

			sum := dec("0")
			qty := 0
			for _, p := range periods {
				sum = sum.Add(p.TotalRevenue)
				qty += p.TotalQty
			}
			assert.True(t, Total(records).Equal(sum), "revenue %s != %s", sum, Total(records))
			assert.Equal(t, 12, qty)
		})
	}
}

func TestBucket_KeepsInputOrderWithinPeriod(t *testing.T) {
	records := []models.TransactionRecord{
		rec(t, "2024-02-10", "B", 1, "1"),
		rec(t, "2024-01-10", "A", 1, "1"),
		rec(t, "2024-02-01", "C", 1, "1"),
	}

	got := Bucket(records, models.Monthly)

	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Record.Item)
	assert.Equal(t, "B", got[1].Record.Item)
	assert.Equal(t, "C", got[2].Record.Item)
}
