package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-dashboard/internal/models"
)

const (
	MsgInsufficientData = "Insufficient data to analyze the sales trend effectively."
	MsgNoSalesData      = "No sales data available for the current selection."
)

// MaxWindow is the largest moving-average window offered for n periods.
func MaxWindow(n int) int {
	if n > 2 {
		return n / 2
	}
	return 2
}

// EffectiveWindow resolves a requested window for n periods. A non-positive
// request selects min(5, n-1); anything else is clamped into [1, MaxWindow(n)].
func EffectiveWindow(requested, n int) int {
	w := requested
	if w <= 0 {
		w = min(5, n-1)
	}
	return max(1, min(w, MaxWindow(n)))
}

// MovingAverage is the simple moving average of values over window, with
// partial windows at the start so every position has a value.
func MovingAverage(values []decimal.Decimal, window int) []decimal.Decimal {
	if window < 1 {
		window = 1
	}

	out := make([]decimal.Decimal, len(values))
	sum := decimal.Zero
	for i, v := range values {
		sum = sum.Add(v)
		if i >= window {
			sum = sum.Sub(values[i-window])
		}
		count := min(i+1, window)
		out[i] = sum.Div(decimal.NewFromInt(int64(count)))
	}
	return out
}

// Summarize builds the trend points and the plain-language conclusion for an
// aggregated series. Fewer than two periods yields no comparison and ignores window.
func Summarize(periods []models.AggregatedPeriod, window int, g models.Granularity) models.TrendSummary {
	switch len(periods) {
	case 0:
		return models.TrendSummary{
			Status:     models.TrendNoData,
			Points:     []models.TrendPoint{},
			Conclusion: MsgNoSalesData,
		}
	case 1:
		return models.TrendSummary{
			Status: models.TrendInsufficient,
			Points: []models.TrendPoint{{
				Period:        periods[0].Period,
				Revenue:       periods[0].TotalRevenue,
				MovingAverage: periods[0].TotalRevenue,
			}},
			Conclusion: MsgInsufficientData,
		}
	}

	w := EffectiveWindow(window, len(periods))

	revenue := make([]decimal.Decimal, len(periods))
	for i, p := range periods {
		revenue[i] = p.TotalRevenue
	}
	sma := MovingAverage(revenue, w)

	points := make([]models.TrendPoint, len(periods))
	for i, p := range periods {
		points[i] = models.TrendPoint{
			Period:        p.Period,
			Revenue:       p.TotalRevenue,
			MovingAverage: sma[i],
		}
	}

	last := revenue[len(revenue)-1]
	previous := revenue[len(revenue)-2]

	summary := models.TrendSummary{Window: w, Points: points}
	switch last.Cmp(previous) {
	case 1:
		summary.Status = models.TrendIncreasing
		summary.Conclusion = fmt.Sprintf("The sales trend shows an increasing pattern in the recent %s.", g)
	case -1:
		summary.Status = models.TrendDecreasing
		summary.Conclusion = fmt.Sprintf("The sales trend indicates a decreasing pattern in the recent %s.", g)
	default:
		summary.Status = models.TrendStable
		summary.Conclusion = fmt.Sprintf("The sales trend appears relatively stable in the recent %s.", g)
	}

	switch last.Cmp(sma[len(sma)-1]) {
	case 1:
		summary.Relation = models.AboveAverage
		summary.Conclusion += " Current sales are above the average trend."
	case -1:
		summary.Relation = models.BelowAverage
		summary.Conclusion += " Current sales are below the average trend."
	default:
		summary.Relation = models.InLineAverage
		summary.Conclusion += " Current sales are in line with the average trend."
	}

	return summary
}
