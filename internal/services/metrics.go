package services

import (
	"github.com/shopspring/decimal"

	"restaurant-dashboard/internal/models"
)

// Metrics computes the headline figures over records. The dashboard passes
// the whole store here, not the filtered selection.
func Metrics(records []models.TransactionRecord) models.SalesMetrics {
	if len(records) == 0 {
		return models.SalesMetrics{NoData: true}
	}

	var m models.SalesMetrics
	m.TotalRevenue = Total(records)
	for _, rec := range records {
		m.TotalQuantity += rec.Quantity
	}
	m.Orders = len(records)
	m.AverageOrderValue = m.TotalRevenue.Div(decimal.NewFromInt(int64(m.Orders)))
	return m
}
