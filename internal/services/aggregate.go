package services

import (
	"restaurant-dashboard/internal/models"
)

// Aggregate sums revenue and quantity per period, keeping the order in which
// periods first appear. Fed from Bucket that order is chronological.
func Aggregate(bucketed []BucketedRecord) []models.AggregatedPeriod {
	result := make([]models.AggregatedPeriod, 0)
	index := make(map[string]int)

	for _, b := range bucketed {
		i, ok := index[b.Period.Label]
		if !ok {
			i = len(result)
			index[b.Period.Label] = i
			result = append(result, models.AggregatedPeriod{Period: b.Period})
		}
		result[i].TotalRevenue = result[i].TotalRevenue.Add(b.Record.Total)
		result[i].TotalQty += b.Record.Quantity
	}
	return result
}
