package services

import (
	"slices"

	"restaurant-dashboard/internal/models"
)

type BucketedRecord struct {
	Period models.Period
	Record models.TransactionRecord
}

// Bucket labels every record with its period under g and orders the result
// chronologically by period. Records within one period keep their input order.
func Bucket(records []models.TransactionRecord, g models.Granularity) []BucketedRecord {
	out := make([]BucketedRecord, len(records))
	for i, rec := range records {
		out[i] = BucketedRecord{Period: models.PeriodOf(rec.Date, g), Record: rec}
	}

	// Weekly labels such as "9-2024" and "10-2024" do not sort as text, so
	// ordering always goes through the ordinal.
	slices.SortStableFunc(out, func(a, b BucketedRecord) int {
		return a.Period.Ordinal - b.Period.Ordinal
	})
	return out
}
