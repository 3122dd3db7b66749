package services

import (
	"cmp"
	"slices"

	"restaurant-dashboard/internal/models"
)

const (
	MinTopN     = 1
	MaxTopN     = 10
	DefaultTopN = 5
)

type rankKey struct {
	period models.Period
	item   string
}

// Rank returns the n best-selling items by summed quantity. For time views
// the grouping is (period, item) and the top n is taken across all periods.
// Groups are ordered by key before ranking, so equal quantities keep the
// earlier period and then the alphabetically earlier item first.
func Rank(records []models.TransactionRecord, view models.RankView, n int) []models.RankedItem {
	n = max(MinTopN, min(n, MaxTopN))
	g, timed := view.Granularity()

	totals := make(map[rankKey]int)
	for _, rec := range records {
		key := rankKey{item: rec.Item}
		if timed {
			key.period = models.PeriodOf(rec.Date, g)
		}
		totals[key] += rec.Quantity
	}

	keys := make([]rankKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b rankKey) int {
		return cmp.Or(cmp.Compare(a.period.Ordinal, b.period.Ordinal), cmp.Compare(a.item, b.item))
	})
	slices.SortStableFunc(keys, func(a, b rankKey) int {
		return cmp.Compare(totals[b], totals[a])
	})

	if len(keys) > n {
		keys = keys[:n]
	}

	result := make([]models.RankedItem, len(keys))
	for i, k := range keys {
		item := models.RankedItem{Item: k.item, TotalQty: totals[k]}
		if timed {
			period := k.period
			item.Period = &period
		}
		result[i] = item
	}
	return result
}
