package services

import (
	"restaurant-dashboard/internal/models"
)

// RecordFilter narrows a record set. A nil or empty Items means every item;
// a nil Range means every date.
type RecordFilter struct {
	Items []string
	Range *models.DateRange
}

func (f RecordFilter) IsZero() bool {
	return len(f.Items) == 0 && f.Range == nil
}

// Filter returns the records matching f. The input is never modified; with
// no criteria the input slice itself is returned.
func Filter(records []models.TransactionRecord, f RecordFilter) []models.TransactionRecord {
	if f.IsZero() {
		return records
	}
	if f.Range != nil && !f.Range.Valid() {
		return []models.TransactionRecord{}
	}

	var wanted map[string]struct{}
	if len(f.Items) > 0 {
		wanted = make(map[string]struct{}, len(f.Items))
		for _, item := range f.Items {
			wanted[item] = struct{}{}
		}
	}

	out := make([]models.TransactionRecord, 0, len(records))
	for _, rec := range records {
		if wanted != nil {
			if _, ok := wanted[rec.Item]; !ok {
				continue
			}
		}
		if f.Range != nil && !f.Range.Contains(rec.Date) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
