package services

import (
	"slices"
	"time"

	"restaurant-dashboard/internal/models"
)

// Store is the immutable record table loaded from one source. Callers build
// it once per process and pass it to the pipeline.
type Store struct {
	source   string
	records  []models.TransactionRecord
	loadedAt time.Time
}

func NewStore(source string, records []models.TransactionRecord) *Store {
	return &Store{
		source:   source,
		records:  slices.Clone(records),
		loadedAt: time.Now(),
	}
}

// Records returns the loaded rows. The slice is shared and must not be modified.
func (s *Store) Records() []models.TransactionRecord {
	return s.records
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) Source() string {
	return s.source
}

func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}

// Items lists the distinct item names in ascending order.
func (s *Store) Items() []string {
	seen := make(map[string]struct{}, 64)
	items := make([]string, 0, 64)
	for _, rec := range s.records {
		if _, ok := seen[rec.Item]; ok {
			continue
		}
		seen[rec.Item] = struct{}{}
		items = append(items, rec.Item)
	}
	slices.Sort(items)
	return items
}

// Span returns the earliest and latest record dates. ok is false for an empty store.
func (s *Store) Span() (span models.DateRange, ok bool) {
	if len(s.records) == 0 {
		return models.DateRange{}, false
	}
	span = models.DateRange{Start: s.records[0].Date, End: s.records[0].Date}
	for _, rec := range s.records[1:] {
		if rec.Date.Before(span.Start) {
			span.Start = rec.Date
		}
		if rec.Date.After(span.End) {
			span.End = rec.Date
		}
	}
	return span, true
}
