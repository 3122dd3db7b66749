package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	records := scenarioRecords(t)
	store := NewStore("items.csv", records)

	records[0].Item = "changed"

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, "items.csv", store.Source())
	assert.Equal(t, "Tea", store.Records()[0].Item)
	assert.Equal(t, []string{"Coffee", "Tea"}, store.Items())
	assert.False(t, store.LoadedAt().IsZero())

	span, ok := store.Span()
	require.True(t, ok)
	assert.Equal(t, day(t, "2024-01-01"), span.Start)
	assert.Equal(t, day(t, "2024-02-01"), span.End)
}

func TestStore_Empty(t *testing.T) {
	store := NewStore("", nil)

	_, ok := store.Span()
	assert.False(t, ok)
	assert.Empty(t, store.Items())
	assert.Zero(t, store.Len())
}
