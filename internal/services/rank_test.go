package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/models"
)

func rankedNames(items []models.RankedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Item
	}
	return out
}

func TestRank_Overall(t *testing.T) {
	records := []models.TransactionRecord{
		rec(t, "2024-01-01", "A", 5, "5"),
		rec(t, "2024-01-01", "C", 4, "4"),
		rec(t, "2024-01-02", "B", 9, "9"),
		rec(t, "2024-01-03", "C", 5, "5"),
	}

	got := Rank(records, models.RankOverall, 2)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"B", "C"}, rankedNames(got))
	assert.Equal(t, 9, got[0].TotalQty)
	assert.Equal(t, 9, got[1].TotalQty)
	assert.Nil(t, got[0].Period)
}

func TestRank_TimedViewRanksAcrossPeriods(t *testing.T) {
	records := []models.TransactionRecord{
		rec(t, "2023-05-01", "Tea", 3, "30"),
		rec(t, "2024-05-01", "Tea", 7, "70"),
		rec(t, "2024-06-01", "Coffee", 4, "80"),
		rec(t, "2023-06-01", "Coffee", 7, "140"),
	}

	got := Rank(records, models.RankYearly, 3)

	require.Len(t, got, 3)
	require.NotNil(t, got[0].Period)
	// ties keep the earlier period first
	assert.Equal(t, "2023", got[0].Period.Label)
	assert.Equal(t, 2023, got[0].Period.Year)
	assert.Equal(t, "Coffee", got[0].Item)
	assert.Equal(t, "2024", got[1].Period.Label)
	assert.Equal(t, "Tea", got[1].Item)
	assert.Equal(t, "Coffee", got[2].Item)
	assert.Equal(t, 4, got[2].TotalQty)
}

func TestRank_ClampsN(t *testing.T) {
	var records []models.TransactionRecord
	for _, item := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		records = append(records, rec(t, "2024-01-01", item, 1, "1"))
	}

	assert.Len(t, Rank(records, models.RankOverall, 0), MinTopN)
	assert.Len(t, Rank(records, models.RankOverall, 99), MaxTopN)
	assert.Len(t, Rank(records[:3], models.RankOverall, 5), 3)
}

func TestRank_Empty(t *testing.T) {
	got := Rank(nil, models.RankWeekly, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
