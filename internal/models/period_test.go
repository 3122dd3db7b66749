package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodOf(t *testing.T) {
	tests := []struct {
		name  string
		t     time.Time
		g     Granularity
		label string
	}{
		{"yearly", date(2024, 3, 9), Yearly, "2024"},
		{"monthly pads month", date(2024, 3, 9), Monthly, "2024-03"},
		{"weekly", date(2024, 3, 6), Weekly, "10-2024"},
		{"weekly belongs to previous iso year", date(2021, 1, 1), Weekly, "53-2020"},
		{"weekly belongs to next iso year", date(2024, 12, 30), Weekly, "1-2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label, PeriodOf(tt.t, tt.g).Label)
		})
	}
}

func TestPeriodOf_YearlyCarriesYear(t *testing.T) {
	p := PeriodOf(date(2024, 3, 9), Yearly)
	assert.Equal(t, 2024, p.Year)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"2024","year":2024}`, string(b))

	b, err = json.Marshal(PeriodOf(date(2024, 3, 9), Monthly))
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"2024-03"}`, string(b))
}

func TestPeriodOf_OrdinalIsChronological(t *testing.T) {
	days := []time.Time{
		date(2023, 12, 25),
		date(2024, 1, 1),
		date(2024, 1, 8),
		date(2024, 3, 4),
		date(2024, 11, 25),
		date(2025, 1, 6),
	}

	for _, g := range []Granularity{Yearly, Monthly, Weekly} {
		for i := 1; i < len(days); i++ {
			prev, cur := PeriodOf(days[i-1], g), PeriodOf(days[i], g)
			assert.LessOrEqual(t, prev.Ordinal, cur.Ordinal, "%s: %s then %s", g, prev.Label, cur.Label)
		}
	}

	// label order would put "10-2024" before "9-2024"
	assert.Less(t, PeriodOf(date(2024, 2, 26), Weekly).Ordinal, PeriodOf(date(2024, 3, 4), Weekly).Ordinal)
}

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]Granularity{"Yearly": Yearly, "month": Monthly, " WEEKLY ": Weekly} {
		got, err := ParseGranularity(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseGranularity("Daily")
	assert.Error(t, err)
}

func TestParseRankView(t *testing.T) {
	v, err := ParseRankView("")
	require.NoError(t, err)
	assert.Equal(t, RankOverall, v)

	v, err = ParseRankView("weekly")
	require.NoError(t, err)
	g, timed := v.Granularity()
	assert.True(t, timed)
	assert.Equal(t, Weekly, g)

	_, timed = RankOverall.Granularity()
	assert.False(t, timed)

	_, err = ParseRankView("Quarterly")
	assert.Error(t, err)
}

func TestParseChartKind(t *testing.T) {
	for in, want := range map[string]ChartKind{"Bar Chart": ChartBar, "line": ChartLine, "Scatter Plot": ChartScatter} {
		got, err := ParseChartKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseChartKind("Pie")
	assert.Error(t, err)
}

func TestDateRange(t *testing.T) {
	r := DateRange{Start: date(2024, 1, 1), End: date(2024, 1, 31)}

	assert.True(t, r.Valid())
	assert.True(t, r.Contains(date(2024, 1, 1)))
	assert.True(t, r.Contains(date(2024, 1, 31)))
	assert.False(t, r.Contains(date(2024, 2, 1)))

	inverted := DateRange{Start: r.End, End: r.Start}
	assert.False(t, inverted.Valid())
	assert.False(t, inverted.Contains(date(2024, 1, 15)))
}
