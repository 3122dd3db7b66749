package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Granularity string

const (
	Yearly  Granularity = "Yearly"
	Monthly Granularity = "Monthly"
	Weekly  Granularity = "Weekly"
)

func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yearly", "year":
		return Yearly, nil
	case "monthly", "month":
		return Monthly, nil
	case "weekly", "week":
		return Weekly, nil
	}
	return "", fmt.Errorf("unknown granularity %q, must be one of: Yearly, Monthly, Weekly", s)
}

// Period is a time bucket. Label is what users see; Ordinal orders buckets
// chronologically within one granularity. Year is set for yearly buckets
// only, so JSON consumers get the year as a number.
type Period struct {
	Label   string `json:"label"`
	Year    int    `json:"year,omitempty"`
	Ordinal int    `json:"-"`
}

// PeriodOf derives the bucket t falls into. Weekly buckets use the ISO week
// and ISO week year, labelled "<week>-<year>".
func PeriodOf(t time.Time, g Granularity) Period {
	switch g {
	case Yearly:
		return Period{Label: strconv.Itoa(t.Year()), Year: t.Year(), Ordinal: t.Year()}
	case Weekly:
		year, week := t.ISOWeek()
		return Period{Label: fmt.Sprintf("%d-%d", week, year), Ordinal: year*100 + week}
	default:
		return Period{Label: t.Format("2006-01"), Ordinal: t.Year()*100 + int(t.Month())}
	}
}

type RankView string

const (
	RankOverall RankView = "Overall"
	RankYearly  RankView = "Yearly"
	RankMonthly RankView = "Monthly"
	RankWeekly  RankView = "Weekly"
)

func ParseRankView(s string) (RankView, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overall", "":
		return RankOverall, nil
	case "yearly", "year":
		return RankYearly, nil
	case "monthly", "month":
		return RankMonthly, nil
	case "weekly", "week":
		return RankWeekly, nil
	}
	return "", fmt.Errorf("unknown top items view %q, must be one of: Overall, Yearly, Monthly, Weekly", s)
}

// Granularity reports the bucket derivation for a time-based view. The
// second result is false for RankOverall.
func (v RankView) Granularity() (Granularity, bool) {
	switch v {
	case RankYearly:
		return Yearly, true
	case RankMonthly:
		return Monthly, true
	case RankWeekly:
		return Weekly, true
	}
	return "", false
}

type ChartKind string

const (
	ChartBar     ChartKind = "Bar"
	ChartLine    ChartKind = "Line"
	ChartScatter ChartKind = "Scatter"
)

func ParseChartKind(s string) (ChartKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bar", "bar chart":
		return ChartBar, nil
	case "line", "line chart":
		return ChartLine, nil
	case "scatter", "scatter plot":
		return ChartScatter, nil
	}
	return "", fmt.Errorf("unknown chart %q, must be one of: Bar, Line, Scatter", s)
}

type TrendStatus string

const (
	TrendIncreasing   TrendStatus = "increasing"
	TrendDecreasing   TrendStatus = "decreasing"
	TrendStable       TrendStatus = "stable"
	TrendInsufficient TrendStatus = "insufficient_data"
	TrendNoData       TrendStatus = "no_data"
)

type AverageRelation string

const (
	AboveAverage  AverageRelation = "above"
	BelowAverage  AverageRelation = "below"
	InLineAverage AverageRelation = "in_line"
)

type TrendSummary struct {
	Status     TrendStatus     `json:"status"`
	Relation   AverageRelation `json:"relation,omitempty"`
	Window     int             `json:"window,omitempty"`
	Points     []TrendPoint    `json:"points"`
	Conclusion string          `json:"conclusion"`
}
