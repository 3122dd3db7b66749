package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/observability"
)

const (
	WarnBarNoData      = "No data to display for the bar chart based on the current selection."
	WarnScatterNoData  = "No data to display for the scatter plot based on the current selection."
	WarnTrendNoData    = "No data to display the sales trend for the current selection."
	WarnTrendTooFew    = "Not enough data points for a meaningful trend prediction."
	WarnMetricsNoData  = "No overall sales data available."
	MsgTrendDescTooFew = "Not enough data to generate a meaningful sales trend prediction description."
	allItemsSelection  = "All Items"
	scatterInfoMessage = "Scatter Plot shows the distribution of daily sales."
)

// Query carries every user-facing parameter of one dashboard pass.
type Query struct {
	Items       []string
	Range       *models.DateRange
	Granularity models.Granularity
	Charts      []models.ChartKind
	Window      int
	TopView     models.RankView
	TopN        int
}

func DefaultQuery() Query {
	return Query{
		Granularity: models.Monthly,
		Charts:      []models.ChartKind{models.ChartBar, models.ChartLine},
		TopView:     models.RankOverall,
		TopN:        DefaultTopN,
	}
}

func (q Query) HasChart(kind models.ChartKind) bool {
	return slices.Contains(q.Charts, kind)
}

type ScatterPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type ChartData struct {
	Labels        []string       `json:"labels"`
	Revenue       []float64      `json:"revenue"`
	MovingAverage []float64      `json:"moving_average"`
	Scatter       []ScatterPoint `json:"scatter"`
	ShowBar       bool           `json:"show_bar"`
	ShowLine      bool           `json:"show_line"`
	ShowScatter   bool           `json:"show_scatter"`
}

type Report struct {
	Selection        string                    `json:"selection"`
	Granularity      models.Granularity        `json:"granularity"`
	RecordCount      int                       `json:"record_count"`
	Periods          []models.AggregatedPeriod `json:"periods"`
	Trend            models.TrendSummary       `json:"trend"`
	TrendDescription string                    `json:"trend_description,omitempty"`
	TopView          models.RankView           `json:"top_view"`
	TopN             int                       `json:"top_n"`
	TopItems         []models.RankedItem       `json:"top_items"`
	Metrics          models.SalesMetrics       `json:"metrics"`
	Charts           ChartData                 `json:"charts"`
	Warnings         []string                  `json:"warnings,omitempty"`
	Info             []string                  `json:"info,omitempty"`
}

// RecomputeObserver receives the duration of every dashboard pass.
type RecomputeObserver interface {
	ObserveRecompute(granularity string, records int, d time.Duration)
}

// Analytics runs the filter, bucket, aggregate, summarize and rank pipeline
// over one loaded Store. It holds no state besides the store, so it is safe
// for concurrent use.
type Analytics struct {
	store    *Store
	logger   *slog.Logger
	observer RecomputeObserver
}

func NewAnalytics(store *Store, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = NewStore("", nil)
	}
	return &Analytics{store: store, logger: logger}
}

func (a *Analytics) SetObserver(o RecomputeObserver) {
	a.observer = o
}

func (a *Analytics) Store() *Store {
	return a.store
}

func (a *Analytics) Items() []string {
	return a.store.Items()
}

func (a *Analytics) Span() (models.DateRange, bool) {
	return a.store.Span()
}

// Run performs one full recomputation for q.
func (a *Analytics) Run(ctx context.Context, q Query) Report {
	_, span := observability.StartSpan(ctx, "analytics.run")
	defer span.Finish()
	start := time.Now()

	if q.Granularity == "" {
		q.Granularity = models.Monthly
	}
	if q.TopView == "" {
		q.TopView = models.RankOverall
	}
	if q.TopN == 0 {
		q.TopN = DefaultTopN
	}

	all := a.store.Records()
	filtered := Filter(all, RecordFilter{Items: q.Items, Range: q.Range})
	periods := Aggregate(Bucket(filtered, q.Granularity))
	trend := Summarize(periods, q.Window, q.Granularity)

	report := Report{
		Selection:   selectionLabel(q.Items),
		Granularity: q.Granularity,
		RecordCount: len(filtered),
		Periods:     periods,
		Trend:       trend,
		TopView:     q.TopView,
		TopN:        max(MinTopN, min(q.TopN, MaxTopN)),
		TopItems:    Rank(all, q.TopView, q.TopN),
		Metrics:     Metrics(all),
	}
	report.Charts = buildCharts(q, trend, filtered)
	a.annotate(&report, q, filtered)

	span.SetTag("granularity", string(q.Granularity))
	span.SetTag("records", strconv.Itoa(len(filtered)))
	span.SetTag("periods", strconv.Itoa(len(periods)))

	duration := time.Since(start)
	if a.observer != nil {
		a.observer.ObserveRecompute(string(q.Granularity), len(filtered), duration)
	}
	a.logger.Debug("dashboard recomputed",
		"request_id", observability.GetRequestID(ctx),
		"granularity", q.Granularity,
		"records", len(filtered),
		"periods", len(periods),
		"duration", duration,
	)

	return report
}

func (a *Analytics) annotate(r *Report, q Query, filtered []models.TransactionRecord) {
	if q.HasChart(models.ChartBar) && len(r.Periods) == 0 {
		r.Warnings = append(r.Warnings, WarnBarNoData)
	}
	if q.HasChart(models.ChartScatter) {
		if len(filtered) == 0 {
			r.Warnings = append(r.Warnings, WarnScatterNoData)
		} else {
			r.Info = append(r.Info, scatterInfoMessage)
		}
	}
	if q.HasChart(models.ChartLine) {
		switch len(r.Periods) {
		case 0:
			r.Warnings = append(r.Warnings, WarnTrendNoData)
			r.TrendDescription = MsgTrendDescTooFew
		case 1:
			r.Warnings = append(r.Warnings, WarnTrendTooFew)
			r.TrendDescription = MsgTrendDescTooFew
		default:
			r.TrendDescription = r.Trend.Conclusion
		}
	}
	if len(r.TopItems) == 0 {
		r.Warnings = append(r.Warnings, TopItemsWarning(q.TopView))
	}
	if r.Metrics.NoData {
		r.Warnings = append(r.Warnings, WarnMetricsNoData)
	}
}

// TopItemsWarning is the message shown when view has nothing to rank.
func TopItemsWarning(view models.RankView) string {
	if view == models.RankOverall {
		return "No sales data available to determine the top items."
	}
	return fmt.Sprintf("No %s sales data available to determine the top items.", strings.ToLower(string(view)))
}

func selectionLabel(items []string) string {
	if len(items) == 0 {
		return allItemsSelection
	}
	return strings.Join(items, ", ")
}

// buildCharts always fills every series, empty when there is nothing to
// draw, so a signal patch replaces the previous selection's data.
func buildCharts(q Query, trend models.TrendSummary, filtered []models.TransactionRecord) ChartData {
	c := ChartData{
		Labels:        []string{},
		Revenue:       []float64{},
		MovingAverage: []float64{},
		Scatter:       []ScatterPoint{},
		ShowBar:       q.HasChart(models.ChartBar),
		ShowLine:      q.HasChart(models.ChartLine),
		ShowScatter:   q.HasChart(models.ChartScatter),
	}

	if c.ShowBar || c.ShowLine {
		for _, p := range trend.Points {
			c.Labels = append(c.Labels, p.Period.Label)
			c.Revenue = append(c.Revenue, p.Revenue.InexactFloat64())
		}
	}
	if c.ShowLine && len(trend.Points) > 1 {
		for _, p := range trend.Points {
			c.MovingAverage = append(c.MovingAverage, p.MovingAverage.Round(2).InexactFloat64())
		}
	}
	if c.ShowScatter {
		for _, rec := range filtered {
			c.Scatter = append(c.Scatter, ScatterPoint{Date: rec.Date.Format(time.DateOnly), Total: rec.Total.InexactFloat64()})
		}
	}
	return c
}

// Stats reports the state of the loaded store for monitoring.
func (a *Analytics) Stats() map[string]any {
	stats := map[string]any{
		"record_count": a.store.Len(),
		"source":       a.store.Source(),
		"loaded_at":    a.store.LoadedAt(),
		"items":        len(a.store.Items()),
	}
	if span, ok := a.store.Span(); ok {
		stats["first_date"] = span.Start.Format(time.DateOnly)
		stats["last_date"] = span.End.Format(time.DateOnly)
	}
	return stats
}

// Total sums the revenue column of records.
func Total(records []models.TransactionRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, rec := range records {
		sum = sum.Add(rec.Total)
	}
	return sum
}
