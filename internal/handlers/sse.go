package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/starfederation/datastar-go/datastar"

	"restaurant-dashboard/internal/errors"
	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/services"
)

const maxTableRows = 200

const salesTableSource = `
<div id="sales-content">
<h3>Sale Analysis for: {{.Selection}} (Viewed {{.Granularity}})</h3>
{{if .Periods}}<table class="modern-table">
<thead><tr><th>Period</th><th>Revenue</th><th>Quantity</th></tr></thead>
<tbody>
{{range $i, $p := .Periods}}{{if lt $i $.MaxRows}}<tr>
<td>{{$p.Period.Label}}</td>
<td><strong>{{money $p.TotalRevenue}}</strong></td>
<td>{{qty $p.TotalQty}}</td>
</tr>{{end}}{{end}}
</tbody>
</table>{{else}}<p class="empty">No sales recorded for this selection.</p>{{end}}
</div>`

const trendSource = `
<div id="trend-content">
{{if .Description}}<h3>Sale Trend Prediction Description</h3>
<p class="info">{{.Description}}</p>{{end}}
{{if .Window}}<p class="muted">Simple moving average over {{.Window}} period(s).</p>{{end}}
</div>`

const topItemsSource = `
<div id="top-items-content">
<h3>Top {{.TopN}} Most Sold Items (Viewed by {{.TopView}})</h3>
{{if .Items}}<table class="modern-table">
<thead><tr>{{if .Timed}}<th>Period</th>{{end}}<th>Item</th><th>Quantity</th></tr></thead>
<tbody>
{{range .Items}}<tr>
{{if $.Timed}}<td>{{if .Period}}{{.Period.Label}}{{end}}</td>{{end}}
<td>{{.Item}}</td>
<td>{{qty .TotalQty}}</td>
</tr>{{end}}
</tbody>
</table>{{else}}<p class="warning">{{.Empty}}</p>{{end}}
</div>`

const metricsSource = `
<div id="metrics-content">
{{if .NoData}}<p class="warning">{{.Empty}}</p>{{else}}
<div class="metric"><span>Total Revenue</span><strong>{{money .TotalRevenue}}</strong></div>
<div class="metric"><span>Average Order Value</span><strong>{{money .AverageOrderValue}}</strong></div>
<div class="metric"><span>Total Items Sold</span><strong>{{qty .TotalQuantity}}</strong></div>
{{end}}
</div>`

const noticesSource = `
<div id="notices-content">
{{range .Warnings}}<p class="warning">{{.}}</p>{{end}}
{{range .Info}}<p class="info">{{.}}</p>{{end}}
</div>`

type SSEHandlers struct {
	analytics *services.Analytics
	defaults  services.Query
	logger    *slog.Logger
	templates *template.Template
}

func NewSSEHandlers(analytics *services.Analytics, defaults services.Query, formatter *format.Formatter, logger *slog.Logger) *SSEHandlers {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return formatter.Money(d) },
		"qty":   formatter.Quantity,
	}

	tmpl := template.New("fragments").Funcs(funcs)
	template.Must(tmpl.New("sales").Parse(salesTableSource))
	template.Must(tmpl.New("trend").Parse(trendSource))
	template.Must(tmpl.New("topItems").Parse(topItemsSource))
	template.Must(tmpl.New("metrics").Parse(metricsSource))
	template.Must(tmpl.New("notices").Parse(noticesSource))

	return &SSEHandlers{
		analytics: analytics,
		defaults:  defaults,
		logger:    logger,
		templates: tmpl,
	}
}

func (h *SSEHandlers) render(name string, data any) (string, error) {
	var buf strings.Builder
	err := h.templates.ExecuteTemplate(&buf, name, data)
	return buf.String(), err
}

func (h *SSEHandlers) readQuery(r *http.Request) (services.Query, error) {
	var p queryParams
	if err := datastar.ReadSignals(r, &p); err != nil {
		return services.Query{}, errors.InvalidSignals(err)
	}
	span, ok := h.analytics.Span()
	return p.toQuery(h.defaults, span, ok)
}

type salesView struct {
	Selection   string
	Granularity models.Granularity
	Periods     []models.AggregatedPeriod
	MaxRows     int
}

type trendView struct {
	Description string
	Window      int
}

type topItemsView struct {
	TopN    int
	TopView models.RankView
	Timed   bool
	Items   []models.RankedItem
	Empty   string
}

type metricsView struct {
	models.SalesMetrics
	Empty string
}

type noticesView struct {
	Warnings []string
	Info     []string
}

func (h *SSEHandlers) renderTopItems(view models.RankView, n int, items []models.RankedItem) (string, error) {
	_, timed := view.Granularity()
	return h.render("topItems", topItemsView{
		TopN:    n,
		TopView: view,
		Timed:   timed,
		Items:   items,
		Empty:   services.TopItemsWarning(view),
	})
}

// HandleDashboard recomputes the whole dashboard from the request signals and
// patches every section plus the chart signals.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := h.readQuery(r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		h.logger.Warn("invalid dashboard signals", "error", err)
		h.patchNotices(sse, noticesView{Warnings: []string{err.Error()}})
		return
	}

	report := h.analytics.Run(r.Context(), q)

	fragments := []struct {
		name string
		data any
	}{
		{"sales", salesView{
			Selection:   report.Selection,
			Granularity: report.Granularity,
			Periods:     report.Periods,
			MaxRows:     maxTableRows,
		}},
		{"trend", trendView{Description: report.TrendDescription, Window: report.Trend.Window}},
		{"metrics", metricsView{SalesMetrics: report.Metrics, Empty: services.WarnMetricsNoData}},
	}

	for _, f := range fragments {
		html, err := h.render(f.name, f.data)
		if err != nil {
			h.logger.Error("render fragment", "fragment", f.name, "error", err)
			return
		}
		sse.PatchElements(html)
	}

	html, err := h.renderTopItems(report.TopView, report.TopN, report.TopItems)
	if err != nil {
		h.logger.Error("render top items", "error", err)
		return
	}
	sse.PatchElements(html)

	h.patchNotices(sse, noticesView{Warnings: report.Warnings, Info: report.Info})

	chartSignals, err := json.Marshal(map[string]any{
		"chartData": report.Charts,
	})
	if err != nil {
		h.logger.Error("marshal chart data", "error", err)
		return
	}
	sse.PatchSignals(chartSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleTopItems re-ranks only, for changes to the ranking controls.
func (h *SSEHandlers) HandleTopItems(w http.ResponseWriter, r *http.Request) {
	q, err := h.readQuery(r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		h.logger.Warn("invalid top items signals", "error", err)
		h.patchNotices(sse, noticesView{Warnings: []string{err.Error()}})
		return
	}

	items := services.Rank(h.analytics.Store().Records(), q.TopView, q.TopN)
	html, err := h.renderTopItems(q.TopView, q.TopN, items)
	if err != nil {
		h.logger.Error("render top items", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) patchNotices(sse *datastar.ServerSentEventGenerator, v noticesView) {
	html, err := h.render("notices", v)
	if err != nil {
		h.logger.Error("render notices", "error", err)
		return
	}
	sse.PatchElements(html)
}
