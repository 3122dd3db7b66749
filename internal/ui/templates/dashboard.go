package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"restaurant-dashboard/internal/models"
)

type DashboardProps struct {
	Items       []string
	Span        models.DateRange
	HasSpan     bool
	Granularity models.Granularity
	TopN        int
}

type initialSignals struct {
	Items       []string       `json:"items"`
	Start       string         `json:"start"`
	End         string         `json:"end"`
	Granularity string         `json:"granularity"`
	Charts      []string       `json:"charts"`
	Window      int            `json:"window"`
	TopView     string         `json:"topView"`
	TopN        int            `json:"topN"`
	ChartData   map[string]any `json:"chartData"`
}

// Dashboard is the single page of the app. Every control change sends the
// signals to the SSE endpoints, which patch the sections by id.
func Dashboard(props DashboardProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals := initialSignals{
			Items:       []string{},
			Granularity: string(props.Granularity),
			Charts:      []string{string(models.ChartBar), string(models.ChartLine)},
			TopView:     string(models.RankOverall),
			TopN:        props.TopN,
			ChartData:   map[string]any{},
		}
		if props.HasSpan {
			signals.Start = props.Span.Start.Format(time.DateOnly)
			signals.End = props.Span.End.Format(time.DateOnly)
		}
		signalsJSON, err := json.Marshal(signals)
		if err != nil {
			return fmt.Errorf("marshal signals: %w", err)
		}

		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>Restaurant Sales Analysis Dashboard</title>`)
		b.WriteString(`<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"></script>`)
		b.WriteString(`<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>`)
		b.WriteString(`<style>` + pageStyle + `</style></head>`)

		fmt.Fprintf(&b, `<body data-signals="%s" data-init="@get('/sse/dashboard')">`, templ.EscapeString(string(signalsJSON)))
		b.WriteString(`<h1 class="title">Restaurant Sales Analysis Dashboard</h1><hr>`)
		b.WriteString(`<div class="layout"><aside class="sidebar">`)
		writeControls(&b, props)
		b.WriteString(`</aside><main>`)
		b.WriteString(`<div id="notices-content"></div>`)
		b.WriteString(`<div id="sales-content"></div>`)
		b.WriteString(`<section class="charts">`)
		b.WriteString(`<canvas id="bar-chart" data-show="$chartData.show_bar"></canvas>`)
		b.WriteString(`<canvas id="line-chart" data-show="$chartData.show_line"></canvas>`)
		b.WriteString(`<canvas id="scatter-chart" data-show="$chartData.show_scatter"></canvas>`)
		b.WriteString(`</section>`)
		b.WriteString(`<h2>Sale Trend Prediction</h2><div id="trend-content"></div>`)
		b.WriteString(`<div id="top-items-content"></div>`)
		b.WriteString(`<h2>Overall Sales Statistics</h2><div id="metrics-content"></div>`)
		b.WriteString(`</main></div>`)
		b.WriteString(`<div data-effect="window.renderCharts && window.renderCharts($chartData)"></div>`)
		b.WriteString(`<script>` + chartScript + `</script>`)
		b.WriteString(`</body></html>`)

		_, err = io.WriteString(w, b.String())
		return err
	})
}

func writeControls(b *strings.Builder, props DashboardProps) {
	const refresh = `@get('/sse/dashboard')`

	b.WriteString(`<h2>Analysis Options</h2>`)
	fmt.Fprintf(b, `<label>Select Item(s)<select multiple data-bind="items" data-on-change="%s">`, refresh)
	for _, item := range props.Items {
		e := templ.EscapeString(item)
		fmt.Fprintf(b, `<option value="%s">%s</option>`, e, e)
	}
	b.WriteString(`</select></label>`)

	b.WriteString(`<fieldset><legend>View By</legend>`)
	for _, g := range []models.Granularity{models.Yearly, models.Monthly, models.Weekly} {
		fmt.Fprintf(b, `<label><input type="radio" name="granularity" value="%s" data-bind="granularity" data-on-change="%s">%s</label>`, g, refresh, g)
	}
	b.WriteString(`</fieldset>`)

	b.WriteString(`<fieldset><legend>Select Chart(s)</legend>`)
	for _, c := range []models.ChartKind{models.ChartBar, models.ChartLine, models.ChartScatter} {
		fmt.Fprintf(b, `<label><input type="checkbox" value="%s" data-bind="charts" data-on-change="%s">%s</label>`, c, refresh, c)
	}
	b.WriteString(`</fieldset>`)

	fmt.Fprintf(b, `<label>Moving Average Window<input type="number" min="0" data-bind="window" data-on-change="%s"></label>`, refresh)

	b.WriteString(`<h3>Top Items Analysis</h3><fieldset><legend>View Top Items By</legend>`)
	for _, v := range []models.RankView{models.RankOverall, models.RankYearly, models.RankMonthly, models.RankWeekly} {
		fmt.Fprintf(b, `<label><input type="radio" name="topView" value="%s" data-bind="topView" data-on-change="@get('/sse/top-items')">%s</label>`, v, v)
	}
	b.WriteString(`</fieldset>`)
	b.WriteString(`<label>Number of Top Items to Show<input type="range" min="1" max="10" data-bind="topN" data-on-change="@get('/sse/top-items')"><span data-text="$topN"></span></label>`)

	b.WriteString(`<h3>Optional Filters</h3>`)
	fmt.Fprintf(b, `<label>Start<input type="date" data-bind="start" data-on-change="%s"></label>`, refresh)
	fmt.Fprintf(b, `<label>End<input type="date" data-bind="end" data-on-change="%s"></label>`, refresh)
}

const pageStyle = `
body{font-family:system-ui,sans-serif;margin:0;background:#fafafa;color:#222}
.title{text-align:center;color:#4CAF50}
hr{border:2px solid #f0f2f6}
.layout{display:flex;gap:2rem;padding:1rem}
.sidebar{width:18rem;display:flex;flex-direction:column;gap:.75rem}
main{flex:1}
.modern-table{border-collapse:collapse;width:100%}
.modern-table th,.modern-table td{padding:.4rem .6rem;border-bottom:1px solid #ddd;text-align:left}
.warning{background:#fff3cd;padding:.5rem}
.info{background:#e7f3fe;padding:.5rem}
.metric{display:inline-flex;flex-direction:column;margin-right:2rem}
.muted{color:#777}
canvas{max-height:320px}
`

const chartScript = `
window.charts = {};
window.renderCharts = function (d) {
  if (!d || !d.labels) { return; }
  const clear = (id) => {
    if (window.charts[id]) { window.charts[id].destroy(); delete window.charts[id]; }
  };
  const draw = (id, cfg) => {
    clear(id);
    window.charts[id] = new Chart(document.getElementById(id), cfg);
  };
  if (d.show_bar && d.labels.length) {
    draw('bar-chart', {type: 'bar', data: {labels: d.labels, datasets: [{label: 'Total Sales', data: d.revenue}]}});
  } else {
    clear('bar-chart');
  }
  if (d.show_line && d.labels.length) {
    const sets = [{label: 'Total Sales', data: d.revenue}];
    if (d.moving_average.length) { sets.push({label: 'SMA', data: d.moving_average}); }
    draw('line-chart', {type: 'line', data: {labels: d.labels, datasets: sets}});
  } else {
    clear('line-chart');
  }
  if (d.show_scatter && d.scatter.length) {
    draw('scatter-chart', {type: 'scatter', data: {datasets: [{label: 'Daily Sales', data: d.scatter.map(p => ({x: Date.parse(p.date), y: p.total}))}]}});
  } else {
    clear('scatter-chart');
  }
};
`
