// Package report prints dashboard results as terminal tables.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/services"
)

type Printer struct {
	out       io.Writer
	formatter *format.Formatter

	title   *color.Color
	good    *color.Color
	bad     *color.Color
	warn    *color.Color
	neutral *color.Color
}

func NewPrinter(out io.Writer, formatter *format.Formatter, noColor bool) *Printer {
	p := &Printer{
		out:       out,
		formatter: formatter,
		title:     color.New(color.FgGreen, color.Bold),
		good:      color.New(color.FgGreen),
		bad:       color.New(color.FgRed),
		warn:      color.New(color.FgYellow),
		neutral:   color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range []*color.Color{p.title, p.good, p.bad, p.warn, p.neutral} {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) section(title string) {
	p.title.Fprintf(p.out, "\n%s\n", title)
}

// Report prints every section of r in dashboard order.
func (p *Printer) Report(r services.Report) error {
	p.section(fmt.Sprintf("Sale Analysis for: %s (Viewed %s)", r.Selection, r.Granularity))
	if err := p.periods(r); err != nil {
		return err
	}

	p.section("Sale Trend Prediction")
	p.trend(r.Trend)

	p.section(fmt.Sprintf("Top %d Most Sold Items (Viewed by %s)", r.TopN, r.TopView))
	if err := p.TopItems(r.TopView, r.TopItems); err != nil {
		return err
	}

	p.section("Overall Sales Statistics")
	if err := p.Metrics(r.Metrics); err != nil {
		return err
	}

	for _, w := range r.Warnings {
		p.warn.Fprintf(p.out, "⚠ %s\n", w)
	}
	return nil
}

func (p *Printer) periods(r services.Report) error {
	if len(r.Periods) == 0 {
		p.warn.Fprintln(p.out, "No sales recorded for this selection.")
		return nil
	}

	rows := make([][]string, len(r.Trend.Points))
	for i, pt := range r.Trend.Points {
		rows[i] = []string{
			pt.Period.Label,
			p.formatter.Money(pt.Revenue),
			p.formatter.Quantity(r.Periods[i].TotalQty),
			p.formatter.Money(pt.MovingAverage),
		}
	}
	return renderTable(p.out, []string{"Period", "Revenue", "Quantity", "SMA"}, rows)
}

func (p *Printer) trend(t models.TrendSummary) {
	c := p.neutral
	switch t.Status {
	case models.TrendIncreasing:
		c = p.good
	case models.TrendDecreasing:
		c = p.bad
	case models.TrendInsufficient, models.TrendNoData:
		c = p.warn
	}
	c.Fprintln(p.out, t.Conclusion)
	if t.Window > 0 {
		fmt.Fprintf(p.out, "Moving average window: %d\n", t.Window)
	}
}

func (p *Printer) TopItems(view models.RankView, items []models.RankedItem) error {
	if len(items) == 0 {
		p.warn.Fprintln(p.out, services.TopItemsWarning(view))
		return nil
	}

	_, timed := view.Granularity()
	header := []string{"#", "Item", "Quantity"}
	if timed {
		header = []string{"#", string(view), "Item", "Quantity"}
	}

	rows := make([][]string, len(items))
	for i, it := range items {
		row := []string{fmt.Sprintf("%d", i+1)}
		if timed && it.Period != nil {
			row = append(row, it.Period.Label)
		}
		rows[i] = append(row, it.Item, p.formatter.Quantity(it.TotalQty))
	}
	return renderTable(p.out, header, rows)
}

func (p *Printer) Metrics(m models.SalesMetrics) error {
	if m.NoData {
		p.warn.Fprintln(p.out, services.WarnMetricsNoData)
		return nil
	}
	return renderTable(p.out, []string{"Metric", "Value"}, [][]string{
		{"Total Revenue", p.formatter.Money(m.TotalRevenue)},
		{"Average Order Value", p.formatter.Money(m.AverageOrderValue)},
		{"Total Items Sold", p.formatter.Quantity(m.TotalQuantity)},
	})
}

// Catalogue prints the item list and the data span.
func (p *Printer) Catalogue(items []string, span models.DateRange, hasSpan bool) error {
	if hasSpan {
		fmt.Fprintf(p.out, "Data from %s to %s\n", span.Start.Format("2006-01-02"), span.End.Format("2006-01-02"))
	}
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{item}
	}
	return renderTable(p.out, []string{"Item"}, rows)
}
