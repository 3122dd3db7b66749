package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/report"
	"restaurant-dashboard/internal/services"
)

type reportOptions struct {
	items       []string
	start       string
	end         string
	granularity string
	charts      []string
	window      int
	topView     string
	topN        int
	output      string
}

func reportCmd() *cobra.Command {
	var ro reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print period totals, trend, top items and statistics",
		Example: `  sales report --granularity weekly --window 3
  sales report --items Tea --items Coffee --start 2024-01-01 --end 2024-03-31
  sales report --top-view monthly --top-n 10 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}

			analytics := services.NewAnalytics(store, nil)
			span, hasSpan := store.Span()
			q, err := ro.query(span, hasSpan)
			if err != nil {
				return err
			}

			result := analytics.Run(cmd.Context(), q)

			switch ro.output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			case "table":
				p := report.NewPrinter(cmd.OutOrStdout(), format.New(opts.currency), opts.noColor)
				return p.Report(result)
			}
			return fmt.Errorf("unknown output %q, must be table or json", ro.output)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&ro.items, "items", nil, "item to include, repeatable (default: all)")
	flags.StringVar(&ro.start, "start", "", "first date to include, YYYY-MM-DD (default: first date in data)")
	flags.StringVar(&ro.end, "end", "", "last date to include, YYYY-MM-DD (default: last date in data)")
	flags.StringVarP(&ro.granularity, "granularity", "g", cfg.Dashboard.DefaultGranularity, "period size (yearly, monthly, weekly)")
	flags.StringSliceVar(&ro.charts, "charts", []string{"bar", "line"}, "charts to prepare (bar, line, scatter)")
	flags.IntVarP(&ro.window, "window", "w", 0, "moving average window (default: min(5, periods-1))")
	flags.StringVar(&ro.topView, "top-view", "overall", "top items grouping (overall, yearly, monthly, weekly)")
	flags.IntVarP(&ro.topN, "top-n", "n", cfg.Dashboard.DefaultTopN, "number of top items (1-10)")
	flags.StringVarP(&ro.output, "output", "o", "table", "output format (table, json)")

	return cmd
}

func (ro reportOptions) query(span models.DateRange, hasSpan bool) (services.Query, error) {
	q := services.DefaultQuery()
	q.Items = ro.items
	q.Window = ro.window

	var err error
	if q.Granularity, err = models.ParseGranularity(ro.granularity); err != nil {
		return q, err
	}
	if q.TopView, err = models.ParseRankView(ro.topView); err != nil {
		return q, err
	}
	if ro.topN < services.MinTopN || ro.topN > services.MaxTopN {
		return q, fmt.Errorf("--top-n must be between %d and %d, got %d", services.MinTopN, services.MaxTopN, ro.topN)
	}
	q.TopN = ro.topN
	if ro.window < 0 {
		return q, fmt.Errorf("--window must not be negative, got %d", ro.window)
	}

	q.Charts = q.Charts[:0]
	for _, c := range ro.charts {
		kind, err := models.ParseChartKind(c)
		if err != nil {
			return q, err
		}
		q.Charts = append(q.Charts, kind)
	}

	if ro.start == "" && ro.end == "" {
		return q, nil
	}
	rng := span
	if !hasSpan {
		rng = models.DateRange{}
	}
	if ro.start != "" {
		if rng.Start, err = time.Parse(time.DateOnly, strings.TrimSpace(ro.start)); err != nil {
			return q, fmt.Errorf("--start: %w", err)
		}
	}
	if ro.end != "" {
		if rng.End, err = time.Parse(time.DateOnly, strings.TrimSpace(ro.end)); err != nil {
			return q, fmt.Errorf("--end: %w", err)
		}
	}
	q.Range = &rng
	return q, nil
}
