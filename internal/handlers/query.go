package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"restaurant-dashboard/internal/errors"
	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/services"
)

// queryParams is the raw form of a dashboard query, filled either from URL
// parameters or from datastar signals.
type queryParams struct {
	Items       []string `json:"items"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Granularity string   `json:"granularity"`
	Charts      []string `json:"charts"`
	Window      int      `json:"window"`
	TopView     string   `json:"topView"`
	TopN        int      `json:"topN"`
}

func paramsFromValues(v url.Values) (queryParams, error) {
	p := queryParams{
		Items:       itemList(v["items"]),
		Start:       v.Get("start"),
		End:         v.Get("end"),
		Granularity: v.Get("granularity"),
		Charts:      splitList(v["charts"]),
		TopView:     v.Get("view"),
	}

	var err error
	if p.Window, err = optionalInt(v.Get("window")); err != nil {
		return p, errors.InvalidParam("window", err)
	}
	if p.TopN, err = optionalInt(v.Get("n")); err != nil {
		return p, errors.InvalidParam("n", err)
	}
	return p, nil
}

// toQuery validates p against defaults. A missing date bound falls back to
// the matching end of span.
func (p queryParams) toQuery(defaults services.Query, span models.DateRange, hasSpan bool) (services.Query, error) {
	q := defaults
	q.Items = p.Items

	if p.Granularity != "" {
		g, err := models.ParseGranularity(p.Granularity)
		if err != nil {
			return q, errors.InvalidParam("granularity", err)
		}
		q.Granularity = g
	}

	if p.Charts != nil {
		q.Charts = make([]models.ChartKind, 0, len(p.Charts))
		for _, c := range p.Charts {
			kind, err := models.ParseChartKind(c)
			if err != nil {
				return q, errors.InvalidParam("charts", err)
			}
			q.Charts = append(q.Charts, kind)
		}
	}

	if p.TopView != "" {
		view, err := models.ParseRankView(p.TopView)
		if err != nil {
			return q, errors.InvalidParam("view", err)
		}
		q.TopView = view
	}

	if p.TopN != 0 {
		if p.TopN < services.MinTopN || p.TopN > services.MaxTopN {
			return q, errors.InvalidParam("n", fmt.Errorf("must be between %d and %d, got %d", services.MinTopN, services.MaxTopN, p.TopN))
		}
		q.TopN = p.TopN
	}

	if p.Window < 0 {
		return q, errors.InvalidParam("window", fmt.Errorf("must not be negative, got %d", p.Window))
	}
	q.Window = p.Window

	if p.Start == "" && p.End == "" {
		return q, nil
	}
	rng := span
	if !hasSpan {
		rng = models.DateRange{}
	}
	if p.Start != "" {
		t, err := time.Parse(time.DateOnly, p.Start)
		if err != nil {
			return q, errors.InvalidParam("start", err)
		}
		rng.Start = t
	}
	if p.End != "" {
		t, err := time.Parse(time.DateOnly, p.End)
		if err != nil {
			return q, errors.InvalidParam("end", err)
		}
		rng.End = t
	}
	q.Range = &rng
	return q, nil
}

// itemList keeps each repeated items value whole, since menu item names may
// contain commas.
func itemList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func splitList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
