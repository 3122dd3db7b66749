package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"restaurant-dashboard/internal/errors"
	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/observability"
	"restaurant-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	defaults  services.Query
	formatter *format.Formatter
	logger    *slog.Logger
	loadErr   error
}

func NewAPIHandlers(analytics *services.Analytics, defaults services.Query, formatter *format.Formatter, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		defaults:  defaults,
		formatter: formatter,
		logger:    logger,
	}
}

// SetLoadError records why the transaction source failed to load, so the
// health check can report it.
func (h *APIHandlers) SetLoadError(err error) {
	h.loadErr = err
}

func (h *APIHandlers) query(r *http.Request) (services.Query, error) {
	p, err := paramsFromValues(r.URL.Query())
	if err != nil {
		return services.Query{}, err
	}
	span, ok := h.analytics.Span()
	return p.toQuery(h.defaults, span, ok)
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleSales(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	report := h.analytics.Run(r.Context(), q)

	errors.WriteSuccessWithHeaders(w, report, map[string]string{
		"Cache-Control": cacheControl,
	})
}

type topItemsResponse struct {
	View    models.RankView     `json:"view"`
	N       int                 `json:"n"`
	Items   []models.RankedItem `json:"items"`
	NoData  bool                `json:"no_data"`
	Message string              `json:"message,omitempty"`
}

func (h *APIHandlers) HandleTopItems(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items := services.Rank(h.analytics.Store().Records(), q.TopView, q.TopN)
	resp := topItemsResponse{
		View:   q.TopView,
		N:      q.TopN,
		Items:  items,
		NoData: len(items) == 0,
	}
	if resp.NoData {
		resp.Message = services.TopItemsWarning(q.TopView)
	}

	errors.WriteSuccessWithHeaders(w, resp, map[string]string{
		"Cache-Control": cacheControl,
	})
}

type metricsResponse struct {
	models.SalesMetrics
	TotalRevenueText      string `json:"total_revenue_text,omitempty"`
	AverageOrderValueText string `json:"average_order_value_text,omitempty"`
	TotalQuantityText     string `json:"total_quantity_text,omitempty"`
}

func (h *APIHandlers) HandleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	m := services.Metrics(h.analytics.Store().Records())

	resp := metricsResponse{SalesMetrics: m}
	if !m.NoData {
		resp.TotalRevenueText = h.formatter.Money(m.TotalRevenue)
		resp.AverageOrderValueText = h.formatter.Money(m.AverageOrderValue)
		resp.TotalQuantityText = h.formatter.Quantity(m.TotalQuantity)
	}

	errors.WriteSuccessWithHeaders(w, resp, map[string]string{
		"Cache-Control": cacheControl,
	})
}

type catalogueResponse struct {
	Items []string `json:"items"`
	Start string   `json:"start,omitempty"`
	End   string   `json:"end,omitempty"`
}

func (h *APIHandlers) HandleItems(w http.ResponseWriter, r *http.Request) {
	resp := catalogueResponse{Items: h.analytics.Items()}
	if span, ok := h.analytics.Span(); ok {
		resp.Start = span.Start.Format(time.DateOnly)
		resp.End = span.End.Format(time.DateOnly)
	}

	errors.WriteSuccessWithHeaders(w, resp, map[string]string{
		"Cache-Control": cacheControl,
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.loadErr != nil {
		h.fail(w, r, errors.Source(h.loadErr))
		return
	}
	if h.analytics.Store().Source() == "" {
		h.fail(w, r, errors.NoSource())
		return
	}

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

func (h *APIHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, errors.NotFound("no route for "+r.URL.Path))
}
