package server

import (
	"log/slog"
	"net/http"

	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/handlers"
	"restaurant-dashboard/internal/observability"
	"restaurant-dashboard/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	metrics     *observability.Metrics
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

type Options struct {
	Defaults  services.Query
	Formatter *format.Formatter
	Metrics   *observability.Metrics
	// LoadError is the reason the transaction source failed to load, if it did.
	LoadError error
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers, opts Options) *Server {
	if opts.Formatter == nil {
		opts.Formatter = format.New("")
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetrics()
	}

	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		metrics:     opts.Metrics,
		apiHandlers: handlers.NewAPIHandlers(analytics, opts.Defaults, opts.Formatter, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, opts.Defaults, opts.Formatter, logger),
	}
	s.apiHandlers.SetLoadError(opts.LoadError)
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	// REST API endpoints
	s.mux.HandleFunc("GET /api/items", s.apiHandlers.HandleItems)
	s.mux.HandleFunc("GET /api/sales", s.apiHandlers.HandleSales)
	s.mux.HandleFunc("GET /api/top-items", s.apiHandlers.HandleTopItems)
	s.mux.HandleFunc("GET /api/metrics/summary", s.apiHandlers.HandleMetricsSummary)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /sse/top-items", s.sseHandlers.HandleTopItems)

	s.mux.HandleFunc("/", s.apiHandlers.HandleNotFound)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
