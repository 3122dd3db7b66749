package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/errors"
	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/middleware"
	"restaurant-dashboard/internal/models"
	"restaurant-dashboard/internal/observability"
	"restaurant-dashboard/internal/server"
	"restaurant-dashboard/internal/services"
	"restaurant-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

func dashboardHandler(analytics *services.Analytics, defaults services.Query) http.HandlerFunc {
	items := analytics.Items()
	span, hasSpan := analytics.Span()
	props := templates.DashboardProps{
		Items:       items,
		Span:        span,
		HasSpan:     hasSpan,
		Granularity: defaults.Granularity,
		TopN:        defaults.TopN,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(props).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func defaultQuery(cfg *config.Config) services.Query {
	q := services.DefaultQuery()
	if g, err := models.ParseGranularity(cfg.Dashboard.DefaultGranularity); err == nil {
		q.Granularity = g
	}
	q.TopN = cfg.Dashboard.DefaultTopN
	return q
}

func newLoader(cfg *config.Config, logger *slog.Logger) (*services.Loader, error) {
	return services.NewLoader(services.LoaderOptions{
		Sheet: cfg.Data.Sheet,
		Columns: services.ColumnNames{
			Date:     cfg.Data.Columns.Date,
			Item:     cfg.Data.Columns.Item,
			Quantity: cfg.Data.Columns.Quantity,
			Total:    cfg.Data.Columns.Total,
		},
	}, logger)
}

// loadStore reads source within timeout. On failure it returns an empty
// store with the error, so the dashboard still serves and /health reports
// the cause.
func loadStore(ctx context.Context, loader *services.Loader, source string, timeout time.Duration) (*services.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	store, err := loader.Load(ctx, source)
	if err != nil {
		return services.NewStore("", nil), err
	}
	return store, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"data_file", cfg.Data.File,
		"addr", cfg.Address(),
	)

	loader, err := newLoader(cfg, logger)
	if err != nil {
		logger.Error("failed to create loader", "error", err)
		os.Exit(1)
	}

	store, loadErr := loadStore(context.Background(), loader, cfg.Data.File, cfg.Data.LoadTimeout)
	if loadErr != nil {
		logger.Error("failed to load transactions, serving without data",
			"error", loadErr,
			"code", errors.Source(loadErr).Code,
		)
	}

	metrics := observability.NewMetrics()
	metrics.SetLoadedRecords(store.Len())

	analytics := services.NewAnalytics(store, logger)
	analytics.SetObserver(metrics)

	defaults := defaultQuery(cfg)
	srv := server.NewServer(analytics, logger,
		&server.TemplateHandlers{Dashboard: dashboardHandler(analytics, defaults)},
		server.Options{
			Defaults:  defaults,
			Formatter: format.New(cfg.Dashboard.CurrencySymbol),
			Metrics:   metrics,
			LoadError: loadErr,
		},
	)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		middleware.Metrics(metrics),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "records", store.Len())
		return nil
	})

	if err := gracefulServer.ListenAndServe(context.Background()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
