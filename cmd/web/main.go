package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"superstore-dashboard/internal/charts"
	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/middleware"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/server"
	"superstore-dashboard/internal/services"
)

func newHandler(cfg *config.Config, dashboard *services.Dashboard, logger *slog.Logger) http.Handler {
	renderer := charts.NewRenderer(cfg.Dashboard.ChartWidth, cfg.Dashboard.ChartHeight)
	srv := server.NewServer(dashboard, renderer, logger)

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
	)

	return middlewareChain(srv)
}

func loadDataset(cfg *config.Config, logger *slog.Logger) (*dataset.Dataset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
	defer cancel()

	return dataset.Load(ctx, config.DatasetFile, dataset.Options{
		Strict:   cfg.Dataset.Strict,
		CacheDir: cfg.CacheDir(),
		Logger:   logger,
	})
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
		"dataset", config.DatasetFile,
		"strict", cfg.Dataset.Strict,
	)

	data, err := loadDataset(cfg, logger)
	if err != nil {
		attrs := []any{"error", err}
		var loadErr *dataset.LoadError
		if errors.As(err, &loadErr) {
			attrs = append(attrs, "path", loadErr.Path, "line", loadErr.Line, "column", loadErr.Column)
		}
		logger.Error("failed to load dataset", attrs...)
		os.Exit(1)
	}

	dashboard, err := services.NewDashboard(data, logger, services.Options{
		PreviewRows:   cfg.Dashboard.PreviewRows,
		ViewCacheSize: cfg.Dashboard.ViewCacheSize,
	})
	if err != nil {
		logger.Error("failed to create dashboard", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, dashboard, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("dashboard", func(ctx context.Context) error {
		stats := dashboard.Stats()
		logger.Info("shutting down dashboard service",
			"views_computed", stats.ViewsComputed,
			"view_cache_hits", stats.ViewCacheHits,
		)
		dashboard.Purge()
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
