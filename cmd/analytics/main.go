package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gerentes/analytics-service/internal/analytics"
	analytichttp "github.com/gerentes/analytics-service/internal/analytics/http"
	"github.com/gerentes/analytics-service/internal/analytics/svg"
	"github.com/gerentes/analytics-service/internal/app"
	"github.com/gerentes/analytics-service/internal/catalog"
	"github.com/gerentes/analytics-service/internal/observability"
	"github.com/gerentes/analytics-service/internal/platform/cache"
	platformdb "github.com/gerentes/analytics-service/internal/platform/db"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	tenantPools := platformdb.NewManager(cfg.PGDSNTemplate)
	defer tenantPools.Close()

	metrics := observability.NewMetrics()

	reportCache := analytics.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	analyticsService := analytics.NewService(
		analytics.NewPoolSource(tenantPools),
		svg.NewRenderer(),
		reportCache,
		logger,
		metrics,
	)
	analyticsHandler := analytichttp.NewHandler(logger, analyticsService)

	catalogCache := catalog.NewCache(catalog.NewClient(cfg.CatalogBackendURL), cfg.CatalogTTL, logger)
	catalogHandler := catalog.NewHandler(logger, catalogCache)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AnalyticsHandler: analyticsHandler,
		CatalogHandler:   catalogHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
