package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/gerentes/analytics-service/internal/analytics"
	"github.com/gerentes/analytics-service/internal/analytics/svg"
	"github.com/gerentes/analytics-service/internal/app"
	jobmetrics "github.com/gerentes/analytics-service/internal/jobs"
	"github.com/gerentes/analytics-service/internal/platform/cache"
	platformdb "github.com/gerentes/analytics-service/internal/platform/db"
	"github.com/gerentes/analytics-service/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tenantPools := platformdb.NewManager(cfg.PGDSNTemplate)
	defer tenantPools.Close()

	reportCache := analytics.NewCache(redisClient, cfg.ReportCacheTTL)
	analyticsService := analytics.NewService(
		analytics.NewPoolSource(tenantPools),
		svg.NewRenderer(),
		reportCache,
		logger,
		nil,
	)

	warmupJob := jobs.NewWarmupJob(analyticsService, logger, jobmetrics.NewMetrics(nil))

	var cron []jobs.CronRegistration
	for _, tenant := range cfg.WarmTenants {
		task, err := jobs.NewWarmupTask(jobs.WarmupPayload{BusinessDB: tenant})
		if err != nil {
			logger.Error("build warmup task", slog.String("tenant", tenant), slog.Any("error", err))
			os.Exit(1)
		}
		cron = append(cron, jobs.CronRegistration{
			Spec:    cfg.WarmCron,
			Task:    task,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAnalyticsWarmup, Handler: warmupJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
