package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gerentes/analytics-service/internal/analytics"
	jobmetrics "github.com/gerentes/analytics-service/internal/jobs"
)

// WarmupJob precomputes tenant analytics reports so the first dashboard
// request after an invalidation hits a warm cache.
type WarmupJob struct {
	Analytics *analytics.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewWarmupJob wires dependencies for the warmup handler.
func NewWarmupJob(analyticsSvc *analytics.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *WarmupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &WarmupJob{Analytics: analyticsSvc, Logger: logger, Metrics: metrics}
}

// Handle processes TaskAnalyticsWarmup tasks.
func (j *WarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Analytics == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	var payload WarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.BusinessDB == "" {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskAnalyticsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.Logger.With(slog.String("tenant", payload.BusinessDB))
	logger.Info("warming analytics report")

	if _, err := j.Analytics.Report(ctx, payload.BusinessDB); err != nil {
		if errors.Is(err, analytics.ErrTenantUnknown) {
			// A tenant removed from the platform keeps its cron entry until
			// the config is updated; do not retry.
			logger.Warn("tenant unknown, skipping warmup")
			return asynq.SkipRetry
		}
		resultErr = err
		logger.Error("warm analytics report", slog.Any("error", err))
		return resultErr
	}
	logger.Info("analytics report warmed")
	return nil
}
