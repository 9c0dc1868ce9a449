package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalyticsWarmup is the task type that precomputes a tenant's
	// analytics report into the cache.
	TaskAnalyticsWarmup = "analytics:warmup"
)

// WarmupPayload names the tenant database whose report should be warmed.
type WarmupPayload struct {
	BusinessDB string `json:"business_db"`
}

// NewWarmupTask constructs an Asynq task for one tenant.
func NewWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsWarmup, data), nil
}
