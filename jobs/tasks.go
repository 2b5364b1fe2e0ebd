package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsWarmup rebuilds the cached reports of a day.
	TaskReportsWarmup = "reports:warmup"
	// TaskReportsCacheBump invalidates every cached report.
	TaskReportsCacheBump = "reports:cache_bump"
)

// ReportsWarmupPayload selects the as-of date to warm. A blank AsOf warms
// the current day.
type ReportsWarmupPayload struct {
	AsOf string `json:"as_of,omitempty"`
}

// NewReportsWarmupTask constructs an Asynq task for the report warmup.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3), asynq.Timeout(2*time.Minute)), nil
}

// NewReportsCacheBumpTask constructs an Asynq task that bumps the cache version.
func NewReportsCacheBumpTask() *asynq.Task {
	return asynq.NewTask(TaskReportsCacheBump, nil, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
}
