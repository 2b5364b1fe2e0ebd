package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/paulpark6/salesvision/internal/jobs"
	"github.com/paulpark6/salesvision/internal/reports"
	"github.com/paulpark6/salesvision/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportService is the part of the reports service the jobs drive.
type ReportService interface {
	Warmup(ctx context.Context, asOf time.Time) (reports.WarmupResult, error)
	BumpCache(ctx context.Context, p shared.Principal) (int64, error)
}

// ReportsWarmupJob pre-populates the report cache for a day.
type ReportsWarmupJob struct {
	Reports ReportService
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportsWarmupJob wires dependencies for the warmup handler.
func NewReportsWarmupJob(svc ReportService, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportsWarmupJob {
	return &ReportsWarmupJob{
		Reports: svc,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("reports warmup: handler not configured")
	}
	var payload ReportsWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("reports warmup: decode payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	asOf, err := j.asOf(payload)
	if err != nil {
		return fmt.Errorf("reports warmup: %v: %w", err, asynq.SkipRetry)
	}

	tracker := j.metrics().Track(TaskReportsWarmup)

	logger := j.logger().With(slog.String("as_of", asOf.Format("2006-01-02")))
	logger.Info("starting reports warmup")
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	result, err := j.Reports.Warmup(runCtx, asOf)
	j.metrics().AddWarmed(result.Reports)
	if err != nil {
		logger.Error("warmup failed", slog.Int("reports", result.Reports), slog.Any("error", err))
		return tracker.End(err)
	}

	logger.Info("completed reports warmup", slog.Int("reports", result.Reports), slog.Duration("duration", time.Since(start)))
	return tracker.End(nil)
}

// HandleCacheBump processes cache bump tasks.
func (j *ReportsWarmupJob) HandleCacheBump(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("reports cache bump: handler not configured")
	}
	tracker := j.metrics().Track(TaskReportsCacheBump)
	version, err := j.Reports.BumpCache(ctx, reports.SystemPrincipal)
	if err != nil {
		j.logger().Error("cache bump failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger().Info("report cache bumped", slog.Int64("version", version))
	return tracker.End(nil)
}

func (j *ReportsWarmupJob) asOf(payload ReportsWarmupPayload) (time.Time, error) {
	if payload.AsOf == "" {
		y, m, d := j.now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	asOf, err := time.Parse("2006-01-02", payload.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of %q", payload.AsOf)
	}
	return asOf, nil
}

func (j *ReportsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportsWarmup))
}

func (j *ReportsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock().UTC()
	}
	return time.Now().UTC()
}
