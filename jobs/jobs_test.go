package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/paulpark6/salesvision/internal/jobs"
	"github.com/paulpark6/salesvision/internal/reports"
	"github.com/paulpark6/salesvision/internal/shared"
)

type stubReports struct {
	asOf    time.Time
	bumpBy  shared.Principal
	err     error
	version int64
}

func (s *stubReports) Warmup(_ context.Context, asOf time.Time) (reports.WarmupResult, error) {
	s.asOf = asOf
	if s.err != nil {
		return reports.WarmupResult{AsOf: asOf, Reports: 2}, s.err
	}
	return reports.WarmupResult{AsOf: asOf, Reports: 8}, nil
}

func (s *stubReports) BumpCache(_ context.Context, p shared.Principal) (int64, error) {
	s.bumpBy = p
	s.version++
	return s.version, s.err
}

func newTestJob(svc ReportService) *ReportsWarmupJob {
	job := NewReportsWarmupJob(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	job.clock = func() time.Time { return time.Date(2024, time.August, 10, 22, 15, 0, 0, time.UTC) }
	return job
}

func TestWarmupDefaultsToToday(t *testing.T) {
	svc := &stubReports{}
	task, err := NewReportsWarmupTask(ReportsWarmupPayload{})
	require.NoError(t, err)

	require.NoError(t, newTestJob(svc).Handle(context.Background(), task))
	assert.True(t, svc.asOf.Equal(time.Date(2024, time.August, 10, 0, 0, 0, 0, time.UTC)))
}

func TestWarmupUsesPayloadDate(t *testing.T) {
	svc := &stubReports{}
	task, err := NewReportsWarmupTask(ReportsWarmupPayload{AsOf: "2024-09-01"})
	require.NoError(t, err)
	assert.Equal(t, TaskReportsWarmup, task.Type())

	require.NoError(t, newTestJob(svc).Handle(context.Background(), task))
	assert.Equal(t, "2024-09-01", svc.asOf.Format("2006-01-02"))
}

func TestWarmupRejectsBadPayload(t *testing.T) {
	job := newTestJob(&stubReports{})

	err := job.Handle(context.Background(), asynq.NewTask(TaskReportsWarmup, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	body, _ := json.Marshal(ReportsWarmupPayload{AsOf: "09/01/2024"})
	err = job.Handle(context.Background(), asynq.NewTask(TaskReportsWarmup, body))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestWarmupPropagatesFailure(t *testing.T) {
	boom := errors.New("redis down")
	task, err := NewReportsWarmupTask(ReportsWarmupPayload{})
	require.NoError(t, err)
	err = newTestJob(&stubReports{err: boom}).Handle(context.Background(), task)
	assert.ErrorIs(t, err, boom)
}

func TestWarmupFailureIsTracked(t *testing.T) {
	reg := prometheus.NewRegistry()
	job := NewReportsWarmupJob(&stubReports{err: errors.New("redis down")}, slog.New(slog.NewTextHandler(io.Discard, nil)), jobmetrics.NewMetrics(reg))
	task, err := NewReportsWarmupTask(ReportsWarmupPayload{AsOf: "2024-08-10"})
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))

	expected := `
# HELP salesvision_jobs_failures_total Total failures observed for background jobs.
# TYPE salesvision_jobs_failures_total counter
salesvision_jobs_failures_total{job="reports:warmup"} 1
# HELP salesvision_reports_warmed_total Reports built into the cache by the warmup job.
# TYPE salesvision_reports_warmed_total counter
salesvision_reports_warmed_total 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"salesvision_jobs_failures_total", "salesvision_reports_warmed_total"))
}

func TestCacheBumpRunsAsSystem(t *testing.T) {
	svc := &stubReports{}
	require.NoError(t, newTestJob(svc).HandleCacheBump(context.Background(), NewReportsCacheBumpTask()))
	assert.Equal(t, reports.SystemPrincipal, svc.bumpBy)
	assert.Equal(t, int64(1), svc.version)
}

func TestUnconfiguredJob(t *testing.T) {
	var job *ReportsWarmupJob
	task, err := NewReportsWarmupTask(ReportsWarmupPayload{})
	require.NoError(t, err)
	assert.Error(t, job.Handle(context.Background(), task))
}

func TestHealthWithoutInspector(t *testing.T) {
	h := NewHandler(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rr := httptest.NewRecorder()
	h.health(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var status queueHealth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, QueueDefault, status.Queue)
	assert.Zero(t, status.Pending)
}
