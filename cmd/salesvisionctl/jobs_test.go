package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulpark6/salesvision/jobs"
)

func TestBuildTask(t *testing.T) {
	task, err := buildTask(jobs.TaskReportsWarmup, time.Date(2024, time.August, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	var payload jobs.ReportsWarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "2024-08-10", payload.AsOf)

	task, err = buildTask(jobs.TaskReportsWarmup, time.Time{})
	require.NoError(t, err)
	var blank jobs.ReportsWarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &blank))
	assert.Empty(t, blank.AsOf)

	task, err = buildTask(jobs.TaskReportsCacheBump, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskReportsCacheBump, task.Type())

	_, err = buildTask("mail:send", time.Time{})
	assert.Error(t, err)
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: salesvisionctl")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"-as-of", "10/08/2024", "warmup"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid -as-of")
}
