package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	require.NoError(t, m.Track("reports:warmup").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("reports:warmup").End(boom), boom)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("reports:warmup", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("reports:warmup", "failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.failures.WithLabelValues("reports:warmup")))
}

func TestAddWarmed(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.AddWarmed(8)
	m.AddWarmed(0)
	assert.Equal(t, float64(8), testutil.ToFloat64(m.warmed))

	var nilMetrics *Metrics
	nilMetrics.AddWarmed(3)
	assert.NoError(t, nilMetrics.Track("noop").End(nil))
}
