package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestApplyMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewApplyMetrics(reg)

	m.Observe("committed", 10*time.Millisecond)
	m.Observe("committed", 5*time.Millisecond)
	m.Observe("", time.Millisecond)
	m.IncCatalogFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.outcomes.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchFailures))
}

func TestNilRegistererIsNoop(t *testing.T) {
	var m *ApplyMetrics
	m.Observe("committed", time.Second)
	m.IncCatalogFailure()

	NewApplyMetrics(nil).Observe("committed", time.Second)
}
