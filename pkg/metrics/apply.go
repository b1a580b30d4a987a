package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ApplyMetrics records scheme application outcomes.
type ApplyMetrics struct {
	duration      *prometheus.HistogramVec
	outcomes      *prometheus.CounterVec
	fetchFailures prometheus.Counter
}

// NewApplyMetrics registers the application metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewApplyMetrics(reg prometheus.Registerer) *ApplyMetrics {
	if reg == nil {
		return &ApplyMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheme_application_duration_seconds",
		Help:    "Duration of scheme application attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheme_applications_total",
		Help: "Scheme application attempts by outcome.",
	}, []string{"outcome"})
	fetchFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheme_catalog_fetch_failures_total",
		Help: "Failed scheme catalog fetches.",
	})
	reg.MustRegister(duration, outcomes, fetchFailures)
	return &ApplyMetrics{
		duration:      duration,
		outcomes:      outcomes,
		fetchFailures: fetchFailures,
	}
}

// Observe records one application attempt.
func (m *ApplyMetrics) Observe(outcome string, elapsed time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.outcomes.WithLabelValues(label).Inc()
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// IncCatalogFailure counts a failed catalog fetch.
func (m *ApplyMetrics) IncCatalogFailure() {
	if m == nil || m.fetchFailures == nil {
		return
	}
	m.fetchFailures.Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
