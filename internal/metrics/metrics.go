// Package metrics exposes Prometheus instrumentation for categorization calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Categorization records the outcome of each dispatched categorization.
type Categorization struct {
	calls    *prometheus.CounterVec
	attempts *prometheus.HistogramVec
	duration *prometheus.HistogramVec
}

// NewCategorization registers the categorization collectors on reg.
func NewCategorization(reg prometheus.Registerer) *Categorization {
	factory := promauto.With(reg)
	return &Categorization{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memcat",
			Name:      "categorizations_total",
			Help:      "Categorization calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		attempts: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "memcat",
			Name:      "categorization_attempts",
			Help:      "Backend attempts made per categorization call.",
			Buckets:   []float64{1, 2, 3, 5},
		}, []string{"provider"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "memcat",
			Name:      "categorization_duration_seconds",
			Help:      "Wall time of categorization calls, including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"provider"}),
	}
}

// ObserveCategorization implements categorizer.Recorder.
func (m *Categorization) ObserveCategorization(provider string, attempts int, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(provider, outcome).Inc()
	m.attempts.WithLabelValues(provider).Observe(float64(attempts))
	m.duration.WithLabelValues(provider).Observe(elapsed.Seconds())
}
