// Package metrics exposes Prometheus counters for the pseudonymization
// service.
//
// Counters track volume and category mix only. Per-document labels such
// as entity text never become label values: metric cardinality aside,
// that would leak the very PII this service exists to remove.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dossier-pseudonymizer/internal/pseudonymizer"
)

// Metrics holds all collectors for a running service instance.
type Metrics struct {
	DocumentsTotal    prometheus.Counter
	DocumentErrors    prometheus.Counter
	Replacements      *prometheus.CounterVec
	Warnings          prometheus.Counter
	ProcessingSeconds prometheus.Histogram

	startTime time.Time
}

// New registers all collectors with reg and returns the set. Passing
// nil registers with the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		DocumentsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pseudonymizer",
			Name:      "documents_total",
			Help:      "Documents processed.",
		}),
		DocumentErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pseudonymizer",
			Name:      "document_errors_total",
			Help:      "Documents rejected before processing (size, decode, request errors).",
		}),
		Replacements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pseudonymizer",
			Name:      "replacements_total",
			Help:      "PII replacements performed, by category.",
		}, []string{"category"}),
		Warnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pseudonymizer",
			Name:      "warnings_total",
			Help:      "Degraded-condition warnings, such as a missing reference date.",
		}),
		ProcessingSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pseudonymizer",
			Name:      "processing_seconds",
			Help:      "Wall time per document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		startTime: time.Now(),
	}
}

// RecordResult folds one finished document into the collectors.
func (m *Metrics) RecordResult(res *pseudonymizer.Result, elapsed time.Duration) {
	m.DocumentsTotal.Inc()
	for cat, n := range res.Statistics {
		m.Replacements.WithLabelValues(string(cat)).Add(float64(n))
	}
	m.Warnings.Add(float64(len(res.Warnings)))
	m.ProcessingSeconds.Observe(elapsed.Seconds())
}

// UptimeSeconds reports time since the collectors were created.
func (m *Metrics) UptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}
