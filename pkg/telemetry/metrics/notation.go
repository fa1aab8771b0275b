package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/tensorix/pkg/config"
)

// NotationMetrics tracks notation parsing and the tensor operations it
// triggers.
//
// Metrics:
//   - <ns>_<sub>_parses_total: notations checked, by outcome
//   - <ns>_<sub>_parse_duration_seconds: time spent checking a notation
//   - <ns>_<sub>_operations_total: tensor operations invoked, by kind
type NotationMetrics struct {
	parsesTotal     *prometheus.CounterVec
	parseDuration   prometheus.Histogram
	operationsTotal *prometheus.CounterVec
}

// NewNotationMetrics creates and registers notation metrics.
func NewNotationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *NotationMetrics {
	nm := &NotationMetrics{
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parses_total",
				Help:      "Total number of index notations checked, by outcome",
			},
			[]string{"outcome"},
		),
		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_duration_seconds",
				Help:      "Time spent checking an index notation",
				Buckets:   prometheus.ExponentialBuckets(0.0000001, 4, 10), // 100ns to 26ms
			},
		),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "operations_total",
				Help:      "Total number of tensor operations triggered by index notation",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(nm.parsesTotal, nm.parseDuration, nm.operationsTotal)
	return nm
}

// RecordParse records one notation check.
func (nm *NotationMetrics) RecordParse(outcome string, d time.Duration) {
	nm.parsesTotal.WithLabelValues(outcome).Inc()
	nm.parseDuration.Observe(d.Seconds())
}

// RecordOperation records one tensor operation.
func (nm *NotationMetrics) RecordOperation(kind string) {
	nm.operationsTotal.WithLabelValues(kind).Inc()
}
