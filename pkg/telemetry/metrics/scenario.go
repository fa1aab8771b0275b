package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/tensorix/pkg/config"
)

// ScenarioMetrics tracks scenario check results.
//
// Metrics:
//   - <ns>_<sub>_scenario_checks_total: checks run, by suite and status
//   - <ns>_<sub>_scenario_check_duration_seconds: time per check
type ScenarioMetrics struct {
	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
}

// NewScenarioMetrics creates and registers scenario metrics.
func NewScenarioMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ScenarioMetrics {
	sm := &ScenarioMetrics{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "scenario_checks_total",
				Help:      "Total number of scenario checks run, by suite and status",
			},
			[]string{"suite", "status"},
		),
		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "scenario_check_duration_seconds",
				Help:      "Time spent evaluating a scenario check",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to 2.6s
			},
			[]string{"suite"},
		),
	}

	registry.MustRegister(sm.checksTotal, sm.checkDuration)
	return sm
}

// RecordCheck records one check.
func (sm *ScenarioMetrics) RecordCheck(suite, status string, d time.Duration) {
	sm.checksTotal.WithLabelValues(suite, status).Inc()
	sm.checkDuration.WithLabelValues(suite).Observe(d.Seconds())
}
