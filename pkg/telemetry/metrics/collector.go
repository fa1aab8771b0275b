package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/notation"
)

// Collector records notation and scenario metrics in a Prometheus registry.
// It implements notation.Observer so it can be handed to notation.New, and
// its recording methods are no-ops when metrics are disabled.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	notationMetrics *NotationMetrics
	scenarioMetrics *ScenarioMetrics

	// Suite names come from user files; cap the label values they create.
	suites *CardinalityLimiter
}

var _ notation.Observer = (*Collector)(nil)

// NewCollector creates a collector. If registry is nil a new registry is
// created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true}
//	collector := metrics.NewCollector(cfg, nil)
//	e, err := notation.New(t, "^(ij)", notation.WithObserver(collector))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		notationMetrics: NewNotationMetrics(cfg, registry),
		scenarioMetrics: NewScenarioMetrics(cfg, registry),
		suites:          NewCardinalityLimiter(1000),
	}
}

// NotationParsed implements notation.Observer.
func (c *Collector) NotationParsed(outcome string, d time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.notationMetrics.RecordParse(outcome, d)
}

// OperationApplied implements notation.Observer.
func (c *Collector) OperationApplied(op notation.Operation) {
	if !c.config.Enabled {
		return
	}
	c.notationMetrics.RecordOperation(string(op.Kind))
}

// RecordCheck records the outcome of one scenario check.
//
// Parameters:
//   - suite: scenario suite name
//   - status: "pass", "fail" or "error"
//   - duration: time spent evaluating the check
func (c *Collector) RecordCheck(suite, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	if !c.suites.Allow(suite) {
		suite = "other"
	}
	c.scenarioMetrics.RecordCheck(suite, status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting up to maxCardinality
// distinct values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already tracked or still fits under the
// limit, tracking it in the latter case.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	_, ok := cl.current[value]
	cl.mu.RUnlock()
	if ok {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if _, ok := cl.current[value]; ok {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the number of tracked values.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
