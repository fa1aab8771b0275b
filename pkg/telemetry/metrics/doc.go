// Package metrics exposes Prometheus metrics for notation parsing, the
// tensor operations it triggers and scenario check results.
//
// A Collector is a notation.Observer:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	e, err := notation.New(t, "^ij_ij", notation.WithObserver(collector))
//
// Serve the registry with Handler.
package metrics
