// Package tracing provides OpenTelemetry tracing for scenario runs.
//
// A run produces one span per suite ("scenario.suite") with a child span per
// check ("scenario.check"). Spans carry the suite, check, notation and
// status as attributes, and failed or errored checks set the span status to
// Error.
//
// Spans are exported over OTLP gRPC:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.1
//
// When tracing is disabled, New returns a tracer backed by a no-op provider.
package tracing
