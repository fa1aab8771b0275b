// Package telemetry groups the observability of tensorix.
//
//   - logging: structured logging on log/slog, with run, suite and check
//     identifiers carried in the context
//   - metrics: Prometheus counters and histograms for notation parsing,
//     tensor operations and scenario checks
//   - tracing: OpenTelemetry spans per suite and per check
//   - health: liveness and readiness probes served in watch mode
//
// Every component is configured from the telemetry section of the
// configuration file and is a no-op when disabled.
package telemetry
