package config

import "time"

// Config is the root configuration structure for tensorix.
type Config struct {
	// Notation controls how index notation strings are parsed.
	Notation NotationConfig `yaml:"notation"`

	// Tensor holds the defaults used when a scenario does not name its own
	// basis.
	Tensor TensorConfig `yaml:"tensor"`

	// Journal contains configuration for recording scenario check results.
	Journal JournalConfig `yaml:"journal"`

	// Watch contains configuration for re-running scenarios on file change.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// NotationConfig configures the notation parser.
type NotationConfig struct {
	// MaxLength is the longest accepted notation in bytes; -1 means no
	// limit.
	// Default: 256
	MaxLength int `yaml:"max_length"`
}

// TensorConfig holds defaults for tensors built from scenario files.
type TensorConfig struct {
	// Dimension of the underlying vector space.
	// Default: 3
	Dimension int `yaml:"dimension"`

	// Basis is the name of the default basis. Tensors on different bases
	// cannot be compared.
	// Default: "e"
	Basis string `yaml:"basis"`
}

// JournalConfig configures the check result journal.
type JournalConfig struct {
	// Enabled turns recording on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the storage: "sqlite3" (cgo driver), "sqlite" (pure
	// Go driver) or "memory".
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// Path is the database file for the SQLite drivers.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays is how many days entries are kept.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the number of entries. 0 means no cap.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for the retention job.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// WatchConfig configures scenario file watching.
type WatchConfig struct {
	// DebounceInterval groups bursts of file events into one run.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// Extensions lists the file extensions that trigger a run.
	// Default: [".yaml", ".yml"]
	Extensions []string `yaml:"extensions"`
}

// TelemetryConfig contains logging, metrics, tracing and health
// configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
	Health  HealthConfig  `yaml:"health"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is one of "json", "text", "console".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource adds file:line to each record.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	// Default: "tensorix"
	Namespace string `yaml:"namespace"`

	// Subsystem follows the namespace in metric names.
	// Default: "notation"
	Subsystem string `yaml:"subsystem"`

	// ListenAddress is where watch mode serves metrics.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig configures OpenTelemetry tracing of scenario runs.
type TracingConfig struct {
	// Enabled turns tracing on. When off a no-op tracer is used.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Sampler is one of "always", "never", "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is used by the "ratio" sampler, between 0 and 1.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as service.name.
	// Default: "tensorix"
	ServiceName string `yaml:"service_name"`
}

// HealthConfig configures the probes served next to metrics in watch mode.
type HealthConfig struct {
	// LivenessPath answers as long as the process runs.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath runs the registered checks.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout bounds each readiness check.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
