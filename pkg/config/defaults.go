package config

import "time"

// Default values for configuration fields.
const (
	DefaultNotationMaxLength = 256

	// NoNotationLimit as notation.max_length turns the length check off.
	NoNotationLimit = -1

	DefaultTensorDimension = 3
	DefaultTensorBasis     = "e"

	DefaultJournalEnabled       = false
	DefaultJournalDriver        = "sqlite3"
	DefaultJournalPath          = "data/journal.db"
	DefaultJournalBusyTimeout   = 5 * time.Second
	DefaultJournalRetentionDays = 30
	DefaultJournalPruneSchedule = "0 3 * * *"

	DefaultWatchDebounceInterval = 100 * time.Millisecond

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultMetricsNamespace     = "tensorix"
	DefaultMetricsSubsystem     = "notation"
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"

	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingServiceName = "tensorix"

	DefaultHealthLivenessPath  = "/health"
	DefaultHealthReadinessPath = "/ready"
	DefaultHealthCheckTimeout  = 5 * time.Second
)

// DefaultWatchExtensions are the file extensions watched by default.
var DefaultWatchExtensions = []string{".yaml", ".yml"}

// NewDefaultConfig returns a configuration with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field of cfg with its default value.
func ApplyDefaults(cfg *Config) {
	if cfg.Notation.MaxLength == 0 {
		cfg.Notation.MaxLength = DefaultNotationMaxLength
	}

	if cfg.Tensor.Dimension == 0 {
		cfg.Tensor.Dimension = DefaultTensorDimension
	}
	if cfg.Tensor.Basis == "" {
		cfg.Tensor.Basis = DefaultTensorBasis
	}

	if cfg.Journal.Driver == "" {
		cfg.Journal.Driver = DefaultJournalDriver
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Journal.BusyTimeout == 0 {
		cfg.Journal.BusyTimeout = DefaultJournalBusyTimeout
	}
	if cfg.Journal.RetentionDays == 0 {
		cfg.Journal.RetentionDays = DefaultJournalRetentionDays
	}
	if cfg.Journal.PruneSchedule == "" {
		cfg.Journal.PruneSchedule = DefaultJournalPruneSchedule
	}

	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultWatchDebounceInterval
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = append([]string(nil), DefaultWatchExtensions...)
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}

	tr := &cfg.Telemetry.Tracing
	if tr.Endpoint == "" {
		tr.Endpoint = DefaultTracingEndpoint
	}
	if tr.Timeout == 0 {
		tr.Timeout = DefaultTracingTimeout
	}
	if tr.Sampler == "" {
		tr.Sampler = DefaultTracingSampler
	}
	if tr.SampleRatio == 0 {
		tr.SampleRatio = DefaultTracingSampleRatio
	}
	if tr.ServiceName == "" {
		tr.ServiceName = DefaultTracingServiceName
	}

	h := &cfg.Telemetry.Health
	if h.LivenessPath == "" {
		h.LivenessPath = DefaultHealthLivenessPath
	}
	if h.ReadinessPath == "" {
		h.ReadinessPath = DefaultHealthReadinessPath
	}
	if h.CheckTimeout == 0 {
		h.CheckTimeout = DefaultHealthCheckTimeout
	}
}
