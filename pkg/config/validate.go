package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "journal.driver").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration. All validation errors are
// collected and returned together as a ValidationError.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateNotation(&cfg.Notation)...)
	errs = append(errs, validateTensor(&cfg.Tensor)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateNotation(cfg *NotationConfig) []FieldError {
	var errs []FieldError
	if cfg.MaxLength < NoNotationLimit {
		errs = append(errs, FieldError{
			Field:   "notation.max_length",
			Message: "must be positive, or -1 for no limit",
		})
	}
	return errs
}

func validateTensor(cfg *TensorConfig) []FieldError {
	var errs []FieldError
	if cfg.Dimension < 1 {
		errs = append(errs, FieldError{
			Field:   "tensor.dimension",
			Message: fmt.Sprintf("must be positive, got %d", cfg.Dimension),
		})
	}
	if strings.TrimSpace(cfg.Basis) == "" {
		errs = append(errs, FieldError{
			Field:   "tensor.basis",
			Message: "must not be empty",
		})
	}
	return errs
}

var validDrivers = map[string]bool{"sqlite3": true, "sqlite": true, "memory": true}

func validateJournal(cfg *JournalConfig) []FieldError {
	var errs []FieldError

	if !validDrivers[cfg.Driver] {
		errs = append(errs, FieldError{
			Field:   "journal.driver",
			Message: fmt.Sprintf("must be one of sqlite3, sqlite, memory, got %q", cfg.Driver),
		})
	}
	if cfg.Driver != "memory" && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "journal.path",
			Message: "is required for SQLite drivers",
		})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.busy_timeout",
			Message: "must not be negative",
		})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.retention_days",
			Message: "must not be negative",
		})
	}
	if cfg.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.max_records",
			Message: "must not be negative",
		})
	}
	if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "journal.prune_schedule",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		})
	}
	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError
	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce_interval",
			Message: "must not be negative",
		})
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("watch.extensions[%d]", i),
				Message: fmt.Sprintf("must start with '.', got %q", ext),
			})
		}
	}
	return errs
}

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "text": true, "console": true}
	validSamplers   = map[string]bool{"always": true, "never": true, "ratio": true}
)

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !validLogLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error, got %q", cfg.Logging.Level),
		})
	}
	if !validLogFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of json, text, console, got %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: fmt.Sprintf("invalid address: %v", err),
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "must start with '/'",
			})
		}
		if !strings.HasPrefix(cfg.Health.LivenessPath, "/") {
			errs = append(errs, FieldError{Field: "telemetry.health.liveness_path", Message: "must start with '/'"})
		}
		if !strings.HasPrefix(cfg.Health.ReadinessPath, "/") {
			errs = append(errs, FieldError{Field: "telemetry.health.readiness_path", Message: "must start with '/'"})
		}
	}

	if cfg.Tracing.Enabled {
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "is required when tracing is enabled",
			})
		}
		if !validSamplers[cfg.Tracing.Sampler] {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("must be one of always, never, ratio, got %q", cfg.Tracing.Sampler),
			})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: fmt.Sprintf("must be between 0 and 1, got %g", cfg.Tracing.SampleRatio),
			})
		}
	}
	return errs
}
