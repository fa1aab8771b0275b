package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides named TENSORIX_SECTION_FIELD (e.g.
// TENSORIX_JOURNAL_DRIVER). Environment variables take precedence over the
// file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return withEnv(cfg)
}

// LoadOrDefault is LoadConfigWithEnvOverrides, except that a missing file
// yields the defaults (still subject to environment overrides).
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = NewDefaultConfig()
	} else if err != nil {
		return nil, err
	}
	return withEnv(cfg)
}

func withEnv(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("TENSORIX_NOTATION_MAX_LENGTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Notation.MaxLength = i
		}
	}

	if val := os.Getenv("TENSORIX_TENSOR_DIMENSION"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Tensor.Dimension = i
		}
	}
	if val := os.Getenv("TENSORIX_TENSOR_BASIS"); val != "" {
		cfg.Tensor.Basis = val
	}

	if val := os.Getenv("TENSORIX_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("TENSORIX_JOURNAL_DRIVER"); val != "" {
		cfg.Journal.Driver = val
	}
	if val := os.Getenv("TENSORIX_JOURNAL_PATH"); val != "" {
		cfg.Journal.Path = val
	}
	if val := os.Getenv("TENSORIX_JOURNAL_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Journal.BusyTimeout = d
		}
	}
	if val := os.Getenv("TENSORIX_JOURNAL_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.RetentionDays = i
		}
	}
	if val := os.Getenv("TENSORIX_JOURNAL_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Journal.MaxRecords = i
		}
	}
	if val := os.Getenv("TENSORIX_JOURNAL_PRUNE_SCHEDULE"); val != "" {
		cfg.Journal.PruneSchedule = val
	}

	if val := os.Getenv("TENSORIX_WATCH_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.DebounceInterval = d
		}
	}
	if val := os.Getenv("TENSORIX_WATCH_EXTENSIONS"); val != "" {
		var exts []string
		for _, ext := range strings.Split(val, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
		cfg.Watch.Extensions = exts
	}

	if val := os.Getenv("TENSORIX_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("TENSORIX_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("TENSORIX_TELEMETRY_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Logging.AddSource = b
		}
	}

	if val := os.Getenv("TENSORIX_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("TENSORIX_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("TENSORIX_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}

	if val := os.Getenv("TENSORIX_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("TENSORIX_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("TENSORIX_TELEMETRY_TRACING_SAMPLER"); val != "" {
		cfg.Telemetry.Tracing.Sampler = val
	}
	if val := os.Getenv("TENSORIX_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
