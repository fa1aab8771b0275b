package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
notation:
  max_length: 64
tensor:
  dimension: 4
  basis: f
journal:
  enabled: true
  driver: sqlite
  path: ./journal.db
  busy_timeout: 2s
watch:
  debounce_interval: 250ms
telemetry:
  logging:
    level: debug
    format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Notation.MaxLength != 64 {
		t.Errorf("Notation.MaxLength = %d, want 64", cfg.Notation.MaxLength)
	}
	if cfg.Tensor.Dimension != 4 || cfg.Tensor.Basis != "f" {
		t.Errorf("Tensor = %+v, want dimension 4 on basis f", cfg.Tensor)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Driver != "sqlite" || cfg.Journal.Path != "./journal.db" {
		t.Errorf("Journal = %+v", cfg.Journal)
	}
	if cfg.Journal.BusyTimeout != 2*time.Second {
		t.Errorf("Journal.BusyTimeout = %v, want 2s", cfg.Journal.BusyTimeout)
	}
	if cfg.Watch.DebounceInterval != 250*time.Millisecond {
		t.Errorf("Watch.DebounceInterval = %v, want 250ms", cfg.Watch.DebounceInterval)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Telemetry.Logging)
	}
	// Defaults fill the rest.
	if cfg.Journal.RetentionDays != DefaultJournalRetentionDays {
		t.Errorf("Journal.RetentionDays = %d, want %d", cfg.Journal.RetentionDays, DefaultJournalRetentionDays)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"invalid yaml", "notation: [", "failed to parse"},
		{"bad driver", "journal:\n  driver: postgres\n", "journal.driver"},
		{"bad schedule", "journal:\n  prune_schedule: every day\n", "journal.prune_schedule"},
		{"bad level", "telemetry:\n  logging:\n    level: loud\n", "telemetry.logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("LoadConfig() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.contains)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig(missing) error = nil, want error")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "journal:\n  driver: sqlite3\n")

	t.Setenv("TENSORIX_JOURNAL_DRIVER", "memory")
	t.Setenv("TENSORIX_JOURNAL_ENABLED", "true")
	t.Setenv("TENSORIX_JOURNAL_MAX_RECORDS", "500")
	t.Setenv("TENSORIX_WATCH_EXTENSIONS", ".yaml, .tx")
	t.Setenv("TENSORIX_WATCH_DEBOUNCE_INTERVAL", "1s")
	t.Setenv("TENSORIX_TENSOR_DIMENSION", "not a number")
	t.Setenv("TENSORIX_TELEMETRY_TRACING_SAMPLER", "ratio")
	t.Setenv("TENSORIX_TELEMETRY_TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Journal.Driver != "memory" || !cfg.Journal.Enabled || cfg.Journal.MaxRecords != 500 {
		t.Errorf("Journal = %+v", cfg.Journal)
	}
	if got := strings.Join(cfg.Watch.Extensions, ","); got != ".yaml,.tx" {
		t.Errorf("Watch.Extensions = %q, want %q", got, ".yaml,.tx")
	}
	if cfg.Watch.DebounceInterval != time.Second {
		t.Errorf("Watch.DebounceInterval = %v, want 1s", cfg.Watch.DebounceInterval)
	}
	if cfg.Tensor.Dimension != DefaultTensorDimension {
		t.Errorf("Tensor.Dimension = %d, want unparsable override ignored", cfg.Tensor.Dimension)
	}
	if cfg.Telemetry.Tracing.Sampler != "ratio" || cfg.Telemetry.Tracing.SampleRatio != 0.25 {
		t.Errorf("Tracing = %+v, want ratio sampler at 0.25", cfg.Telemetry.Tracing)
	}
}

func TestLoadConfigWithEnvOverrides_Invalid(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("TENSORIX_TENSOR_DIMENSION", "-2")

	_, err := LoadConfigWithEnvOverrides(path)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Errors[0].Field != "tensor.dimension" {
		t.Errorf("Field = %q, want %q", verr.Errors[0].Field, "tensor.dimension")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Notation.MaxLength != DefaultNotationMaxLength {
		t.Errorf("Notation.MaxLength = %d, want default", cfg.Notation.MaxLength)
	}

	if _, err := LoadOrDefault(writeConfig(t, "notation: [")); err == nil {
		t.Error("LoadOrDefault(broken) error = nil, want error")
	}
}

func TestLoadConfig_UnlimitedNotation(t *testing.T) {
	path := writeConfig(t, "notation:\n  max_length: -1\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Notation.MaxLength != NoNotationLimit {
		t.Errorf("Notation.MaxLength = %d, want %d", cfg.Notation.MaxLength, NoNotationLimit)
	}
}
