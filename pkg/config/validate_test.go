package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{"defaults", func(*Config) {}, nil},
		{"unlimited max length", func(c *Config) { c.Notation.MaxLength = NoNotationLimit }, nil},
		{"negative max length", func(c *Config) { c.Notation.MaxLength = -2 }, []string{"notation.max_length"}},
		{"zero dimension", func(c *Config) { c.Tensor.Dimension = 0 }, []string{"tensor.dimension"}},
		{"blank basis", func(c *Config) { c.Tensor.Basis = "  " }, []string{"tensor.basis"}},
		{"memory needs no path", func(c *Config) { c.Journal.Driver = "memory"; c.Journal.Path = "" }, nil},
		{"sqlite needs path", func(c *Config) { c.Journal.Path = "" }, []string{"journal.path"}},
		{"negative retention", func(c *Config) { c.Journal.RetentionDays = -1 }, []string{"journal.retention_days"}},
		{"negative max records", func(c *Config) { c.Journal.MaxRecords = -1 }, []string{"journal.max_records"}},
		{"bad extension", func(c *Config) { c.Watch.Extensions = []string{"yaml"} }, []string{"watch.extensions[0]"}},
		{"bad format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, []string{"telemetry.logging.format"}},
		{"metrics disabled skip address", func(c *Config) { c.Telemetry.Metrics.ListenAddress = "nope" }, nil},
		{"metrics address", func(c *Config) {
			c.Telemetry.Metrics.Enabled = true
			c.Telemetry.Metrics.ListenAddress = "nope"
			c.Telemetry.Metrics.Path = "metrics"
		}, []string{"telemetry.metrics.listen_address", "telemetry.metrics.path"}},
		{"health path", func(c *Config) {
			c.Telemetry.Metrics.Enabled = true
			c.Telemetry.Health.ReadinessPath = "ready"
		}, []string{"telemetry.health.readiness_path"}},
		{"tracing disabled skips sampler", func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" }, nil},
		{"tracing sampler", func(c *Config) {
			c.Telemetry.Tracing.Enabled = true
			c.Telemetry.Tracing.Sampler = "sometimes"
			c.Telemetry.Tracing.SampleRatio = 2
		}, []string{"telemetry.tracing.sampler", "telemetry.tracing.sample_ratio"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if len(tt.fields) == 0 {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if len(verr.Errors) != len(tt.fields) {
				t.Fatalf("len(Errors) = %d, want %d: %v", len(verr.Errors), len(tt.fields), verr)
			}
			for i, f := range tt.fields {
				if verr.Errors[i].Field != f {
					t.Errorf("Errors[%d].Field = %q, want %q", i, verr.Errors[i].Field, f)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	one := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := one.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("Error() = %q", got)
	}
	two := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if got := two.Error(); !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("Error() = %q", got)
	}
}
