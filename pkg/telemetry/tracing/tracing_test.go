package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/tensorix/pkg/config"
)

func testConfig(sampler string, ratio float64) *config.TracingConfig {
	return &config.TracingConfig{
		Enabled:     true,
		Sampler:     sampler,
		SampleRatio: ratio,
		ServiceName: "tensorix-test",
	}
}

func TestNew_Disabled(t *testing.T) {
	tr, err := New(context.Background(), &config.TracingConfig{}, "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if tr.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	_, span := tr.Start(context.Background(), "noop")
	if span.IsRecording() {
		t.Error("no-op span is recording")
	}
	span.End()
	if err := tr.Flush(context.Background()); err != nil {
		t.Errorf("Flush() = %v, want nil", err)
	}
	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(context.Background(), nil, "test"); err == nil {
		t.Error("New(nil) should fail")
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{SamplerRatio, 0, false},
		{SamplerRatio, 1, false},
		{SamplerRatio, 1.5, true},
		{SamplerRatio, -0.1, true},
		{"sometimes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			s, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
			}
			if !tt.wantErr && s == nil {
				t.Error("createSampler() returned nil sampler")
			}
		})
	}
}

func TestTracer_Exports(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tr, err := newTracer(testConfig(SamplerAlways, 1), "1.2.3", sdktrace.WithSyncer(exp))
	if err != nil {
		t.Fatalf("newTracer() failed: %v", err)
	}
	defer tr.Shutdown(context.Background())

	ctx, parent := tr.Start(context.Background(), SpanSuite)
	_, child := tr.Start(ctx, SpanCheck)
	SetError(child, errors.New("rank mismatch"))
	child.End()
	parent.SetAttributes(AttrSuite.String("basics"))
	parent.End()

	if err := tr.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	spans := exp.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("len(spans) = %d, want 2", len(spans))
	}

	check, suite := spans[0], spans[1]
	if check.Parent.SpanID() != suite.SpanContext.SpanID() {
		t.Error("check span is not a child of the suite span")
	}
	if check.Status.Code != codes.Error || check.Status.Description != "rank mismatch" {
		t.Errorf("check status = %+v, want Error with description", check.Status)
	}
	if len(check.Events) != 1 {
		t.Errorf("len(Events) = %d, want 1", len(check.Events))
	}
	if suite.Status.Code != codes.Unset {
		t.Errorf("suite status = %v, want Unset", suite.Status.Code)
	}

	var service string
	for _, kv := range suite.Resource.Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	if service != "tensorix-test" {
		t.Errorf("service.name = %q, want %q", service, "tensorix-test")
	}
}

func TestTracer_NeverSamples(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tr, err := newTracer(testConfig(SamplerNever, 0), "test", sdktrace.WithSyncer(exp))
	if err != nil {
		t.Fatalf("newTracer() failed: %v", err)
	}
	defer tr.Shutdown(context.Background())

	_, span := tr.Start(context.Background(), SpanSuite)
	span.End()
	if n := len(exp.GetSpans()); n != 0 {
		t.Errorf("exported %d spans, want 0", n)
	}
}

func TestSetError_Nil(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	_, span := tp.Tracer("test").Start(context.Background(), "span")
	SetError(span, nil)
	span.End()

	if got := sr.Ended()[0].Status().Code; got != codes.Unset {
		t.Errorf("status = %v, want Unset", got)
	}
}
