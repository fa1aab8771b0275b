package scenario

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/tensorix/pkg/telemetry/tracing"
)

func TestRunner_Tracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	r := quietRunner(RunnerConfig{Tracer: tp.Tracer("test")})
	if _, err := r.RunFile(context.Background(), "testdata/suites/nested/failing.yml"); err != nil {
		t.Fatalf("RunFile() failed: %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 3 {
		t.Fatalf("len(spans) = %d, want 3", len(spans))
	}

	suite := spans[2]
	if suite.Name() != tracing.SpanSuite {
		t.Fatalf("last span = %q, want %q", suite.Name(), tracing.SpanSuite)
	}
	if suite.Status().Code != codes.Error {
		t.Errorf("suite status = %v, want Error", suite.Status().Code)
	}

	wantStatus := []string{StatusFail, StatusError}
	for i, span := range spans[:2] {
		if span.Name() != tracing.SpanCheck {
			t.Errorf("spans[%d] = %q, want %q", i, span.Name(), tracing.SpanCheck)
		}
		if span.Parent().SpanID() != suite.SpanContext().SpanID() {
			t.Errorf("spans[%d] is not a child of the suite span", i)
		}
		if span.Status().Code != codes.Error {
			t.Errorf("spans[%d] status = %v, want Error", i, span.Status().Code)
		}
		var status string
		for _, kv := range span.Attributes() {
			if kv.Key == tracing.AttrStatus {
				status = kv.Value.AsString()
			}
		}
		if status != wantStatus[i] {
			t.Errorf("spans[%d] status attribute = %q, want %q", i, status, wantStatus[i])
		}
	}

	if n := len(spans[1].Events()); n != 1 {
		t.Errorf("errored check has %d events, want 1 recorded error", n)
	}
}
