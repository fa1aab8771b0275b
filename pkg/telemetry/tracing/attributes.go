package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanSuite = "scenario.suite"
	SpanCheck = "scenario.check"
)

// Attribute keys.
const (
	AttrRunID      = attribute.Key("tensorix.run_id")
	AttrSuite      = attribute.Key("tensorix.suite")
	AttrSource     = attribute.Key("tensorix.source")
	AttrCheck      = attribute.Key("tensorix.check")
	AttrNotation   = attribute.Key("tensorix.notation")
	AttrStatus     = attribute.Key("tensorix.status")
	AttrOperations = attribute.Key("tensorix.operations")
	AttrPassed     = attribute.Key("tensorix.passed")
	AttrFailed     = attribute.Key("tensorix.failed")
	AttrErrored    = attribute.Key("tensorix.errored")
)

// SetError records err on span and marks the span failed.
func SetError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetFailed marks span failed with msg without recording an exception.
func SetFailed(span trace.Span, msg string) {
	span.SetStatus(codes.Error, msg)
}
