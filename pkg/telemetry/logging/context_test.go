package logging

import (
	"context"
	"reflect"
	"testing"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if GetRunID(ctx) != "" || GetSuite(ctx) != "" || GetCheck(ctx) != "" {
		t.Error("empty context returned values")
	}

	ctx = WithRunID(ctx, "run")
	ctx = WithSuite(ctx, "suite")
	ctx = WithCheck(ctx, "check")

	if got := GetRunID(ctx); got != "run" {
		t.Errorf("GetRunID() = %q, want %q", got, "run")
	}
	if got := GetSuite(ctx); got != "suite" {
		t.Errorf("GetSuite() = %q, want %q", got, "suite")
	}
	if got := GetCheck(ctx); got != "check" {
		t.Errorf("GetCheck() = %q, want %q", got, "check")
	}

	want := []any{"run_id", "run", "suite", "suite", "check", "check"}
	if got := extractContextFields(ctx); !reflect.DeepEqual(got, want) {
		t.Errorf("extractContextFields() = %v, want %v", got, want)
	}
}
