package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey identifies one invocation of a scenario run.
	RunIDKey contextKey = "run_id"

	// SuiteKey is the scenario suite name.
	SuiteKey contextKey = "suite"

	// CheckKey is the check name within a suite.
	CheckKey contextKey = "check"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if v, ok := ctx.Value(RunIDKey).(string); ok {
		return v
	}
	return ""
}

// WithSuite adds a suite name to the context.
func WithSuite(ctx context.Context, suite string) context.Context {
	return context.WithValue(ctx, SuiteKey, suite)
}

// GetSuite retrieves the suite name from the context.
func GetSuite(ctx context.Context) string {
	if v, ok := ctx.Value(SuiteKey).(string); ok {
		return v
	}
	return ""
}

// WithCheck adds a check name to the context.
func WithCheck(ctx context.Context, check string) context.Context {
	return context.WithValue(ctx, CheckKey, check)
}

// GetCheck retrieves the check name from the context.
func GetCheck(ctx context.Context) string {
	if v, ok := ctx.Value(CheckKey).(string); ok {
		return v
	}
	return ""
}

func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var fields []any
	if v := GetRunID(ctx); v != "" {
		fields = append(fields, string(RunIDKey), v)
	}
	if v := GetSuite(ctx); v != "" {
		fields = append(fields, string(SuiteKey), v)
	}
	if v := GetCheck(ctx); v != "" {
		fields = append(fields, string(CheckKey), v)
	}
	return fields
}
