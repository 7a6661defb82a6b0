package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "ledgermesh.logger"
	// runIDKey is the context key for the dispatch run ID.
	runIDKey contextKey = "ledgermesh.run_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for FromContext that binds ctx to the logger and
// enriches it with the run ID from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx).WithContext(ctx)
	if runID := RunIDFromContext(ctx); runID != "" {
		l = l.With("run_id", runID)
	}
	return l
}
