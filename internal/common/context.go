package common

import "context"

// loggerContextKey is the context key for a request-scoped logger.
type loggerContextKey struct{}

// WithLogger returns a new context carrying logger.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// LoggerFromContext returns the logger attached to ctx, or fallback when none is set.
func LoggerFromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(*Logger); ok && l != nil {
		return l
	}
	return fallback
}
