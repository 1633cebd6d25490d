package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "falcon-speak.logger"
	requestIDKey contextKey = "falcon-speak.request_id"
	traceIDKey   contextKey = "falcon-speak.trace_id"
)

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or Default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID tags ctx with the invocation's request ID. The same ID is
// sent to the API as X-Request-ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithTraceID tags ctx with the API trace ID of the response being handled.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext returns the trace ID, or "".
func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// contextArgs returns the ID attributes carried by ctx.
func contextArgs(ctx context.Context) []any {
	var args []any
	if id := RequestIDFromContext(ctx); id != "" {
		args = append(args, "request_id", id)
	}
	if id := TraceIDFromContext(ctx); id != "" {
		args = append(args, "trace_id", id)
	}
	return args
}

// L returns the context's logger tagged with its request and trace IDs.
func L(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
