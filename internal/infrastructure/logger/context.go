package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	customerKey
)

// WithContext stores l in ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID records the request ID in ctx and stores a logger carrying it
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return withField(ctx, l, requestIDKey, "request_id", requestID)
}

// WithCustomer records the customer email a request acts for
func WithCustomer(ctx context.Context, l *zap.Logger, email string) (context.Context, *zap.Logger) {
	return withField(ctx, l, customerKey, "customer", email)
}

func withField(ctx context.Context, l *zap.Logger, key ctxKey, field, value string) (context.Context, *zap.Logger) {
	l = l.With(zap.String(field, value))
	ctx = context.WithValue(ctx, key, value)
	return WithContext(ctx, l), l
}

// GetRequestID returns the request ID stored in ctx, if any
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetCustomer returns the customer email stored in ctx, if any
func GetCustomer(ctx context.Context) string {
	email, _ := ctx.Value(customerKey).(string)
	return email
}

// GetTraceID returns the hex trace ID of the span in ctx, empty without one
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// ContextLogger adds trace_id and span_id from its context to every entry.
//
//	logger.L(ctx).Info("order placed", zap.Uint("order_id", id))
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L uses the logger stored in ctx
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// WithLogger uses the request logger in ctx when there is one and fallback
// otherwise. Services hold a logger from construction and call this so
// request fields still reach their entries.
func WithLogger(ctx context.Context, fallback *zap.Logger) *ContextLogger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		fallback = l
	}
	return &ContextLogger{ctx: ctx, logger: fallback}
}

// With returns a child logger carrying fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.base().With(fields...)}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.Zap().Debug(msg, fields...) }
func (cl *ContextLogger) Info(msg string, fields ...zap.Field) { cl.Zap().Info(msg, fields...) }
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) { cl.Zap().Warn(msg, fields...) }
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.Zap().Error(msg, fields...) }

// Zap returns the underlying logger with the trace fields attached
func (cl *ContextLogger) Zap() *zap.Logger {
	l := cl.base()
	if sc := trace.SpanContextFromContext(cl.ctx); sc.IsValid() {
		l = l.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}

func (cl *ContextLogger) base() *zap.Logger {
	if cl.logger == nil {
		return zap.NewNop()
	}
	return cl.logger
}
