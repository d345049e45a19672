package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func spanContext() trace.SpanContext {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func TestFromContext(t *testing.T) {
	t.Run("missing logger yields nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("stored logger is returned", func(t *testing.T) {
		l := zap.NewExample()
		assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
	})
}

func TestWithRequestIDAndCustomer(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, l := WithRequestID(context.Background(), zap.New(core), "req-1")
	ctx, _ = WithCustomer(ctx, l, "ana@example.com")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "ana@example.com", GetCustomer(ctx))

	FromContext(ctx).Info("hello")
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "ana@example.com", fields["customer"])
}

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx := trace.ContextWithSpanContext(context.Background(), spanContext())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
}

func TestContextLogger(t *testing.T) {
	t.Run("adds trace fields", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		ctx := trace.ContextWithSpanContext(context.Background(), spanContext())
		ctx = WithContext(ctx, zap.New(core))

		L(ctx).With(zap.Uint("order_id", 7)).Info("advanced")

		entry := recorded.All()[0]
		fields := entry.ContextMap()
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
		assert.EqualValues(t, 7, fields["order_id"])
	})

	t.Run("WithLogger prefers the request logger", func(t *testing.T) {
		serviceCore, serviceLogs := observer.New(zapcore.DebugLevel)
		requestCore, requestLogs := observer.New(zapcore.DebugLevel)
		ctx := WithContext(context.Background(), zap.New(requestCore))

		WithLogger(ctx, zap.New(serviceCore)).Warn("w")
		WithLogger(context.Background(), zap.New(serviceCore)).Error("e")

		assert.Equal(t, 1, requestLogs.Len())
		assert.Equal(t, 1, serviceLogs.Len())
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		cl := &ContextLogger{ctx: context.Background()}
		assert.NotPanics(t, func() {
			cl.Debug("d")
			cl.Info("i")
			_ = cl.Zap()
		})
	})
}
