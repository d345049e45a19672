// Package middleware provides HTTP middleware for the storefront API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps the request id copied onto spans
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig traces every request as storefront-backend
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{ServiceName: "storefront-backend", Enabled: true}
}

// Tracing is TracingWithConfig(DefaultTracingConfig())
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig starts a server span per request through otelgin, named
// "METHOD route". Disabled tracing passes requests through.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector tags the request span with the request id, whether
// the caller named a customer and whether checkout was sent a retry key.
// It must run after Tracing and RequestID.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			attrs := make([]attribute.KeyValue, 0, 3)
			if id := GetRequestID(c); id != "" {
				if len(id) > MaxRequestIDLength {
					id = id[:MaxRequestIDLength]
				}
				attrs = append(attrs, attribute.String("request_id", id))
			}
			if c.Query("email") != "" {
				attrs = append(attrs, attribute.Bool("customer.identified", true))
			}
			if c.GetHeader("Idempotency-Key") != "" {
				attrs = append(attrs, attribute.Bool("checkout.idempotency_key", true))
			}
			span.SetAttributes(attrs...)
		}
		c.Next()
	}
}

// SpanErrorMarker records the response status on the request span and
// marks it failed for 5xx. Client errors are the caller's fault and leave the
// span status unset. It must run after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
