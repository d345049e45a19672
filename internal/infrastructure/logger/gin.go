package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GinMiddleware logs one line per request once the response is written, at
// error for 5xx, warn for 4xx and info otherwise. It also stores a request
// logger in the request context so services logging through L(ctx) or
// WithLogger carry the request_id set by the request id middleware.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		reqLogger := base.With(zap.String("method", req.Method), zap.String("path", req.URL.Path))
		ctx := req.Context()
		if id := c.GetString("request_id"); id != "" {
			ctx, reqLogger = WithRequestID(ctx, reqLogger, id)
		} else {
			ctx = WithContext(ctx, reqLogger)
		}
		c.Request = req.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		fields := make([]zap.Field, 0, 9)
		fields = append(fields,
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", req.UserAgent()),
			zap.Int("body_size", c.Writer.Size()),
		)
		if q := req.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if id := GetTraceID(c.Request.Context()); id != "" {
			fields = append(fields, zap.String("trace_id", id))
		}
		if email := GetCustomer(c.Request.Context()); email != "" {
			fields = append(fields, zap.String("customer", email))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}
		reqLogger.Log(statusLevel(status), "HTTP Request", fields...)
	}
}

func statusLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery turns a handler panic into a logged 500. When the response has
// already started, as on an event stream, the connection is only aborted.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			base.Error("Panic recovered",
				zap.String("request_id", c.GetString("request_id")),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "ERR_INTERNAL",
					"message":    "An unexpected error occurred",
					"request_id": c.GetString("request_id"),
				},
			})
		}()
		c.Next()
	}
}
