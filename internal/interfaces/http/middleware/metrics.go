package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	ServiceName   string
	Enabled       bool
}

// httpInstruments are the server-side HTTP instruments
type httpInstruments struct {
	requests     *telemetry.Counter
	duration     *telemetry.Histogram
	requestSize  *telemetry.Histogram
	responseSize *telemetry.Histogram
	inFlight     metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	var (
		in  httpInstruments
		err error
	)
	if in.requests, err = telemetry.NewCounter(meter, "http_server_request_total",
		"HTTP requests served", "{request}"); err != nil {
		return nil, err
	}
	if in.duration, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "Time from first middleware to response written",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if in.requestSize, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_size_bytes",
		Description: "Declared request body size",
		Unit:        "By",
		Boundaries:  telemetry.PayloadSizeBuckets,
	}); err != nil {
		return nil, err
	}
	if in.responseSize, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "Response body bytes written",
		Unit:        "By",
		Boundaries:  telemetry.PayloadSizeBuckets,
	}); err != nil {
		return nil, err
	}
	if in.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}")); err != nil {
		return nil, err
	}
	return &in, nil
}

// HTTPMetrics records request counts, latency and payload sizes per route.
// It passes requests through untouched when metrics are off.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return passThrough
	}
	return HTTPMetricsWithMeter(cfg.MeterProvider.Meter("http.server"), true)
}

// HTTPMetricsWithMeter records on meter directly. Event streams stay in
// http_server_active_requests until the client goes away.
func HTTPMetricsWithMeter(meter metric.Meter, enabled bool) gin.HandlerFunc {
	if !enabled {
		return passThrough
	}
	in, err := newHTTPInstruments(meter)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		in.inFlight.Add(ctx, 1)
		defer in.inFlight.Add(ctx, -1)
		c.Next()

		// FullPath keeps label cardinality bounded to the route table
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		method := telemetry.AttrHTTPMethod.String(c.Request.Method)
		path := telemetry.AttrHTTPRoute.String(route)

		in.requests.Inc(ctx, method, path, telemetry.AttrHTTPStatusCode.Int(status))
		in.duration.RecordDuration(ctx, time.Since(start), method, path,
			telemetry.AttrHTTPStatusClass.String(HTTPMetricsStatusGroup(status)))
		if n := c.Request.ContentLength; n > 0 {
			in.requestSize.Record(ctx, float64(n), method, path)
		}
		if n := c.Writer.Size(); n > 0 {
			in.responseSize.Record(ctx, float64(n), method, path)
		}
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

// HTTPMetricsStatusGroup buckets a status code into its class
func HTTPMetricsStatusGroup(statusCode int) string {
	if statusCode < 200 || statusCode > 599 {
		return "other"
	}
	return string(rune('0'+statusCode/100)) + "xx"
}
