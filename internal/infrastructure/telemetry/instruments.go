package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys shared by storefront metrics
var (
	AttrPaymentMethod  = attribute.Key("payment_method")
	AttrTrackingStatus = attribute.Key("tracking_status")
	AttrItemSKU        = attribute.Key("item_sku")
	AttrEvent          = attribute.Key("event")
	AttrOutcome        = attribute.Key("outcome")

	AttrHTTPMethod      = attribute.Key("http_method")
	AttrHTTPRoute       = attribute.Key("http_route")
	AttrHTTPStatusCode  = attribute.Key("http_status_code")
	AttrHTTPStatusClass = attribute.Key("http_status_class")
)

var (
	// OrderAmountBuckets are in currency units
	OrderAmountBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000}
	// TickDurationBuckets are in seconds
	TickDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	// HTTPDurationBuckets are in seconds
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	// PayloadSizeBuckets are in bytes
	PayloadSizeBuckets = []float64{128, 512, 1 << 10, 4 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20}
)

// Counter is a monotonic int64 instrument
type Counter struct {
	inst metric.Int64Counter
}

// NewCounter registers a counter on meter
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	inst, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("counter %s: %w", name, err)
	}
	return &Counter{inst: inst}, nil
}

// Add increments the counter by n
func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	c.inst.Add(ctx, n, metric.WithAttributes(attrs...))
}

// Inc increments the counter by one
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// HistogramOpts describes a float64 histogram
type HistogramOpts struct {
	Name        string
	Description string
	Unit        string
	Boundaries  []float64 // SDK defaults when empty
}

// Histogram is a float64 distribution instrument
type Histogram struct {
	inst metric.Float64Histogram
}

// NewHistogram registers a histogram on meter
func NewHistogram(meter metric.Meter, opts HistogramOpts) (*Histogram, error) {
	options := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	}
	if len(opts.Boundaries) > 0 {
		options = append(options, metric.WithExplicitBucketBoundaries(opts.Boundaries...))
	}
	inst, err := meter.Float64Histogram(opts.Name, options...)
	if err != nil {
		return nil, fmt.Errorf("histogram %s: %w", opts.Name, err)
	}
	return &Histogram{inst: inst}, nil
}

// Record adds one observation
func (h *Histogram) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	h.inst.Record(ctx, v, metric.WithAttributes(attrs...))
}

// RecordDuration adds d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// Gauge is a last-value int64 instrument
type Gauge struct {
	inst metric.Int64Gauge
}

// NewGauge registers a gauge on meter
func NewGauge(meter metric.Meter, name, description, unit string) (*Gauge, error) {
	inst, err := meter.Int64Gauge(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("gauge %s: %w", name, err)
	}
	return &Gauge{inst: inst}, nil
}

// Record sets the current value
func (g *Gauge) Record(ctx context.Context, v int64, attrs ...attribute.KeyValue) {
	g.inst.Record(ctx, v, metric.WithAttributes(attrs...))
}
