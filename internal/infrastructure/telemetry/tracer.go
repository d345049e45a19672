// Package telemetry wires OpenTelemetry tracing, metrics and logs, plus
// Pyroscope profiling, for the storefront backend. Every provider degrades to
// a no-op when its signal is disabled.
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds tracing configuration
type Config struct {
	Enabled       bool
	Endpoint      Endpoint
	SamplingRatio float64
}

// TracerProvider owns the SDK tracer provider installed as the global one
type TracerProvider struct {
	sdk          *sdktrace.TracerProvider
	logger       *zap.Logger
	serviceName  string
	spanProfiles atomic.Bool
}

// NewTracerProvider exports spans over OTLP gRPC and installs W3C trace
// context propagation. When disabled the global no-op provider stays.
func NewTracerProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*TracerProvider, error) {
	tp := &TracerProvider{logger: logger, serviceName: cfg.Endpoint.ServiceName}
	if !cfg.Enabled {
		logger.Info("Tracing disabled")
		return tp, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint.Address)}
	if cfg.Endpoint.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	res, err := cfg.Endpoint.resource()
	if err != nil {
		return nil, err
	}

	tp.sdk = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.SamplingRatio)),
	)
	otel.SetTracerProvider(tp.sdk)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing enabled",
		zap.String("collector", cfg.Endpoint.Address),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
	)
	return tp, nil
}

// samplerFor samples everything at 1, nothing at 0 and otherwise follows the
// parent with a ratio for new traces
func samplerFor(ratio float64) sdktrace.Sampler {
	if ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	if ratio <= 0 {
		return sdktrace.NeverSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// EnableSpanProfiles reinstalls the global provider wrapped so CPU samples are
// tagged with span ids. Call it after the profiler has started.
func (tp *TracerProvider) EnableSpanProfiles() error {
	if tp.sdk == nil {
		tp.logger.Debug("Span profiles need tracing; skipped")
		return nil
	}
	if !tp.spanProfiles.CompareAndSwap(false, true) {
		return nil
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.sdk))
	tp.logger.Info("Span profiles enabled", zap.String("service_name", tp.serviceName))
	return nil
}

// IsSpanProfilesEnabled reports whether EnableSpanProfiles took effect
func (tp *TracerProvider) IsSpanProfilesEnabled() bool {
	return tp.spanProfiles.Load()
}

// Tracer returns a tracer from the provider, or from the global one when
// tracing is disabled
func (tp *TracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if tp.sdk == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return tp.sdk.Tracer(name, opts...)
}

// IsEnabled reports whether spans are exported
func (tp *TracerProvider) IsEnabled() bool {
	return tp.sdk != nil
}

// Shutdown flushes pending spans
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.sdk == nil {
		return nil
	}
	return shutdownSDK(ctx, "tracer", tp.sdk, tp.logger)
}
