package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported on every exported signal
const ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

// Endpoint addresses the OTLP collector. Traces, metrics and logs share it.
type Endpoint struct {
	Address     string // host:port of the collector's gRPC receiver
	Insecure    bool   // plaintext gRPC, development only
	ServiceName string
}

func (e Endpoint) resource() (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(e.ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownSDK flushes and stops one SDK provider within shutdownTimeout
func shutdownSDK(ctx context.Context, signal string, p shutdowner, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down %s provider: %w", signal, err)
	}
	log.Info("Telemetry provider stopped", zap.String("signal", signal))
	return nil
}
