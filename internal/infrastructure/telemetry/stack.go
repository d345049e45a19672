package telemetry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Settings selects the signals the server exports
type Settings struct {
	Endpoint        Endpoint
	Tracing         bool
	SamplingRatio   float64
	Metrics         bool
	MetricsInterval time.Duration
	Logs            bool
	Profiling       ProfilerConfig
	SpanProfiles    bool
}

// Stack is every telemetry provider of one process
type Stack struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	logger   *zap.Logger
}

// Start brings up tracing, metrics and log export. A profiler that fails to
// start is logged and left disabled since it never affects request handling.
func Start(ctx context.Context, s Settings, logger *zap.Logger) (*Stack, error) {
	st := &Stack{logger: logger}
	var err error

	if st.Tracer, err = NewTracerProvider(ctx, Config{
		Enabled:       s.Tracing,
		Endpoint:      s.Endpoint,
		SamplingRatio: s.SamplingRatio,
	}, logger); err != nil {
		return nil, err
	}
	if st.Meter, err = NewMeterProvider(ctx, MetricsConfig{
		Enabled:        s.Metrics,
		Endpoint:       s.Endpoint,
		ExportInterval: s.MetricsInterval,
	}, logger); err != nil {
		return nil, errors.Join(err, st.Tracer.Shutdown(ctx))
	}
	if st.Logs, err = NewLoggerProvider(ctx, LogsConfig{
		Enabled:  s.Logs,
		Endpoint: s.Endpoint,
	}, logger); err != nil {
		return nil, errors.Join(err, st.Meter.Shutdown(ctx), st.Tracer.Shutdown(ctx))
	}

	if s.Profiling.ApplicationName == "" {
		s.Profiling.ApplicationName = s.Endpoint.ServiceName
	}
	if st.Profiler, err = NewProfiler(s.Profiling, logger); err != nil {
		logger.Warn("Continuous profiling unavailable", zap.Error(err))
		st.Profiler = &Profiler{logger: logger}
	}
	if s.SpanProfiles && st.Profiler.IsEnabled() {
		if err := st.Tracer.EnableSpanProfiles(); err != nil {
			logger.Warn("Span profiles unavailable", zap.Error(err))
		}
	}
	return st, nil
}

// LogCore is the zap core forwarding entries at or above min to log export
func (st *Stack) LogCore(min zapcore.Level) zapcore.Core {
	return st.Logs.ZapCore(min)
}

// Shutdown stops the profiler, then flushes metrics, spans and logs. Logs go
// last so the other providers' shutdown messages are still exported.
func (st *Stack) Shutdown(ctx context.Context) error {
	return errors.Join(
		st.Profiler.Stop(),
		st.Meter.Shutdown(ctx),
		st.Tracer.Shutdown(ctx),
		st.Logs.Shutdown(ctx),
	)
}
