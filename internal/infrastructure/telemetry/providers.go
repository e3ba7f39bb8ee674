package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultMetricsInterval = time.Minute
	shutdownTimeout        = 10 * time.Second
)

// Settings selects the OTLP pipelines of the process. All signals share one
// collector endpoint.
type Settings struct {
	ServiceName       string
	CollectorEndpoint string
	Insecure          bool

	Traces        bool
	SamplingRatio float64

	Metrics         bool
	MetricsInterval time.Duration

	Logs bool
}

// Providers owns the SDK providers of one process. A disabled signal keeps
// the global no-op implementation.
type Providers struct {
	settings Settings
	logger   *zap.Logger

	traces  *sdktrace.TracerProvider
	metrics *sdkmetric.MeterProvider
	logs    *sdklog.LoggerProvider

	spanProfiles atomic.Bool
}

// Setup builds the enabled pipelines and installs them globally. On error
// the pipelines already started are shut down.
func Setup(ctx context.Context, s Settings, logger *zap.Logger) (*Providers, error) {
	p := &Providers{settings: s, logger: logger}
	if !s.Traces && !s.Metrics && !s.Logs {
		logger.Info("Telemetry export disabled")
		return p, nil
	}

	res, err := newResource(s.ServiceName)
	if err != nil {
		return nil, err
	}

	if s.Traces {
		if err := p.startTraces(ctx, res); err != nil {
			return nil, errors.Join(err, p.Shutdown(ctx))
		}
	}
	if s.Metrics {
		if err := p.startMetrics(ctx, res); err != nil {
			return nil, errors.Join(err, p.Shutdown(ctx))
		}
	}
	if s.Logs {
		if err := p.startLogs(ctx, res); err != nil {
			return nil, errors.Join(err, p.Shutdown(ctx))
		}
	}

	logger.Info("Telemetry export enabled",
		zap.String("collector_endpoint", s.CollectorEndpoint),
		zap.String("service_name", s.ServiceName),
		zap.Bool("traces", p.TracingEnabled()),
		zap.Bool("metrics", p.MetricsEnabled()),
		zap.Bool("logs", p.LogsEnabled()),
	)
	return p, nil
}

func (p *Providers) startTraces(ctx context.Context, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(p.settings.CollectorEndpoint)}
	if p.settings.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	p.traces = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(p.settings.SamplingRatio)),
	)
	otel.SetTracerProvider(p.traces)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return nil
}

func (p *Providers) startMetrics(ctx context.Context, res *resource.Resource) error {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(p.settings.CollectorEndpoint)}
	if p.settings.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	interval := p.settings.MetricsInterval
	if interval <= 0 {
		interval = defaultMetricsInterval
	}
	p.metrics = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(p.metrics)
	return nil
}

func (p *Providers) startLogs(ctx context.Context, res *resource.Resource) error {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(p.settings.CollectorEndpoint)}
	if p.settings.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	p.logs = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(p.logs)
	return nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// TracingEnabled reports whether spans are exported
func (p *Providers) TracingEnabled() bool { return p.traces != nil }

// MetricsEnabled reports whether metrics are exported
func (p *Providers) MetricsEnabled() bool { return p.metrics != nil }

// LogsEnabled reports whether zap entries can be bridged to OTLP
func (p *Providers) LogsEnabled() bool { return p.logs != nil }

// Meter returns a named meter, falling back to the global provider.
func (p *Providers) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if p.metrics == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return p.metrics.Meter(name, opts...)
}

// LogCore returns a zap core forwarding entries at or above level to the
// OTLP log pipeline. It is a no-op core when logs are not exported.
func (p *Providers) LogCore(level zapcore.Level) zapcore.Core {
	if p.logs == nil {
		return zapcore.NewNopCore()
	}
	core := otelzap.NewCore(p.settings.ServiceName, otelzap.WithLoggerProvider(p.logs))
	return &levelFilterCore{Core: core, minLevel: level}
}

// EnableSpanProfiles links CPU profiles to spans by wrapping the global
// tracer provider with otelpyroscope. Call it after the profiler started.
func (p *Providers) EnableSpanProfiles() {
	if p.traces == nil || !p.spanProfiles.CompareAndSwap(false, true) {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(p.traces))
	p.logger.Info("Span profiles enabled", zap.String("service_name", p.settings.ServiceName))
}

// SpanProfilesEnabled reports whether EnableSpanProfiles took effect
func (p *Providers) SpanProfilesEnabled() bool {
	return p.spanProfiles.Load()
}

// Shutdown flushes and stops every started pipeline, traces first.
func (p *Providers) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if p.traces != nil {
		if err := p.traces.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.metrics != nil {
		if err := p.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	if p.logs != nil {
		if err := p.logs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logger provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
