package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRate  float64
	ServiceName string
}

// Tracing owns the installed tracer provider, if any.
type Tracing struct {
	provider *sdktrace.TracerProvider
}

// SetupTracing installs a global OTLP/HTTP tracer provider when tracing is
// enabled. When disabled the global no-op provider is left in place.
func SetupTracing(ctx context.Context, cfg TracingConfig) (*Tracing, error) {
	if !cfg.Enabled {
		return &Tracing{}, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "todo-ai"
	}
	// A rate of 0 samples nothing; only out-of-range values are clamped.
	cfg.SampleRate = min(max(cfg.SampleRate, 0), 1)

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	)
	otel.SetTracerProvider(provider)

	return &Tracing{provider: provider}, nil
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
