// Package otel wires OpenTelemetry tracing for creaturelab commands.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config selects where spans go. It is parsed from the environment along
// with the rest of a command's configuration.
type Config struct {
	ServiceName string  `env:"CREATURES_OTEL_SERVICE_NAME" envDefault:"creaturelab-server"`
	Endpoint    string  `env:"CREATURES_OTEL_ENDPOINT"`
	Enabled     bool    `env:"CREATURES_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"CREATURES_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether Setup would install a provider.
func (c Config) Active() bool {
	return c.Enabled && c.Endpoint != ""
}

// Validate checks the sample ratio and service name of an active config.
func (c Config) Validate() error {
	if !c.Active() {
		return nil
	}
	if c.ServiceName == "" {
		return fmt.Errorf("otel service name is required")
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("otel sample ratio must be between 0 and 1, got %g", c.SampleRatio)
	}
	return nil
}

// Setup installs a global tracer provider exporting to cfg.Endpoint over
// OTLP/HTTP. An inactive config leaves the no-op default in place and
// returns a no-op shutdown.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Active() {
		return noop, nil
	}
	if err := cfg.Validate(); err != nil {
		return noop, err
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noop, fmt.Errorf("create otlp exporter: %w", err)
	}
	res, err := newResource(ctx, cfg.ServiceName)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}
	return res, nil
}
