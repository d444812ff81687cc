// Package telemetry sets up tracing and the Prometheus collectors used by the
// graph service.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"conceptgraph/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName is reported as the service.name resource attribute
const ServiceName = "conceptgraph"

// ShutdownFunc flushes and stops a tracer provider
type ShutdownFunc func(ctx context.Context) error

// Setup builds the tracer provider selected by cfg.Tracing and installs it as
// the global provider. Spans go to stderr for the stdout exporter.
func Setup(cfg config.TelemetryConfig) (trace.TracerProvider, ShutdownFunc, error) {
	return setup(cfg, os.Stderr)
}

func setup(cfg config.TelemetryConfig, w io.Writer) (trace.TracerProvider, ShutdownFunc, error) {
	switch cfg.Tracing {
	case "", "none":
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, func(context.Context) error { return nil }, nil

	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		res := resource.NewSchemaless(attribute.String("service.name", ServiceName))
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		return tp, tp.Shutdown, nil

	default:
		return nil, nil, fmt.Errorf("unknown tracing exporter %q", cfg.Tracing)
	}
}
