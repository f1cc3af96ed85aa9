// Package telemetry wires OpenTelemetry tracing and Prometheus metrics for
// the core, always through explicit, caller-owned instances — never a
// package-level global registry or tracer provider, per the "avoid
// module-level singletons" design note.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// NewTracerProvider builds a TracerProvider tagged with service, ready for
// the caller to attach a span processor/exporter of their choice (OTLP,
// stdout, or none for tests). It is never installed as the process-wide
// global tracer provider by this package; callers that want that call
// otel.SetTracerProvider themselves.
func NewTracerProvider(service string, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(service),
	))
	if err != nil {
		return nil, err
	}
	allOpts := append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, opts...)
	return sdktrace.NewTracerProvider(allOpts...), nil
}

// Shutdown flushes and stops tp, bounded by ctx.
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	return tp.Shutdown(ctx)
}
