package interceptors

import (
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// NewSTDOUTExporter returns a span exporter pretty printing spans to w. Pass io.Discard to keep
// spans (and the trace ids they give log entries) without the output.
func NewSTDOUTExporter(w io.Writer) (*stdouttrace.Exporter, error) {
	exp, err := stdouttrace.New(
		stdouttrace.WithPrettyPrint(),
		stdouttrace.WithWriter(w),
	)
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	return exp, nil
}

// RegisterTraceProvider installs a global tracer provider exporting through exp. sampleRatio is
// the fraction of root spans sampled; values >= 1 sample everything.
func RegisterTraceProvider(appName string, exp sdktrace.SpanExporter, sampleRatio float64) (*sdktrace.TracerProvider, error) {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(appName),
		),
	)
	if errors.Is(err, resource.ErrSchemaURLConflict) {
		r, err = resource.Merge(resource.Default(), resource.NewSchemaless(semconv.ServiceName(appName)))
	}
	if err != nil {
		return nil, fmt.Errorf("create resource merger: %w", err)
	}

	sampler := sdktrace.AlwaysSample()
	if sampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}
