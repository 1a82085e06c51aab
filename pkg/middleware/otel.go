package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/statekit-go/statekit/pkg/statekit"
)

// Default tracer name for statekit instrumentation.
const defaultTracerName = "statekit"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "statekit").
	TracerName string

	// IncludeModel includes the target model id as a span attribute.
	// Enabled by default; disable if model ids carry sensitive names.
	IncludeModel bool

	// Filter determines which operations to trace.
	// Return true to trace; if nil, all operations are traced.
	Filter func(op statekit.Op) bool

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeModel enables/disables the model id attribute.
func WithIncludeModel(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeModel = include
	}
}

// WithOpFilter sets a filter function for operations.
func WithOpFilter(filter func(op statekit.Op) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:   defaultTracerName,
		IncludeModel: true,
	}
}

// OpenTelemetry creates middleware that traces every kernel operation.
//
// Each operation becomes a span named "statekit.<op>" with the model id
// (when the operation targets one) as an attribute. Errors are recorded and
// reflected in the span status.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it in
// main() before constructing the registry:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) statekit.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	config.tracer = otel.Tracer(config.TracerName)

	return func(op statekit.Op, next func() error) error {
		if config.Filter != nil && !config.Filter(op) {
			return next()
		}

		var attrs []attribute.KeyValue
		attrs = append(attrs, attribute.String("statekit.op", op.Kind.String()))
		if config.IncludeModel && op.Model != "" {
			attrs = append(attrs, attribute.String("statekit.model", op.Model))
		}

		// Kernel operations are synchronous on the caller's flow; spans are
		// rooted in the background context.
		_, span := config.tracer.Start(
			context.Background(),
			fmt.Sprintf("statekit.%s", op.Kind),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		err := next()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
