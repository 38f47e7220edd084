package middleware

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/city/pkg/city"
	"github.com/vango-dev/city/pkg/endpoint"
)

// Default tracer name for city handlers.
const defaultTracerName = "city"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "city").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// IncludePath records the request path as city.path. The path may carry
	// identifiers, so it is disabled by default.
	IncludePath bool

	// Filter determines which requests to trace.
	// Return true to trace the request, false to skip.
	// If nil, all requests are traced.
	Filter func(ev *endpoint.RequestEvent) bool

	// AttributeExtractor extracts custom attributes from the request.
	AttributeExtractor func(ev *endpoint.RequestEvent) []attribute.KeyValue

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

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludePath enables recording the request path.
func WithIncludePath(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludePath = include
	}
}

// WithRequestFilter sets a filter function for requests.
func WithRequestFilter(filter func(ev *endpoint.RequestEvent) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ev *endpoint.RequestEvent) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that wraps endpoint dispatch in a server
// span named "<METHOD> <route>".
//
// The span carries city.route, city.method and city.request_id, and
// http.status_code once dispatch completes. Errors are recorded on the span;
// the span status is Error for handler errors and 5xx responses. Handlers
// reach the span through ev.Context() or SpanFromEvent.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//	h := city.New(r, city.WithMiddleware(middleware.OpenTelemetry()))
func OpenTelemetry(opts ...OTelOption) city.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	config.tracer = tp.Tracer(config.TracerName)

	return city.MiddlewareFunc(func(ev *endpoint.RequestEvent, next func() error) error {
		if config.Filter != nil && !config.Filter(ev) {
			return next()
		}

		route := routeLabel(ev)
		attrs := []attribute.KeyValue{
			attribute.String("city.route", route),
			attribute.String("city.method", string(ev.Method())),
			attribute.String("city.request_id", ev.ID),
		}
		if config.IncludePath && ev.URL != nil {
			attrs = append(attrs, attribute.String("city.path", ev.URL.Path))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ev)...)
		}

		spanCtx, span := config.tracer.Start(
			ev.Context(),
			fmt.Sprintf("%s %s", ev.Method(), route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		ev.SetValue(spanContextKey{}, spanCtx)
		if ev.Request != nil {
			ev.Request = ev.Request.WithContext(spanCtx)
		}

		err := next()

		status := ev.Status()
		if err != nil {
			status = endpoint.StatusOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		if status != 0 {
			span.SetAttributes(attribute.Int("http.status_code", status))
		}

		return err
	})
}

// spanContextKey is the key for storing the span context in event values.
type spanContextKey struct{}

// SpanFromEvent retrieves the span started for ev.
// Returns nil outside the OpenTelemetry middleware.
//
// Example:
//
//	OnGet: func(ev *endpoint.RequestEvent) (*endpoint.Response, error) {
//	    if span := middleware.SpanFromEvent(ev); span != nil {
//	        span.SetAttributes(attribute.Int("items.count", len(items)))
//	    }
//	    ...
//	}
func SpanFromEvent(ev *endpoint.RequestEvent) trace.Span {
	if spanCtx, ok := ev.Value(spanContextKey{}).(context.Context); ok {
		return trace.SpanFromContext(spanCtx)
	}
	return nil
}

// TraceContext returns the context carrying the request span, for
// propagation to outgoing calls.
func TraceContext(ev *endpoint.RequestEvent) context.Context {
	if spanCtx, ok := ev.Value(spanContextKey{}).(context.Context); ok {
		return spanCtx
	}
	return ev.Context()
}
