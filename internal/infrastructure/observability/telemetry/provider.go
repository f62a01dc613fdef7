package telemetry

import (
	"context"
	"fmt"

	"github.com/shopfront/orderapi/internal/infrastructure/observability/oteltrace"
	"github.com/shopfront/orderapi/internal/infrastructure/observability/prometrics"
	"github.com/shopfront/orderapi/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type provider struct {
	tracer   observability.TraceCtx
	logger   observability.Logger
	registry prometrics.Registry
}

// New assembles a Telemetry bundle backed by the otel tracer, the supplied
// logger, and the Prometheus registry. Metric vectors are registered lazily
// by name; label keys are fixed on first use.
func New(serviceName string, logger observability.Logger, registry prometrics.Registry) observability.Telemetry {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if registry == nil {
		registry = prometrics.New("", "")
	}
	return &provider{
		tracer:   oteltrace.New(serviceName),
		logger:   logger,
		registry: registry,
	}
}

func (p *provider) Tracer() observability.TraceCtx { return p.tracer }
func (p *provider) Logger() observability.Logger   { return p.logger }

func (p *provider) Counter(name string) observability.Counter {
	switch name {
	case observability.MHTTPRequests:
		return p.registry.Counter(name, "Total HTTP requests.", "method", "route", "status")
	case observability.MUsecaseRequests:
		return p.registry.Counter(name, "Total use case invocations.", "use_case", "outcome")
	case observability.MOrderEvents:
		return p.registry.Counter(name, "Domain events observed on the bus.", "event")
	default:
		return p.registry.Counter(name, name)
	}
}

func (p *provider) Histogram(name string) observability.Histogram {
	switch name {
	case observability.MHTTPRequestDuration:
		return p.registry.Histogram(name, "HTTP request duration in seconds.", nil, "method", "route", "status")
	case observability.MUsecaseDuration:
		return p.registry.Histogram(name, "Use case duration in seconds.", nil, "use_case")
	default:
		return p.registry.Histogram(name, name, nil)
	}
}

// SetupTracing installs a global OTLP/HTTP tracer provider when endpoint is
// non-empty. The returned shutdown must be called on exit. With an empty
// endpoint only W3C propagation is configured and spans stay no-op.
func SetupTracing(ctx context.Context, serviceName, endpoint string) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
