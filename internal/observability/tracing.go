package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "inventory-hub"

// TracingConfig selects the span exporter. Exporter is "stdout", "otlp", or
// empty to leave the global no-op provider in place.
type TracingConfig struct {
	ServiceName string
	Environment string
	Version     string
	Exporter    string
}

var (
	tracingOnce     sync.Once
	tracingShutdown = func(context.Context) error { return nil }
	tracingErr      error
)

// InitTracing installs the global tracer provider and the W3C propagators.
// It is safe to call more than once; only the first call has effect. The
// returned function flushes and stops the provider.
func InitTracing(ctx context.Context, logger *slog.Logger, cfg TracingConfig) (func(context.Context) error, error) {
	tracingOnce.Do(func() {
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

		exporter, err := buildExporter(ctx, cfg.Exporter)
		if err != nil {
			tracingErr = err
			return
		}
		if exporter == nil {
			return
		}

		name := strings.TrimSpace(cfg.ServiceName)
		if name == "" {
			name = tracerName
		}
		res, err := resource.New(ctx, resource.WithAttributes(
			attribute.String("service.name", name),
			attribute.String("service.version", cfg.Version),
			attribute.String("deployment.environment", cfg.Environment),
		))
		if err != nil {
			logger.Warn("otel resource init failed (continuing)", "error", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		tracingShutdown = tp.Shutdown
		logger.Info("otel tracing initialized", "service", name, "exporter", cfg.Exporter)
	})
	return tracingShutdown, tracingErr
}

func buildExporter(ctx context.Context, kind string) (sdktrace.SpanExporter, error) {
	switch kind {
	case "", "none":
		return nil, nil
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "otlp":
		// Endpoint and headers come from the standard OTEL_EXPORTER_OTLP_* variables.
		return otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unknown traces exporter %q", kind)
	}
}

// Tracer returns the application tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan starts a span with the given attributes.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
