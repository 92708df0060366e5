package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/shared/config"
)

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// newCollectorExporter sends spans to an OTLP/HTTP collector such as
// "localhost:4318".
func newCollectorExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{}
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = strings.TrimPrefix(endpoint, "https://")
	default:
		endpoint = strings.TrimPrefix(endpoint, "http://")
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	return otlptracehttp.New(ctx, opts...)
}

func newStdoutExporter(w io.Writer) (sdktrace.SpanExporter, error) {
	return stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithoutTimestamps(),
	)
}

func newResource(cfg config.TelemetryConfig) *resource.Resource {
	name := cfg.ServiceName
	if name == "" {
		name = "console"
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
		semconv.ServiceVersion(cfg.Version),
	)
}

// Setup installs the global tracer provider and W3C trace propagation.
// Disabled telemetry installs nothing and returns a no-op shutdown. An empty
// endpoint writes spans to stdout.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (Shutdown, error) {
	if !cfg.Enabled {
		return noop, nil
	}

	var (
		exp sdktrace.SpanExporter
		err error
	)
	if cfg.Endpoint != "" {
		exp, err = newCollectorExporter(ctx, cfg.Endpoint)
	} else {
		logger.Info("tracing to stdout")
		exp, err = newStdoutExporter(os.Stdout)
	}
	if err != nil {
		return noop, fmt.Errorf("create span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(newResource(cfg)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
