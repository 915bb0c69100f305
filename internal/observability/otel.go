package observability

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/conschat/conschat-go"

// Setup installs an OTLP/HTTP tracer provider exporting to endpoint, either a full URL
// such as http://collector:4318 or a bare host:port (sent over TLS).
// An empty endpoint leaves the global no-op provider in place and returns a nil provider.
func Setup(ctx context.Context, endpoint string) (*sdktrace.TracerProvider, error) {
	if endpoint == "" {
		return nil, nil
	}
	opts, err := exporterOptions(endpoint)
	if err != nil {
		return nil, err
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "conschat"))),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

func exporterOptions(raw string) ([]otlptracehttp.Option, error) {
	if !strings.Contains(raw, "://") {
		return []otlptracehttp.Option{otlptracehttp.WithEndpoint(raw)}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid telemetry url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid telemetry url %q: missing host", raw)
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(u.Host)}
	switch u.Scheme {
	case "http":
		opts = append(opts, otlptracehttp.WithInsecure())
	case "https":
	default:
		return nil, fmt.Errorf("invalid telemetry url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Path != "" && u.Path != "/" {
		opts = append(opts, otlptracehttp.WithURLPath(u.Path))
	}
	return opts, nil
}

// Shutdown flushes tp. It accepts the nil provider returned when tracing is off.
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}

// Tracer returns the tracer used for outgoing completion calls.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
