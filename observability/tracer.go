package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/letanthang/tiktok-shop-ex/logger"
	"github.com/letanthang/tiktok-shop-ex/version"
)

// instrumentationName scopes the spans and instruments of platform calls.
const instrumentationName = "github.com/letanthang/tiktok-shop-ex"

// TracerConfig configures the OTLP trace exporter.
type TracerConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP collector, host:port.
	Endpoint string
	Insecure bool
	// SampleRate is the fraction of calls traced, 0 to 1.
	SampleRate float64
}

// DefaultTracerConfig traces every call to a local collector.
func DefaultTracerConfig(serviceName string) TracerConfig {
	return TracerConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Version,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		SampleRate:     1.0,
	}
}

// InitTracer installs an OTLP tracer provider as the global one, so call
// spans opened by the client pipeline are exported. The caller shuts the
// provider down.
func InitTracer(ctx context.Context, cfg *TracerConfig, log *logger.Logger) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("tracer initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))
	return tp, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

func newResource(serviceName, serviceVersion, environment string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			attribute.String("environment", environment),
		),
	)
}

// startCallSpan opens the client span of one platform call on the global
// tracer provider.
func startCallSpan(ctx context.Context, info CallInfo) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, SpanPlatformCall, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(AttrAPIName, info.APIName),
		attribute.String(AttrHTTPMethod, info.Method),
		attribute.String(AttrRequestID, info.RequestID),
	)
	if info.ServiceName != "" {
		span.SetAttributes(attribute.String(AttrServiceName, info.ServiceName))
	}
	if info.ShopID != "" {
		span.SetAttributes(attribute.String(AttrShopID, info.ShopID))
	}
	return ctx, span
}

// failSpan marks span as failed with err.
func failSpan(span trace.Span, err error) {
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
}

// SpanPlatformCall names the client span wrapping one platform call.
const SpanPlatformCall = "tiktok_shop.call"

// Attribute keys.
const (
	AttrServiceName  = "service.name"
	AttrRequestID    = "request.id"
	AttrAPIName      = "tiktok_shop.api"
	AttrShopID       = "tiktok_shop.shop_id"
	AttrHTTPMethod   = "http.request.method"
	AttrHTTPStatus   = "http.response.status_code"
	AttrDurationMs   = "duration_ms"
	AttrStatus       = "status"
	AttrErrorMessage = "error.message"
)
