package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/letanthang/tiktok-shop-ex/logger"
	"github.com/letanthang/tiktok-shop-ex/version"
)

// MeterConfig configures the OTLP metric exporter.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP collector, host:port.
	Endpoint string
	Insecure bool
	// Interval is how often call metrics are pushed.
	Interval time.Duration
}

// DefaultMeterConfig pushes to a local collector every 15s.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Version,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs an OTLP meter provider as the global one. Metrics
// created from Meter before the call are rebound to it. The caller shuts
// the provider down.
func InitMeter(ctx context.Context, cfg *MeterConfig, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	log.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded for platform calls.
type Metrics struct {
	callTotal    metric.Int64Counter
	callDuration metric.Float64Histogram
	callActive   metric.Int64UpDownCounter
	errorTotal   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	callTotal, err := meter.Int64Counter("tiktok_shop.call.total",
		metric.WithDescription("Total number of platform calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating call.total counter: %w", err)
	}

	callDuration, err := meter.Float64Histogram("tiktok_shop.call.duration",
		metric.WithDescription("Duration of platform calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating call.duration histogram: %w", err)
	}

	callActive, err := meter.Int64UpDownCounter("tiktok_shop.call.active",
		metric.WithDescription("Number of platform calls in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating call.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("tiktok_shop.error.total",
		metric.WithDescription("Total failed platform calls by error type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		callTotal:    callTotal,
		callDuration: callDuration,
		callActive:   callActive,
		errorTotal:   errorTotal,
	}, nil
}

// RecordCallStart increments the in-flight call count.
func (m *Metrics) RecordCallStart(ctx context.Context) {
	m.callActive.Add(ctx, 1)
}

// RecordCallEnd decrements in-flight calls and records the completed call.
func (m *Metrics) RecordCallEnd(ctx context.Context, api, method, status string, duration time.Duration) {
	m.callActive.Add(ctx, -1)
	m.callTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("api", api),
		attribute.String("method", method),
		attribute.String("status", status),
	))
	m.callDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("api", api),
		attribute.String("method", method),
	))
}

// RecordError records a failed call by error type.
func (m *Metrics) RecordError(ctx context.Context, errType, api string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("api", api),
	))
}
