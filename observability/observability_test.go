package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/letanthang/tiktok-shop-ex/logger"
	"github.com/letanthang/tiktok-shop-ex/version"
)

func withRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("shopctl")

	if cfg.ServiceName != "shopctl" {
		t.Errorf("expected ServiceName 'shopctl', got %s", cfg.ServiceName)
	}
	if cfg.ServiceVersion != version.Version {
		t.Errorf("expected ServiceVersion %q, got %q", version.Version, cfg.ServiceVersion)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 || !cfg.Insecure {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("shopctl")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
	if cfg.Environment != "development" || !cfg.Insecure {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestNewMetrics(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	metrics.RecordCallStart(ctx)
	metrics.RecordCallEnd(ctx, "/order/202309/orders", "GET", "ok", time.Millisecond)
	metrics.RecordError(ctx, "SYSTEM_ERROR", "/order/202309/orders")
}

func TestStartCall_Tracing(t *testing.T) {
	exporter := withRecorder(t)
	info := CallInfo{ServiceName: "shopctl", APIName: "/order/202309/orders", Method: "GET", RequestID: "req-1", ShopID: "123"}

	ctx, ct := StartCall(context.Background(), info, nil, true)
	ct.End(ctx, 200, "", nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != SpanPlatformCall {
		t.Fatalf("unexpected spans %v", spans)
	}
	want := map[attribute.Key]string{
		AttrAPIName:    "/order/202309/orders",
		AttrHTTPMethod: "GET",
		AttrRequestID:  "req-1",
		AttrShopID:     "123",
		AttrStatus:     "ok",
	}
	got := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes {
		got[kv.Key] = kv.Value
	}
	for k, v := range want {
		if got[k].AsString() != v {
			t.Errorf("attribute %s = %q, want %q", k, got[k].AsString(), v)
		}
	}
	if got[AttrHTTPStatus].AsInt64() != 200 {
		t.Errorf("expected status code attribute 200, got %v", got[AttrHTTPStatus])
	}
}

func TestStartCall_TracingError(t *testing.T) {
	exporter := withRecorder(t)
	ctx, ct := StartCall(context.Background(), CallInfo{APIName: "/p", Method: "GET"}, nil, true)
	ct.End(ctx, 0, "SYSTEM_ERROR", fmt.Errorf("refused"))

	got := exporter.GetSpans()[0]
	if got.Status.Code != codes.Error || got.Status.Description != "refused" {
		t.Errorf("unexpected status %+v", got.Status)
	}
	if len(got.Events) != 1 {
		t.Errorf("expected one error event, got %d", len(got.Events))
	}
	for _, kv := range got.Attributes {
		if kv.Key == AttrHTTPStatus {
			t.Error("no status code attribute expected without a response")
		}
		if kv.Key == AttrErrorMessage && kv.Value.AsString() != "refused" {
			t.Errorf("error.message = %q", kv.Value.AsString())
		}
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("rate_%v", tt.rate), func(t *testing.T) {
			if got := sampler(tt.rate).Description(); got != tt.want {
				t.Errorf("sampler(%v) = %s, want %s", tt.rate, got, tt.want)
			}
		})
	}
}

func TestStartCall_TracingDisabled(t *testing.T) {
	exporter := withRecorder(t)
	ctx, ct := StartCall(context.Background(), CallInfo{APIName: "/p"}, nil, false)
	ct.End(ctx, 0, "SYSTEM_ERROR", fmt.Errorf("refused"))
	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("expected no spans with tracing off, got %d", n)
	}
}

func TestStartCall_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	ctx, ct := StartCall(context.Background(), CallInfo{APIName: "/p", Method: "POST"}, metrics, false)
	ct.End(ctx, 0, "SYSTEM_ERROR", fmt.Errorf("refused"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	for _, want := range []string{"tiktok_shop.call.total", "tiktok_shop.call.duration", "tiktok_shop.error.total"} {
		if !names[want] {
			t.Errorf("expected metric %s, got %v", want, names)
		}
	}
}

func TestInitTracer(t *testing.T) {
	for _, rate := range []float64{1.0, 0.0, 0.5} {
		t.Run(fmt.Sprintf("rate_%v", rate), func(t *testing.T) {
			cfg := DefaultTracerConfig("test")
			cfg.SampleRate = rate
			tp, err := InitTracer(context.Background(), &cfg, logger.Nop())
			if err != nil {
				t.Skipf("InitTracer failed (schema conflict): %v", err)
			}
			_ = tp.Shutdown(context.Background())
		})
	}
}

func TestInitMeter(t *testing.T) {
	cfg := DefaultMeterConfig("test")
	mp, err := InitMeter(context.Background(), &cfg, logger.Nop())
	if err != nil {
		t.Skipf("InitMeter failed (schema conflict): %v", err)
	}
	_ = mp.Shutdown(context.Background())
}
