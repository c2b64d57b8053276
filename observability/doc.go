// Package observability wires OpenTelemetry tracing and metrics for
// platform calls.
//
// Tracing:
//
//	tcfg := observability.DefaultTracerConfig("shopctl")
//	tp, err := observability.InitTracer(ctx, &tcfg, log)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	cfg := observability.DefaultMeterConfig("shopctl")
//	mp, err := observability.InitMeter(ctx, &cfg, log)
//	defer mp.Shutdown(ctx)
//	metrics, err := observability.NewMetrics(observability.Meter("shopctl"))
//
// Each call is tracked with StartCall and CallTracker.End, which the client
// pipeline does for you.
package observability
