package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CallInfo describes one platform call.
type CallInfo struct {
	ServiceName string
	APIName     string
	Method      string
	RequestID   string
	ShopID      string
}

// CallTracker spans and measures one platform call. A zero Metrics or a
// disabled tracker records nothing.
type CallTracker struct {
	info    CallInfo
	metrics *Metrics
	span    trace.Span
	start   time.Time
}

// StartCall opens the client span (when tracing is on) and records the
// call start. The returned context carries the span.
func StartCall(ctx context.Context, info CallInfo, metrics *Metrics, tracing bool) (context.Context, *CallTracker) {
	ct := &CallTracker{info: info, metrics: metrics, start: time.Now()}

	if tracing {
		ctx, ct.span = startCallSpan(ctx, info)
	}

	if ct.metrics != nil {
		ct.metrics.RecordCallStart(ctx)
	}
	return ctx, ct
}

// End closes the span and records the outcome. statusCode is 0 when no
// response was received; errType is empty on success.
func (ct *CallTracker) End(ctx context.Context, statusCode int, errType string, err error) {
	duration := time.Since(ct.start)
	status := "ok"
	if err != nil {
		status = "error"
	}

	if ct.span != nil {
		if statusCode > 0 {
			ct.span.SetAttributes(attribute.Int(AttrHTTPStatus, statusCode))
		}
		ct.span.SetAttributes(
			attribute.String(AttrStatus, status),
			attribute.Int64(AttrDurationMs, duration.Milliseconds()),
		)
		if err != nil {
			failSpan(ct.span, err)
		}
		ct.span.End()
	}

	if ct.metrics != nil {
		if err != nil {
			ct.metrics.RecordError(ctx, errType, ct.info.APIName)
		}
		ct.metrics.RecordCallEnd(ctx, ct.info.APIName, ct.info.Method, status, duration)
	}
}

// Duration returns the elapsed time since the call started.
func (ct *CallTracker) Duration() time.Duration {
	return time.Since(ct.start)
}
