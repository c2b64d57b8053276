// Package response turns the raw outcome of a platform call into the value
// returned to the caller.
//
// Every response carries the platform envelope
//
//	{"code": 0, "message": "Success", "data": {...}, "request_id": "..."}
//
// and code 0 is the only success.
package response

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/letanthang/tiktok-shop-ex/errors"
	"github.com/letanthang/tiktok-shop-ex/logger"
	"github.com/letanthang/tiktok-shop-ex/transport"
)

// Body is a decoded response envelope.
type Body map[string]any

// Code returns the envelope's code field and whether it was present and numeric.
func (b Body) Code() (int64, bool) {
	switch v := b["code"].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// Message returns the envelope's message field.
func (b Body) Message() string {
	s, _ := b["message"].(string)
	return s
}

// RequestID returns the platform request ID.
func (b Body) RequestID() string {
	s, _ := b["request_id"].(string)
	return s
}

// Data returns the envelope's data field.
func (b Body) Data() any {
	return b["data"]
}

// Outcome is the raw result of one dispatch. Err is set when no usable
// response was received; Body is set when the response was decoded.
type Outcome struct {
	Response *transport.Response
	Body     Body
	Err      error
}

// Handler classifies an Outcome.
type Handler interface {
	HandleResponse(ctx context.Context, outcome Outcome) (Body, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, outcome Outcome) (Body, error)

// HandleResponse calls f.
func (f HandlerFunc) HandleResponse(ctx context.Context, outcome Outcome) (Body, error) {
	return f(ctx, outcome)
}

// Default returns the standard Handler:
//   - a transport failure becomes a SYSTEM_ERROR and is logged once;
//   - code 0 returns the body;
//   - anything else becomes an APPLICATION_ERROR carrying the body.
func Default(log *logger.Logger) Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &defaultHandler{log: log.WithComponent("response")}
}

type defaultHandler struct {
	log *logger.Logger
}

func (h *defaultHandler) HandleResponse(ctx context.Context, o Outcome) (Body, error) {
	if o.Err != nil {
		sysErr := errors.System(o.Err).WithDetail("detail", detail(o))
		fields := logger.Fields(
			logger.FieldType, "SystemError",
			logger.FieldError, o.Err.Error(),
		)
		if o.Response != nil {
			fields[logger.FieldStatus] = o.Response.StatusCode
		}
		h.log.WithContext(ctx).Error("platform call failed", fields)
		return nil, sysErr
	}

	if code, ok := o.Body.Code(); ok && code == 0 {
		return o.Body, nil
	}
	return nil, errors.Application(o.Body)
}

// detail describes a failed outcome without the response body.
func detail(o Outcome) map[string]any {
	d := map[string]any{"error": o.Err.Error()}
	if o.Response != nil {
		d["status"] = o.Response.StatusCode
	}
	switch {
	case transport.IsTimeout(o.Err):
		d["kind"] = "timeout"
	case transport.IsConnection(o.Err):
		d["kind"] = "connection"
	}
	return d
}

// Decode maps the envelope's data field into T.
func Decode[T any](b Body) (T, error) {
	var out T
	data, ok := b["data"]
	if !ok || data == nil {
		return out, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return out, errors.Internal(fmt.Errorf("re-encode data: %w", err))
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.New(errors.ErrCodeEncoding, "decode response data").WithCause(err)
	}
	return out, nil
}
