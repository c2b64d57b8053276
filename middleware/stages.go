package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/letanthang/tiktok-shop-ex/codec"
	"github.com/letanthang/tiktok-shop-ex/credential"
	"github.com/letanthang/tiktok-shop-ex/errors"
	"github.com/letanthang/tiktok-shop-ex/logger"
	"github.com/letanthang/tiktok-shop-ex/observability"
	"github.com/letanthang/tiktok-shop-ex/response"
	"github.com/letanthang/tiktok-shop-ex/signer"
	"github.com/letanthang/tiktok-shop-ex/transport"
	"github.com/letanthang/tiktok-shop-ex/util"
)

// HeaderAccessToken carries the shop access token on V2 APIs.
const HeaderAccessToken = "x-tts-access-token"

// Query parameters identifying the shop.
const (
	ParamShopID     = "shop_id"
	ParamShopCipher = "shop_cipher"
)

// Timeout caps the whole round trip. A zero d disables the cap.
func Timeout(d time.Duration) Stage {
	return Stage{Name: StageTimeout, Middleware: func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*response.Outcome, error) {
			if d <= 0 {
				return next(ctx, call)
			}
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, call)
		}
	}}
}

// BaseURL resolves call.Path against base. A query string in the path is
// moved into call.Params; absolute http(s) paths are used as given.
func BaseURL(base *url.URL) Stage {
	return Stage{Name: StageBaseURL, Middleware: func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*response.Outcome, error) {
			u, extra, err := resolve(base, call.Path)
			if err != nil {
				return nil, errors.Validation(fmt.Sprintf("invalid request path %q", call.Path)).WithCause(err)
			}
			call.URL = u
			for _, p := range extra {
				if _, ok := call.Params.Get(p.Key); !ok {
					call.Params.Add(p.Key, p.Value)
				}
			}
			return next(ctx, call)
		}
	}}
}

func resolve(base *url.URL, p string) (*url.URL, signer.Params, error) {
	ref, err := url.Parse(p)
	if err != nil {
		return nil, nil, err
	}
	extra := signer.FromValues(ref.Query())

	if ref.Scheme == "http" || ref.Scheme == "https" {
		u := *ref
		u.RawQuery = ""
		return &u, extra, nil
	}
	if ref.Scheme != "" || ref.Host != "" {
		return nil, nil, fmt.Errorf("unsupported path %q", p)
	}

	u := *base
	u.Path = strings.TrimRight(base.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return &u, extra, nil
}

// OptionsConfig holds the client-level values the options stage attaches.
type OptionsConfig struct {
	Proxy      string
	Credential credential.Credential
	Version    signer.Version
}

// Options attaches the proxy, the credential and the API name to the call.
// Per-call values win over cfg field by field.
func Options(cfg OptionsConfig) Stage {
	return Stage{Name: StageOptions, Middleware: func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*response.Outcome, error) {
			call.Proxy = util.Coalesce(call.Proxy, cfg.Proxy)
			ctx = transport.WithProxy(ctx, call.Proxy)

			if call.Header == nil {
				call.Header = make(http.Header)
			}
			if call.ContentType == "" {
				call.ContentType = call.Header.Get("Content-Type")
			}

			cred := credential.Merge(cfg.Credential, call.Credential)
			call.Credential = cred
			if cred.ShopCipher != "" {
				if _, ok := call.Params.Get(ParamShopCipher); !ok {
					call.Params.Set(ParamShopCipher, cred.ShopCipher)
				}
			}
			if cred.ShopID != "" {
				if _, ok := call.Params.Get(ParamShopID); !ok {
					call.Params.Set(ParamShopID, cred.ShopID)
				}
			}
			if cred.AccessToken != "" {
				if cfg.Version == signer.V1 {
					call.Params.Set(signer.ParamAccessToken, cred.AccessToken)
				} else {
					call.Header.Set(HeaderAccessToken, cred.AccessToken)
				}
			}

			call.APIName = call.Path
			if call.URL != nil {
				call.APIName = call.URL.Path
			}
			return next(ctx, call)
		}
	}}
}

// Sign signs the call. When the version covers the body, the body is
// encoded here so the signed bytes are the bytes sent.
func Sign(s *signer.Signer, c codec.Codec) Stage {
	return Stage{Name: StageSign, Middleware: func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*response.Outcome, error) {
			if call.Payload == nil && call.Body != nil && s.Version.IncludesBody(call.ContentType) {
				if err := encode(c, call); err != nil {
					return nil, err
				}
			}

			path := call.Path
			if call.URL != nil {
				path = call.URL.Path
			}
			req := signer.Request{
				Path:        path,
				Params:      call.Params,
				Body:        call.Payload,
				ContentType: call.ContentType,
			}
			if err := s.Sign(&req, call.Credential); err != nil {
				return nil, err
			}
			call.Params = req.Params
			return next(ctx, call)
		}
	}}
}

// CaptureBody records the structured body before it is encoded.
func CaptureBody() Stage {
	return Stage{Name: StageCaptureBody, Middleware: func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*response.Outcome, error) {
			call.Captured = call.Body
			return next(ctx, call)
		}
	}}
}

// Encode serializes the outbound body, unless already done, and decodes
// the inbound one. A body that cannot be decoded is a failed round trip.
func Encode(c codec.Codec) Stage {
	return Stage{Name: StageEncode, Middleware: func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*response.Outcome, error) {
			if call.Payload == nil && call.Body != nil {
				if err := encode(c, call); err != nil {
					return nil, err
				}
			}
			if len(call.Payload) > 0 && call.ContentType != "" && call.Header.Get("Content-Type") == "" {
				call.Header.Set("Content-Type", call.ContentType)
			}

			out, err := next(ctx, call)
			if err != nil || out == nil || out.Err != nil || out.Response == nil || out.Body != nil {
				return out, err
			}
			body, derr := c.Decode(out.Response.Body)
			if derr != nil {
				out.Err = fmt.Errorf("HTTP %d: %w", out.Response.StatusCode, derr)
				return out, nil
			}
			out.Body = body
			return out, nil
		}
	}}
}

func encode(c codec.Codec, call *Call) error {
	data, ct, err := c.Encode(call.Body)
	if err != nil {
		return errors.Encoding(err)
	}
	call.Payload = data
	if call.ContentType == "" {
		call.ContentType = ct
	}
	return nil
}

// ObserveConfig configures the observe stage.
type ObserveConfig struct {
	ServiceName string
	Log         *logger.Logger
	Metrics     *observability.Metrics
	Tracing     bool
}

// Observe assigns the call a request ID, logs it at debug level, and
// records a span and metrics. Signatures and tokens are masked.
func Observe(cfg ObserveConfig) Stage {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("pipeline")

	return Stage{Name: StageObserve, Middleware: func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*response.Outcome, error) {
			call.RequestID = uuid.NewString()
			ctx = logger.ContextWithRequestID(ctx, call.RequestID)
			ctx, tracker := observability.StartCall(ctx, observability.CallInfo{
				ServiceName: cfg.ServiceName,
				APIName:     call.APIName,
				Method:      call.Method,
				RequestID:   call.RequestID,
				ShopID:      call.Credential.ShopID,
			}, cfg.Metrics, cfg.Tracing)

			clog := log.WithContext(ctx)
			debug := clog.Enabled(zerolog.DebugLevel)
			if debug {
				clog.Debug("platform request", logger.Fields(
					logger.FieldMethod, call.Method,
					logger.FieldAPI, call.APIName,
					logger.FieldURL, redactedURL(call),
					logger.FieldAppKey, util.MaskSecret(call.Credential.AppKey, 4),
					logger.FieldBodySize, len(call.Payload),
				))
			}

			out, err := next(ctx, call)

			status, errType, callErr := summarize(out, err)
			tracker.End(ctx, status, errType, callErr)

			if debug {
				fields := logger.MergeWithDuration(logger.Fields(
					logger.FieldAPI, call.APIName,
					logger.FieldStatus, status,
				), tracker.Duration())
				if out != nil && out.Body != nil {
					if code, ok := out.Body.Code(); ok {
						fields[logger.FieldCode] = code
					}
				}
				if errType != "" {
					fields[logger.FieldType] = errType
				}
				clog.Debug("platform response", fields)
			}
			return out, err
		}
	}}
}

// summarize reduces a call result to its HTTP status, error type and error.
func summarize(out *response.Outcome, err error) (int, string, error) {
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return 0, string(appErr.Code), err
		}
		return 0, string(errors.ErrCodeInternal), err
	}
	if out == nil {
		return 0, "", nil
	}
	status := 0
	if out.Response != nil {
		status = out.Response.StatusCode
	}
	if out.Err != nil {
		return status, string(errors.ErrCodeSystem), out.Err
	}
	if code, ok := out.Body.Code(); !ok || code != 0 {
		return status, string(errors.ErrCodeApplication), fmt.Errorf("platform code %v: %s", out.Body["code"], out.Body.Message())
	}
	return status, "", nil
}

func redactedURL(call *Call) string {
	if call.URL == nil {
		return call.Path
	}
	u := *call.URL
	u.RawQuery = call.Params.Values().Encode()
	return util.RedactURL(&u, signer.ParamSign, signer.ParamAccessToken)
}

// Doer sends a resolved request.
type Doer interface {
	Do(ctx context.Context, req *transport.Request) (*transport.Response, error)
}

// Terminal dispatches the call through d. Its outcome is never an error:
// round-trip failures are reported in Outcome.Err.
func Terminal(d Doer) Handler {
	return func(ctx context.Context, call *Call) (*response.Outcome, error) {
		u := *call.URL
		u.RawQuery = call.Params.Values().Encode()
		resp, err := d.Do(ctx, &transport.Request{
			Method: call.Method,
			URL:    u.String(),
			Header: call.Header,
			Body:   call.Payload,
		})
		return &response.Outcome{Response: resp, Err: err}, nil
	}
}
