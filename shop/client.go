package shop

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/letanthang/tiktok-shop-ex/codec"
	"github.com/letanthang/tiktok-shop-ex/credential"
	"github.com/letanthang/tiktok-shop-ex/errors"
	"github.com/letanthang/tiktok-shop-ex/logger"
	"github.com/letanthang/tiktok-shop-ex/middleware"
	"github.com/letanthang/tiktok-shop-ex/response"
	"github.com/letanthang/tiktok-shop-ex/signer"
	"github.com/letanthang/tiktok-shop-ex/transport"
)

// Options are the per-client overrides applied on top of ClientConfig.
type Options struct {
	Credential credential.Credential
	Endpoint   string
}

// Client sends signed requests to the platform. It is immutable after New
// and safe for concurrent use.
type Client struct {
	cfg     ClientConfig
	cred    credential.Credential
	adapter *transport.Adapter
	stages  []middleware.Stage
	handler middleware.Handler
	resp    response.Handler
	log     *logger.Logger
}

// New builds a Client from cfg and opts. cfg is copied; later changes to it
// do not reach the client. A credential missing app_key or app_secret fails
// with a VALIDATION_ERROR and no client.
func New(cfg ClientConfig, opts Options) (*Client, error) {
	cfg = cloneConfig(cfg)
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cred, err := credential.Validate(credential.Merge(cfg.Credential, opts.Credential))
	if err != nil {
		return nil, err
	}

	version, err := signer.ParseVersion(cfg.SignVersion)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}
	base, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("invalid endpoint %q", cfg.Endpoint)).WithCause(err)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.New(&cfg.Log, cfg.ServiceName)
	}
	resp := cfg.ResponseHandler
	if resp == nil {
		resp = response.Default(log)
	}

	adapter, err := transport.New(transport.Config{
		Timeout: cfg.Timeout,
		TLS:     cfg.TLS,
		Proxy:   cfg.Proxy,
		Headers: cfg.Headers,
	})
	if err != nil {
		return nil, errors.Validation(err.Error()).WithCause(err)
	}

	stages := []middleware.Stage{
		middleware.Timeout(cfg.Timeout),
		middleware.BaseURL(base),
		middleware.Options(middleware.OptionsConfig{
			Proxy:      cfg.Proxy,
			Credential: cred,
			Version:    version,
		}),
		middleware.Sign(signer.New(version), codec.JSON),
		middleware.CaptureBody(),
		middleware.Encode(codec.JSON),
		middleware.Observe(middleware.ObserveConfig{
			ServiceName: cfg.ServiceName,
			Log:         log,
			Metrics:     cfg.Metrics,
			Tracing:     cfg.Tracing,
		}),
	}

	return &Client{
		cfg:     cfg,
		cred:    cred,
		adapter: adapter,
		stages:  stages,
		handler: middleware.Chain(middleware.Terminal(adapter), stages...),
		resp:    resp,
		log:     log.WithComponent("shop"),
	}, nil
}

func cloneConfig(cfg ClientConfig) ClientConfig {
	if cfg.Headers != nil {
		h := make(map[string]string, len(cfg.Headers))
		for k, v := range cfg.Headers {
			h[k] = v
		}
		cfg.Headers = h
	}
	if cfg.TLS != nil {
		tls := *cfg.TLS
		cfg.TLS = &tls
	}
	return cfg
}

// Stages returns the middleware names, outermost first.
func (c *Client) Stages() []string {
	return middleware.Names(c.stages)
}

// Endpoint returns the resolved API base URL.
func (c *Client) Endpoint() string {
	return c.cfg.Endpoint
}

// Credential returns the merged default credential.
func (c *Client) Credential() credential.Credential {
	return c.cred
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...CallOption) (response.Body, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post sends a POST request with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...CallOption) (response.Body, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put sends a PUT request with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...CallOption) (response.Body, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, body any, opts ...CallOption) (response.Body, error) {
	return c.Do(ctx, http.MethodDelete, path, body, opts...)
}

// Do sends a request through the middleware chain and normalizes the
// response. The result is the platform body on code 0; otherwise the error
// is a SIGNING_ERROR, ENCODING_ERROR, SYSTEM_ERROR or APPLICATION_ERROR
// AppError, or whatever a configured ResponseHandler returns.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...CallOption) (response.Body, error) {
	call := &middleware.Call{
		Method: method,
		Path:   path,
		Body:   body,
		Header: make(http.Header),
	}
	for _, opt := range opts {
		opt(call)
	}

	out, err := c.handler(ctx, call)
	if err != nil {
		return nil, err
	}
	if call.RequestID != "" {
		ctx = logger.ContextWithRequestID(ctx, call.RequestID)
	}
	return c.resp.HandleResponse(ctx, *out)
}

// Close releases idle connections.
func (c *Client) Close(ctx context.Context) error {
	return c.adapter.Close(ctx)
}

// GetInto sends a GET request and decodes the response data into T.
func GetInto[T any](ctx context.Context, c *Client, path string, opts ...CallOption) (T, error) {
	body, err := c.Get(ctx, path, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return response.Decode[T](body)
}

// PostInto sends a POST request and decodes the response data into T.
func PostInto[T any](ctx context.Context, c *Client, path string, reqBody any, opts ...CallOption) (T, error) {
	body, err := c.Post(ctx, path, reqBody, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return response.Decode[T](body)
}
