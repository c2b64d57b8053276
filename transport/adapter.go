package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpproxy"

	"github.com/letanthang/tiktok-shop-ex/signer"
	"github.com/letanthang/tiktok-shop-ex/util"
)

// Request is a fully resolved outbound request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the raw result of a round trip.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Adapter executes requests over a pooled *http.Client.
type Adapter struct {
	httpClient *http.Client
	config     Config
	static     *url.URL
	env        func(*url.URL) (*url.URL, error)
}

// New creates an Adapter with the given configuration. Proxy environment
// variables are read once, here.
func New(cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		config: cfg,
		env:    httpproxy.FromEnvironment().ProxyFunc(),
	}
	if cfg.Proxy != "" {
		a.static, _ = parseProxy(cfg.Proxy)
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = a.proxyFor

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			tr.TLSClientConfig = tlsCfg
		}
	}

	a.httpClient = &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}
	return a, nil
}

// Do sends req and reads the whole response body. Any status code is a
// response; only failures to complete the round trip are errors.
func (a *Adapter) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("read response body: %w", err))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Close releases idle connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Config returns the effective configuration.
func (a *Adapter) Config() Config {
	return a.config
}

func (a *Adapter) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, NewRequestError(redact(err))
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", a.config.UserAgent)
	}
	return httpReq, nil
}

// proxyFor picks the proxy for one outbound request.
func (a *Adapter) proxyFor(req *http.Request) (*url.URL, error) {
	if p := ProxyFromContext(req.Context()); p != "" {
		return parseProxy(p)
	}
	if a.static != nil {
		return a.static, nil
	}
	return a.env(req.URL)
}

func classify(ctx context.Context, err error) *Error {
	err = redact(err)
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

// redact masks the signature and access token in the URL that net/http
// puts into its errors.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		uerr.URL, _, _ = strings.Cut(uerr.URL, "?")
		return err
	}
	uerr.URL = util.RedactURL(u, signer.ParamSign, signer.ParamAccessToken)
	return err
}

type proxyKey struct{}

// WithProxy returns a context that routes calls made with it through proxy.
func WithProxy(ctx context.Context, proxy string) context.Context {
	if proxy == "" {
		return ctx
	}
	return context.WithValue(ctx, proxyKey{}, proxy)
}

// ProxyFromContext returns the proxy set by WithProxy, or "".
func ProxyFromContext(ctx context.Context) string {
	p, _ := ctx.Value(proxyKey{}).(string)
	return p
}
