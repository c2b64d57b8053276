// Package sandbox is a fake platform for tests and local development.
//
// It verifies app_key, timestamp and sign exactly as the platform does and
// answers with the platform envelope. Fixtures are registered per route:
//
//	p := sandbox.New(sandbox.Config{Apps: map[string]string{"key": "secret"}})
//	p.Handle(http.MethodGet, "/order/202309/orders", func(c *gin.Context) (any, error) {
//	    return gin.H{"orders": []any{}}, nil
//	})
//	srv := httptest.NewServer(p)
package sandbox

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/letanthang/tiktok-shop-ex/logger"
	"github.com/letanthang/tiktok-shop-ex/signer"
)

// Platform error codes.
const (
	CodeOK               = 0
	CodeInvalidSign      = 106001
	CodeInvalidAppKey    = 106002
	CodeInvalidTimestamp = 106003
	CodeInvalidToken     = 105002
	CodeNotFound         = 40006
	CodeInternal         = 10000
)

const (
	headerAccessToken = "x-tts-access-token"
	ctxRequestID      = "sandbox.request_id"
	defaultMaxSkew    = 5 * time.Minute
)

// Config configures a Platform.
type Config struct {
	// Apps maps app keys to their secrets.
	Apps map[string]string
	// Tokens, when non-empty, are the accepted access tokens.
	Tokens []string
	// Version is the signature composition to verify. Defaults to V2.
	Version signer.Version
	// MaxSkew bounds the accepted timestamp drift. Defaults to five minutes.
	MaxSkew time.Duration
	Now     func() time.Time
	Log     *logger.Logger
}

// Fixture answers a verified request. A returned *Error is sent as a
// platform error; any other error as CodeInternal.
type Fixture func(c *gin.Context) (any, error)

// Error is a platform error answer.
type Error struct {
	Status  int
	Code    int
	Message string
}

func (e *Error) Error() string {
	return strconv.Itoa(e.Code) + ": " + e.Message
}

// Call is a request received by the platform.
type Call struct {
	Method    string
	Path      string
	Query     url.Values
	Header    http.Header
	Body      []byte
	RequestID string
}

// Platform is an http.Handler serving the fake API.
type Platform struct {
	engine *gin.Engine
	cfg    Config
	tokens map[string]bool
	log    *logger.Logger

	mu    sync.Mutex
	calls []Call
}

// New creates a Platform with no routes.
func New(cfg Config) *Platform {
	if cfg.Version == "" {
		cfg.Version = signer.DefaultVersion
	}
	if cfg.MaxSkew <= 0 {
		cfg.MaxSkew = defaultMaxSkew
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}

	gin.SetMode(gin.ReleaseMode)
	p := &Platform{
		engine: gin.New(),
		cfg:    cfg,
		tokens: make(map[string]bool, len(cfg.Tokens)),
		log:    cfg.Log.WithComponent("sandbox"),
	}
	for _, t := range cfg.Tokens {
		p.tokens[t] = true
	}

	p.engine.Use(gin.Recovery(), p.record(), p.verify())
	p.engine.NoRoute(func(c *gin.Context) {
		p.fail(c, &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: "resource not found"})
	})
	return p
}

// ServeHTTP implements http.Handler.
func (p *Platform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.engine.ServeHTTP(w, r)
}

// Handle registers a fixture for method and path.
func (p *Platform) Handle(method, path string, f Fixture) {
	p.engine.Handle(method, path, func(c *gin.Context) {
		data, err := f(c)
		if err != nil {
			appErr, ok := err.(*Error)
			if !ok {
				appErr = &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: err.Error()}
			}
			p.fail(c, appErr)
			return
		}
		p.ok(c, data)
	})
}

// Calls returns the requests received so far.
func (p *Platform) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

// Reset forgets the recorded calls.
func (p *Platform) Reset() {
	p.mu.Lock()
	p.calls = nil
	p.mu.Unlock()
}

func (p *Platform) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		id := uuid.NewString()
		c.Set(ctxRequestID, id)

		p.mu.Lock()
		p.calls = append(p.calls, Call{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Query:     c.Request.URL.Query(),
			Header:    c.Request.Header.Clone(),
			Body:      body,
			RequestID: id,
		})
		p.mu.Unlock()

		p.log.Debug("sandbox request", logger.Fields(
			logger.FieldMethod, c.Request.Method,
			logger.FieldAPI, c.Request.URL.Path,
			logger.FieldRequestID, id,
		))
		c.Next()
	}
}

func (p *Platform) verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p.check(c); err != nil {
			p.fail(c, err)
			return
		}
		c.Next()
	}
}

func (p *Platform) check(c *gin.Context) *Error {
	q := c.Request.URL.Query()

	secret, ok := p.cfg.Apps[q.Get(signer.ParamAppKey)]
	if !ok {
		return &Error{Status: http.StatusUnauthorized, Code: CodeInvalidAppKey, Message: "invalid app_key"}
	}

	ts, err := strconv.ParseInt(q.Get(signer.ParamTimestamp), 10, 64)
	if err != nil {
		return &Error{Status: http.StatusUnauthorized, Code: CodeInvalidTimestamp, Message: "invalid timestamp"}
	}
	if drift := p.cfg.Now().Sub(time.Unix(ts, 0)); drift > p.cfg.MaxSkew || drift < -p.cfg.MaxSkew {
		return &Error{Status: http.StatusUnauthorized, Code: CodeInvalidTimestamp, Message: "timestamp expired"}
	}

	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	in := signer.Input{
		Path:        c.Request.URL.Path,
		Params:      signer.FromValues(q),
		Body:        body,
		ContentType: c.GetHeader("Content-Type"),
		Secret:      secret,
		Version:     p.cfg.Version,
	}
	if !signer.Verify(in, q.Get(signer.ParamSign)) {
		return &Error{Status: http.StatusUnauthorized, Code: CodeInvalidSign, Message: "invalid sign"}
	}

	if len(p.tokens) > 0 {
		token := c.GetHeader(headerAccessToken)
		if token == "" {
			token = q.Get(signer.ParamAccessToken)
		}
		if !p.tokens[token] {
			return &Error{Status: http.StatusUnauthorized, Code: CodeInvalidToken, Message: "invalid access token"}
		}
	}
	return nil
}

func (p *Platform) ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":       CodeOK,
		"message":    "Success",
		"data":       data,
		"request_id": c.GetString(ctxRequestID),
	})
}

func (p *Platform) fail(c *gin.Context, e *Error) {
	status := e.Status
	if status == 0 {
		status = http.StatusOK
	}
	p.log.Debug("sandbox error", logger.Fields(
		logger.FieldCode, e.Code,
		logger.FieldRequestID, c.GetString(ctxRequestID),
	))
	c.AbortWithStatusJSON(status, gin.H{
		"code":       e.Code,
		"message":    e.Message,
		"request_id": c.GetString(ctxRequestID),
	})
}
