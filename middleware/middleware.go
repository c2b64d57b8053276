// Package middleware holds the ordered request pipeline every platform call
// passes through.
//
// A Handler takes a Call and returns the raw response.Outcome. A returned
// error aborts the call before or instead of dispatch (signing, encoding);
// failures of the round trip itself travel in Outcome.Err so the response
// handler can classify them.
package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/letanthang/tiktok-shop-ex/credential"
	"github.com/letanthang/tiktok-shop-ex/response"
	"github.com/letanthang/tiktok-shop-ex/signer"
)

// Call is one outgoing request as it moves through the chain.
type Call struct {
	Method string
	// Path is the path given by the caller, relative to the endpoint.
	Path string
	// URL is the absolute URL without query, set by the base_url stage.
	URL    *url.URL
	Params signer.Params
	Header http.Header
	// Body is the structured request body, nil for none.
	Body any
	// Payload is the encoded body sent on the wire.
	Payload     []byte
	ContentType string
	Credential  credential.Credential
	APIName     string
	Proxy       string
	// Captured is the structured body as it was when signed.
	Captured  any
	RequestID string
}

// Handler processes a Call.
type Handler func(ctx context.Context, call *Call) (*response.Outcome, error)

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// Stage is a named Middleware.
type Stage struct {
	Name       string
	Middleware Middleware
}

// Stage names, outermost first.
const (
	StageTimeout     = "timeout"
	StageBaseURL     = "base_url"
	StageOptions     = "options"
	StageSign        = "sign"
	StageCaptureBody = "capture_body"
	StageEncode      = "encode"
	StageObserve     = "observe"
)

// Chain composes stages around terminal. The first stage is outermost:
// it sees the call first on the way out and the outcome last on the way in.
//
// Chain(terminal, a, b, c) is equivalent to a(b(c(terminal))).
func Chain(terminal Handler, stages ...Stage) Handler {
	h := terminal
	for i := len(stages) - 1; i >= 0; i-- {
		h = stages[i].Middleware(h)
	}
	return h
}

// Names returns the stage names in order.
func Names(stages []Stage) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return names
}
