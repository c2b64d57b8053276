package sandbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/letanthang/tiktok-shop-ex/credential"
	"github.com/letanthang/tiktok-shop-ex/signer"
)

var (
	now  = time.Unix(1700000000, 0)
	cred = credential.Credential{AppKey: "key", AppSecret: "secret"}
)

func newPlatform(t *testing.T, cfg Config) (*Platform, *httptest.Server) {
	t.Helper()
	if cfg.Apps == nil {
		cfg.Apps = map[string]string{cred.AppKey: cred.AppSecret}
	}
	cfg.Now = func() time.Time { return now }
	p := New(cfg)
	p.Handle(http.MethodPost, "/product/202309/products", func(c *gin.Context) (any, error) {
		var in map[string]any
		if err := c.ShouldBindJSON(&in); err != nil {
			return nil, &Error{Code: 12052700, Message: "invalid body"}
		}
		return gin.H{"product_id": "1729", "title": in["title"]}, nil
	})
	p.Handle(http.MethodGet, "/broken", func(c *gin.Context) (any, error) {
		return nil, errors.New("boom")
	})
	srv := httptest.NewServer(p)
	t.Cleanup(srv.Close)
	return p, srv
}

// signed builds a request signed at ts with the given credential.
func signed(t *testing.T, base, method, path string, body []byte, c credential.Credential, ts time.Time) *http.Request {
	t.Helper()
	s := &signer.Signer{Version: signer.V2, Now: func() time.Time { return ts }}
	req := signer.Request{Path: path, Body: body, ContentType: "application/json"}
	if err := s.Sign(&req, c); err != nil {
		t.Fatalf("sign: %v", err)
	}
	u, _ := url.Parse(base + path)
	u.RawQuery = req.Params.Values().Encode()
	r, err := http.NewRequest(method, u.String(), bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	return r
}

func envelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestPlatform_Verification(t *testing.T) {
	body := []byte(`{"title":"Tee"}`)
	wrongSecret := credential.Credential{AppKey: "key", AppSecret: "other"}
	unknownKey := credential.Credential{AppKey: "nope", AppSecret: "secret"}

	tests := []struct {
		name     string
		path     string
		cred     credential.Credential
		ts       time.Time
		tamper   func(*http.Request)
		wantHTTP int
		wantCode int
	}{
		{"valid", "/product/202309/products", cred, now, nil, http.StatusOK, CodeOK},
		{"wrong secret", "/product/202309/products", wrongSecret, now, nil, http.StatusUnauthorized, CodeInvalidSign},
		{"unknown app", "/product/202309/products", unknownKey, now, nil, http.StatusUnauthorized, CodeInvalidAppKey},
		{"stale timestamp", "/product/202309/products", cred, now.Add(-10 * time.Minute), nil, http.StatusUnauthorized, CodeInvalidTimestamp},
		{"tampered body", "/product/202309/products", cred, now, func(r *http.Request) {
			tampered := []byte(`{"title":"Hat"}`)
			r.Body = io.NopCloser(bytes.NewReader(tampered))
			r.ContentLength = int64(len(tampered))
		}, http.StatusUnauthorized, CodeInvalidSign},
		{"tampered query", "/product/202309/products", cred, now, func(r *http.Request) {
			q := r.URL.Query()
			q.Set("page_size", "100")
			r.URL.RawQuery = q.Encode()
		}, http.StatusUnauthorized, CodeInvalidSign},
		{"unknown route", "/missing", cred, now, nil, http.StatusNotFound, CodeNotFound},
		{"fixture failure", "/broken", cred, now, nil, http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newPlatform(t, Config{})
			method := http.MethodPost
			reqBody := body
			if tt.path == "/broken" {
				method, reqBody = http.MethodGet, nil
			}
			r := signed(t, srv.URL, method, tt.path, reqBody, tt.cred, tt.ts)
			if tt.tamper != nil {
				tt.tamper(r)
			}
			resp, err := http.DefaultClient.Do(r)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantHTTP {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantHTTP)
			}
			env := envelope(t, resp)
			if code, _ := env["code"].(float64); int(code) != tt.wantCode {
				t.Errorf("code = %v, want %d", env["code"], tt.wantCode)
			}
			if env["request_id"] == "" {
				t.Error("missing request_id")
			}
		})
	}
}

func TestPlatform_FixtureAndCalls(t *testing.T) {
	p, srv := newPlatform(t, Config{})
	r := signed(t, srv.URL, http.MethodPost, "/product/202309/products", []byte(`{"title":"Tee"}`), cred, now)
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	env := envelope(t, resp)
	data, _ := env["data"].(map[string]any)
	if data["title"] != "Tee" || data["product_id"] != "1729" {
		t.Errorf("unexpected data: %v", env)
	}

	calls := p.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if string(calls[0].Body) != `{"title":"Tee"}` || calls[0].Query.Get(signer.ParamAppKey) != "key" {
		t.Errorf("unexpected recorded call: %+v", calls[0])
	}
	if calls[0].RequestID != env["request_id"] {
		t.Errorf("request id mismatch: %s vs %v", calls[0].RequestID, env["request_id"])
	}
	p.Reset()
	if len(p.Calls()) != 0 {
		t.Error("Reset did not clear calls")
	}
}

func TestPlatform_Tokens(t *testing.T) {
	_, srv := newPlatform(t, Config{Tokens: []string{"tok"}})
	for _, tc := range []struct {
		token string
		want  int
	}{{"tok", CodeOK}, {"bad", CodeInvalidToken}, {"", CodeInvalidToken}} {
		t.Run("token_"+strconv.Quote(tc.token), func(t *testing.T) {
			r := signed(t, srv.URL, http.MethodPost, "/product/202309/products", []byte(`{}`), cred, now)
			if tc.token != "" {
				r.Header.Set(headerAccessToken, tc.token)
			}
			resp, err := http.DefaultClient.Do(r)
			if err != nil {
				t.Fatal(err)
			}
			env := envelope(t, resp)
			if code, _ := env["code"].(float64); int(code) != tc.want {
				t.Errorf("code = %v, want %d", env["code"], tc.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	e := &Error{Code: CodeInvalidSign, Message: "invalid sign"}
	if e.Error() != "106001: invalid sign" {
		t.Errorf("Error() = %q", e.Error())
	}
}
