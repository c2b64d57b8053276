// Package signer builds the canonical request string and computes the
// HMAC-SHA256 request signature required by the platform.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/letanthang/tiktok-shop-ex/credential"
	"github.com/letanthang/tiktok-shop-ex/errors"
)

// Request is the part of an outgoing call covered by the signature.
type Request struct {
	Path        string
	Params      Params
	Body        []byte
	ContentType string
}

// Signer injects app_key, timestamp and sign into a request.
type Signer struct {
	Version Version
	// Now supplies the timestamp; nil means time.Now.
	Now func() time.Time
}

// New returns a Signer for the given version.
func New(version Version) *Signer {
	if version == "" {
		version = DefaultVersion
	}
	return &Signer{Version: version, Now: time.Now}
}

// Sign stamps req with a fresh timestamp and its signature. The body is not
// modified. A credential without a secret yields a SIGNING_ERROR and req is
// left untouched.
func (s *Signer) Sign(req *Request, cred credential.Credential) error {
	if !cred.HasSecret() {
		return errors.Signing("app_secret is required to sign requests")
	}
	if cred.AppKey == "" {
		return errors.Signing("app_key is required to sign requests")
	}

	params := req.Params.Clone()
	params.Del(ParamSign)
	params.Set(ParamAppKey, cred.AppKey)
	params.Set(ParamTimestamp, strconv.FormatInt(s.now().Unix(), 10))

	params.Set(ParamSign, Compute(cred.AppSecret, Canonical(Input{
		Path:        req.Path,
		Params:      params,
		Body:        req.Body,
		ContentType: req.ContentType,
		Secret:      cred.AppSecret,
		Version:     s.Version,
	})))
	req.Params = params
	return nil
}

func (s *Signer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Compute returns hex(HMAC-SHA256(secret, canonical)).
func Compute(secret, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature for in and compares it with sign in
// constant time.
func Verify(in Input, sign string) bool {
	want := Compute(in.Secret, Canonical(in))
	return hmac.Equal([]byte(want), []byte(strings.ToLower(sign)))
}
