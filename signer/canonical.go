package signer

import (
	"fmt"
	"mime"
	"strings"
)

// Version selects how the canonical string is composed.
type Version string

const (
	// V1 signs the path and query parameters.
	V1 Version = "v1"
	// V2 also signs the request body, except multipart uploads.
	V2 Version = "v2"
)

// DefaultVersion is used when no version is configured.
const DefaultVersion = V2

// ParseVersion accepts "v1", "v2" or "" (DefaultVersion).
func ParseVersion(s string) (Version, error) {
	switch Version(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultVersion, nil
	case V1:
		return V1, nil
	case V2:
		return V2, nil
	}
	return "", fmt.Errorf("unknown sign version %q", s)
}

// IncludesBody reports whether v signs a body of the given content type.
func (v Version) IncludesBody(contentType string) bool {
	return v == V2 && !isMultipart(contentType)
}

// Parameters never covered by the signature.
const (
	ParamSign        = "sign"
	ParamAccessToken = "access_token"
	ParamAppKey      = "app_key"
	ParamTimestamp   = "timestamp"
)

// Input is everything the canonical string depends on.
type Input struct {
	Path        string
	Params      Params
	Body        []byte
	ContentType string
	Secret      string
	Version     Version
}

// Canonical builds the string to sign:
//
//	secret + path + k1v1 + k2v2 ... [+ body] + secret
//
// Keys are sorted ascending and sign and access_token are excluded.
// The body is appended only when Version.IncludesBody holds.
func Canonical(in Input) string {
	var b strings.Builder
	b.WriteString(in.Secret)
	b.WriteString(in.Path)
	for _, p := range in.Params.Sorted() {
		if p.Key == ParamSign || p.Key == ParamAccessToken {
			continue
		}
		b.WriteString(p.Key)
		b.WriteString(p.Value)
	}
	if len(in.Body) > 0 && in.Version.IncludesBody(in.ContentType) {
		b.Write(in.Body)
	}
	b.WriteString(in.Secret)
	return b.String()
}

func isMultipart(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(contentType), "multipart/")
	}
	return strings.HasPrefix(mt, "multipart/")
}
