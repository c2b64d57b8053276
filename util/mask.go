package util

import (
	"net/url"
)

const masked = "***"

// MaskSecret hides sensitive parts of a string for safe display in logs.
// If the string is shorter than visiblePrefix, it is fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return masked
	}
	return s[:visiblePrefix] + masked
}

// RedactURL returns u as a string with the values of the given query
// parameters replaced by a mask. The input is not modified.
func RedactURL(u *url.URL, params ...string) string {
	if u == nil {
		return ""
	}
	cp := *u
	q := cp.Query()
	changed := false
	for _, p := range params {
		if _, ok := q[p]; ok {
			q.Set(p, masked)
			changed = true
		}
	}
	if changed {
		cp.RawQuery = q.Encode()
	}
	return cp.String()
}
