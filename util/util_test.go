package util

import (
	"net/url"
	"strings"
	"testing"
)

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "hello", "world"); got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
	if got := Coalesce(0, 0, 42); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"k", false},
		{" k ", false},
	}
	for _, tc := range tests {
		if got := IsBlank(tc.in); got != tc.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeEnvValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"secret"`, "secret"},
		{`'secret'`, "secret"},
		{"  secret  ", "secret"},
		{`"unbalanced`, `"unbalanced`},
		{`""`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := SanitizeEnvValue(tc.in); got != tc.want {
				t.Errorf("SanitizeEnvValue(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input  string
		prefix int
		want   string
	}{
		{"abcdef123", 4, "abcd***"},
		{"abc", 4, "***"},
		{"abcd", 4, "***"},
		{"", 2, "***"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := MaskSecret(tc.input, tc.prefix); got != tc.want {
				t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.input, tc.prefix, got, tc.want)
			}
		})
	}
}

func TestRedactURL(t *testing.T) {
	u, _ := url.Parse("https://api.example.com/orders?app_key=k&sign=deadbeef&timestamp=1")
	got := RedactURL(u, "sign", "access_token")
	if strings.Contains(got, "deadbeef") {
		t.Errorf("signature leaked: %s", got)
	}
	if !strings.Contains(got, "app_key=k") {
		t.Errorf("expected app_key preserved: %s", got)
	}
	if u.Query().Get("sign") != "deadbeef" {
		t.Error("input URL must not be modified")
	}
	if RedactURL(nil) != "" {
		t.Error("expected empty string for nil URL")
	}
}
