package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type testCredential struct {
	AppKey    string `mapstructure:"app_key"`
	AppSecret string `mapstructure:"app_secret"`
}

type testConfig struct {
	Endpoint    string         `mapstructure:"endpoint"`
	Timeout     time.Duration  `mapstructure:"timeout"`
	SignVersion string         `mapstructure:"sign_version"`
	Credential  testCredential `mapstructure:"credential"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
endpoint: https://example.test
timeout: 5s
sign_version: v1
credential:
  app_key: key-from-file
`)

	var cfg testConfig
	if err := LoadConfig("shopctl", &cfg, WithConfigFile(path), WithEnvPrefix("TIKTOK_SHOP_TEST")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Endpoint != "https://example.test" {
		t.Errorf("expected endpoint from file, got %q", cfg.Endpoint)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Timeout)
	}
	if cfg.Credential.AppKey != "key-from-file" {
		t.Errorf("expected app key from file, got %q", cfg.Credential.AppKey)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "credential:\n  app_key: from-file\n")
	t.Setenv("TIKTOK_SHOP_TEST_CREDENTIAL_APP_KEY", `"from-env"`)
	t.Setenv("TIKTOK_SHOP_TEST_SIGN_VERSION", "v2")

	var cfg testConfig
	if err := LoadConfig("shopctl", &cfg, WithConfigFile(path), WithEnvPrefix("tiktok_shop_test_")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Credential.AppKey != "from-env" {
		t.Errorf("expected env to win, got %q", cfg.Credential.AppKey)
	}
	if cfg.SignVersion != "v2" {
		t.Errorf("expected sign_version from env, got %q", cfg.SignVersion)
	}
}

func TestLoadConfigPrefixFiltersEnv(t *testing.T) {
	t.Setenv("ENDPOINT", "https://unprefixed.test")

	var cfg testConfig
	err := LoadConfig("shopctl", &cfg,
		WithFileSystem(&mockFS{}),
		WithEnvPrefix("TIKTOK_SHOP_TEST"),
		WithDefault("endpoint", "https://default.test"),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Endpoint != "https://default.test" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "TIKTOK_SHOP_DOTENV_CREDENTIAL_APP_SECRET=dotenv-secret\n")
	t.Cleanup(func() { os.Unsetenv("TIKTOK_SHOP_DOTENV_CREDENTIAL_APP_SECRET") })

	var cfg testConfig
	if err := LoadConfig("shopctl", &cfg, WithEnvFile(envPath), WithConfigFile(filepath.Join(dir, "none.yml")), WithEnvPrefix("TIKTOK_SHOP_DOTENV")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Credential.AppSecret != "dotenv-secret" {
		t.Errorf("expected secret from .env, got %q", cfg.Credential.AppSecret)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvPrefix("TIKTOK_SHOP_NONE"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "endpoint: [unterminated\n")

	var cfg testConfig
	if err := LoadConfig("shopctl", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/shopctl/config.yml": true,
		"./.env":                   true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("shopctl", LoaderConfig{})
	if files.ConfigFile != "./cmd/shopctl/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles("shopctl", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if explicit.ConfigFile != "a.yml" || explicit.EnvFile != "b.env" {
		t.Errorf("explicit paths should win, got %+v", explicit)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestGenerateEnvKeyVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ENDPOINT", []string{"endpoint"}},
		{"SIGN_VERSION", []string{"sign_version", "sign.version"}},
		{"CREDENTIAL_APP_KEY", []string{"credential_app_key", "credential.app.key", "credential.app_key"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := generateEnvKeyVariants(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("generateEnvKeyVariants(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/path/config.yml")(&lc)
	WithEnvFile("/path/.env")(&lc)
	WithEnvPrefix("tiktok_shop_")(&lc)
	if lc.ConfigFile != "/path/config.yml" || lc.EnvFile != "/path/.env" {
		t.Errorf("unexpected file options %+v", lc)
	}
	if lc.EnvPrefix != "TIKTOK_SHOP" {
		t.Errorf("expected normalized prefix, got %q", lc.EnvPrefix)
	}
}
