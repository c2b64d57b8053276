package transport

import (
	"fmt"
	"net/url"
	"time"

	"github.com/letanthang/tiktok-shop-ex/security"
	"github.com/letanthang/tiktok-shop-ex/version"
)

const defaultTimeout = 30 * time.Second

// Config configures the Adapter.
type Config struct {
	// Timeout bounds a single round trip. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// TLS configures the transport's TLS settings.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Proxy is the static proxy URL used when the call context carries none.
	Proxy string `yaml:"proxy" mapstructure:"proxy"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent defaults to tiktok-shop-ex/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("transport: timeout must be positive")
	}
	if c.Proxy != "" {
		if _, err := parseProxy(c.Proxy); err != nil {
			return err
		}
	}
	return c.TLS.Validate()
}

func parseProxy(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("transport: invalid proxy URL %q", raw)
	}
	return u, nil
}
