package shop

import (
	"fmt"
	"net/url"
	"time"

	"github.com/letanthang/tiktok-shop-ex/config"
	"github.com/letanthang/tiktok-shop-ex/credential"
	"github.com/letanthang/tiktok-shop-ex/errors"
	"github.com/letanthang/tiktok-shop-ex/logger"
	"github.com/letanthang/tiktok-shop-ex/observability"
	"github.com/letanthang/tiktok-shop-ex/response"
	"github.com/letanthang/tiktok-shop-ex/security"
	"github.com/letanthang/tiktok-shop-ex/signer"
	"github.com/letanthang/tiktok-shop-ex/validation"
)

// DefaultEndpoint is the production Open API host.
const DefaultEndpoint = "https://open-api.tiktokglobalshop.com"

const (
	defaultTimeout     = 30 * time.Second
	defaultServiceName = "tiktok-shop"
	configName         = "shopctl"
	envPrefix          = "TIKTOK_SHOP"
)

// ClientConfig holds the process-wide defaults of a Client.
type ClientConfig struct {
	// Endpoint is the API base URL.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,url"`

	// Proxy is used for every call that does not name its own.
	Proxy string `yaml:"proxy" mapstructure:"proxy" validate:"omitempty,url"`

	// Timeout caps each call, signing through decoding.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// SignVersion selects the signature composition: v1 or v2.
	SignVersion string `yaml:"sign_version" mapstructure:"sign_version" validate:"omitempty,oneof=v1 v2"`

	// ServiceName labels logs, spans and metrics.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// Credential is the default credential, overridable per client and per call.
	Credential credential.Credential `yaml:"credential" mapstructure:"credential"`

	TLS     *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
	Headers map[string]string   `yaml:"headers" mapstructure:"headers"`

	// Log configures the logger built when Logger is nil.
	Log logger.Config `yaml:"log" mapstructure:"log" validate:"-"`

	// Tracing records a span per call on the global tracer provider.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`

	// ResponseHandler replaces the default response normalizer.
	ResponseHandler response.Handler `yaml:"-" mapstructure:"-" validate:"-"`

	Logger  *logger.Logger         `yaml:"-" mapstructure:"-" validate:"-"`
	Metrics *observability.Metrics `yaml:"-" mapstructure:"-" validate:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *ClientConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.SignVersion == "" {
		c.SignVersion = string(signer.DefaultVersion)
	}
	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
	c.Log.ApplyDefaults()
}

// Validate checks the struct tags and the TLS settings. The credential is
// validated separately by New, after per-client overrides are merged.
func (c *ClientConfig) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if u, err := url.Parse(c.Endpoint); err != nil || u.Host == "" {
		return errors.Validation(fmt.Sprintf("endpoint: %q has no host", c.Endpoint)).WithCause(err)
	}
	if err := c.TLS.Validate(); err != nil {
		return errors.Validation("tls: " + err.Error()).WithCause(err)
	}
	return nil
}

// LoadConfig reads the client configuration from config.yml, .env and
// TIKTOK_SHOP_* environment variables, in increasing precedence.
func LoadConfig(opts ...config.LoaderOption) (ClientConfig, error) {
	var cfg ClientConfig
	opts = append([]config.LoaderOption{config.WithEnvPrefix(envPrefix)}, opts...)
	if err := config.LoadConfig(configName, &cfg, opts...); err != nil {
		return ClientConfig{}, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
