package shop

import (
	"context"
	"fmt"

	"github.com/letanthang/tiktok-shop-ex/component"
)

// Component wraps a Client with lifecycle management. The client is built
// in Start.
type Component struct {
	name   string
	cfg    ClientConfig
	opts   Options
	client *Client
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a component that builds a Client from cfg and opts.
func NewComponent(name string, cfg ClientConfig, opts Options) *Component {
	if name == "" {
		name = "tiktok-shop"
	}
	return &Component{name: name, cfg: cloneConfig(cfg), opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	return c.name
}

// Start builds the client.
func (c *Component) Start(_ context.Context) error {
	client, err := New(c.cfg, c.opts)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop releases idle connections.
func (c *Component) Stop(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Close(ctx)
}

// Health reports whether the client has been built.
func (c *Component) Health(_ context.Context) component.Health {
	if c.client == nil {
		return component.Health{Name: c.name, Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.name, Status: component.StatusHealthy}
}

// Describe returns the component description for startup summaries.
func (c *Component) Describe() component.Description {
	endpoint := c.cfg.Endpoint
	if c.client != nil {
		endpoint = c.client.Endpoint()
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return component.Description{
		Name:    "TikTok Shop",
		Type:    "api-client",
		Details: fmt.Sprintf("%s sign=%s", endpoint, signVersion(c.cfg.SignVersion)),
	}
}

// Client returns the built client. Must be called after Start.
func (c *Component) Client() *Client {
	return c.client
}

func signVersion(v string) string {
	if v == "" {
		return "v2"
	}
	return v
}
