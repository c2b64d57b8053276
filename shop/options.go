package shop

import (
	"github.com/letanthang/tiktok-shop-ex/credential"
	"github.com/letanthang/tiktok-shop-ex/middleware"
	"github.com/letanthang/tiktok-shop-ex/signer"
)

// CallOption customizes a single call.
type CallOption func(*middleware.Call)

// WithQuery adds a query parameter. It is covered by the signature.
func WithQuery(key, value string) CallOption {
	return func(c *middleware.Call) { c.Params.Add(key, value) }
}

// WithParams appends query parameters in order.
func WithParams(params signer.Params) CallOption {
	return func(c *middleware.Call) {
		for _, p := range params {
			c.Params.Add(p.Key, p.Value)
		}
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) CallOption {
	return func(c *middleware.Call) { c.Header.Set(key, value) }
}

// WithAccessToken overrides the access token for this call.
func WithAccessToken(token string) CallOption {
	return func(c *middleware.Call) { c.Credential.AccessToken = token }
}

// WithShopCipher overrides the shop cipher for this call.
func WithShopCipher(cipher string) CallOption {
	return func(c *middleware.Call) { c.Credential.ShopCipher = cipher }
}

// WithShopID overrides the shop ID for this call.
func WithShopID(id string) CallOption {
	return func(c *middleware.Call) { c.Credential.ShopID = id }
}

// WithCredential overrides every non-empty field of cred for this call.
func WithCredential(cred credential.Credential) CallOption {
	return func(c *middleware.Call) { c.Credential = credential.Merge(c.Credential, cred) }
}

// WithProxy routes this call through proxy.
func WithProxy(proxy string) CallOption {
	return func(c *middleware.Call) { c.Proxy = proxy }
}
