// Package transport sends fully built HTTP requests and returns the raw
// response bytes. It owns connection reuse, TLS, timeouts and proxy
// selection; it knows nothing about signing or the platform envelope.
//
// The proxy for a call is taken, in order, from the call context
// (WithProxy), from Config.Proxy, and from the HTTP_PROXY, HTTPS_PROXY
// and NO_PROXY environment variables.
package transport
