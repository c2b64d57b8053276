// Package security holds the TLS settings of the platform transport.
//
// A zero or nil TLSConfig keeps Go's default TLS client behavior. A private
// CA, a client certificate, or a server name override are typically only
// needed behind corporate egress proxies or against a sandbox host:
//
//	tls:
//	  ca_file: /etc/ssl/private/egress-ca.pem
//	  server_name: open-api.tiktokglobalshop.com
package security
