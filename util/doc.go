// Package util provides small string helpers used across the client:
// value coalescing for credential and config merging, .env value
// sanitization, and secret masking for log output.
package util
