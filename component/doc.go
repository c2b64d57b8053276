// Package component defines the lifecycle contract shared by long-lived
// pieces of a process, such as an API client or a telemetry exporter, and a
// Registry that starts them in order and stops them in reverse.
package component
