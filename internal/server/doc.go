// Package server provides the MCP server context and the HTTP plumbing
// around it.
//
// # Key Components
//
// ServerContext owns the host schedule store and the coaching calendar for
// the lifetime of the process, together with the metrics recorder and audit
// logger used by tool handlers.
//
// HTTPServer serves the MCP server over streamable HTTP (or SSE) next to the
// health endpoints. Every request passes through a per-client rate limiter,
// an OpenTelemetry tracing handler, and a metrics middleware.
//
// MetricsServer exposes Prometheus metrics on a dedicated port so that
// operational metrics stay off the main listener.
//
// HealthChecker implements the /healthz, /readyz and /healthz/detailed
// endpoints used by Kubernetes probes.
package server
