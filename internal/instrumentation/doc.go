// Package instrumentation provides OpenTelemetry instrumentation for the
// slotkeeper MCP server.
//
// This package provides:
//   - OpenTelemetry metrics for HTTP requests, MCP tools and schedule store operations
//   - Distributed tracing for tool invocations and store operations
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//   - Audit logging of every tool invocation
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Gauge of active MCP client sessions
//
// Schedule Metrics:
//   - schedule_operations_total: Counter of store operations by store, operation, status
//   - schedule_operation_duration_seconds: Histogram of store operation durations
//   - host_slots_booked_total: Counter of host slots filled by bookings
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - Schedule store operations (schedule.<store>.<operation>)
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: slotkeeper)
//   - METRICS_DETAILED_LABELS: Add the schedule date to store metrics (default: false)
//   - AUDIT_LOGGING_ENABLED / AUDIT_LOGGING_INCLUDE_ARGUMENTS: Audit log behaviour
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordScheduleOperation(ctx, instrumentation.StoreHost,
//		instrumentation.OperationBook, instrumentation.StatusSuccess, "2025-06-13", time.Since(start))
package instrumentation
