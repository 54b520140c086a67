// Package common provides shared utilities for the MCP tool packages:
// argument extraction, structured JSON results, and the instrumentation
// wrapper every tool handler is registered through.
package common
