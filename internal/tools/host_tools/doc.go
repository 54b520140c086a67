// Package host_tools provides MCP tools for the host's meeting schedule.
//
// # Available Tools
//
//   - list_host_availability: free and booked slots for one date
//   - book_host_meeting: book a contiguous range of hourly slots
//   - manage_host_availability: add a date or overwrite slots on an existing one
//
// Every tool returns a JSON object with "status" and "message" fields plus a
// tool-specific payload. Failures set the MCP isError flag and carry an
// "error_kind" naming the scheduling error.
//
// # Read-Only Mode
//
// When the server runs read-only, only list_host_availability is registered.
package host_tools
