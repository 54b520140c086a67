// Package coaching_tools provides the MCP tool for querying the generated
// coaching calendar.
//
// # Available Tools
//
//   - get_availability: open coaching slots for every day in an inclusive date range
//
// The tool answers in plain text, one line per day. Invalid input yields an
// MCP error result carrying the message.
package coaching_tools
