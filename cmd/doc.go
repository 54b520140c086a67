// Package cmd implements the command-line interface for slotkeeper.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing the host and coaching schedules
//   - host list: Print the host availability for a date
//   - coaching availability: Print open coaching slots for a date range
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
