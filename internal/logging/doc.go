// Package logging provides structured logging utilities for slotkeeper.
//
// Logging goes through the standard library's slog package. This package
// builds the process logger and keeps attribute names consistent across the
// tool, store, and server layers.
//
// # Usage Patterns
//
// Build the process logger once, at startup:
//
//	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: os.Stderr})
//	slog.SetDefault(logger)
//
// Derive loggers that carry standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "book_host_meeting")
//	logger.Info("booking rejected",
//	    logging.Date("2025-06-13"),
//	    logging.Err(err))
//
// When the MCP server runs on the stdio transport, stdout carries protocol
// messages, so the logger must write to stderr.
package logging
