package server

import (
	"context"
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewSessionHooks returns MCP hooks that keep the active_sessions gauge in
// step with client sessions. Metrics are read from sc on every event so they
// may be attached after the MCP server is built.
func NewSessionHooks(sc *ServerContext) *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		sc.Metrics().IncrementActiveSessions(ctx)
		sc.Logger().Debug("client session registered", slog.String("session_id", session.SessionID()))
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		sc.Metrics().DecrementActiveSessions(ctx)
		sc.Logger().Debug("client session unregistered", slog.String("session_id", session.SessionID()))
	})

	return hooks
}
