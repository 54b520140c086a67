package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/slotkeeper/internal/instrumentation"
)

const (
	// TransportStreamableHTTP serves MCP on a single /mcp endpoint.
	TransportStreamableHTTP = "streamable-http"

	// TransportSSE serves MCP on /sse with client messages posted to /message.
	TransportSSE = "sse"

	// DefaultHTTPAddr is the default listen address for HTTP transports.
	DefaultHTTPAddr = ":8080"
)

// Endpoint paths served by HTTPServer.
const (
	PathMCP     = "/mcp"
	PathSSE     = "/sse"
	PathMessage = "/message"
)

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	// Addr is the listen address. Defaults to DefaultHTTPAddr.
	Addr string

	// Transport is TransportStreamableHTTP or TransportSSE.
	Transport string

	// DisableStreaming turns off SSE streaming on the streamable HTTP endpoint.
	DisableStreaming bool

	// Health registers /healthz, /readyz and /healthz/detailed when set.
	Health *HealthChecker

	// Metrics records http_requests_total and http_request_duration_seconds.
	Metrics *instrumentation.Metrics

	// RateLimit bounds requests per client IP. Zero value disables it.
	RateLimit RateLimitConfig

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// HTTPServer serves an MCP server over HTTP.
type HTTPServer struct {
	config     HTTPServerConfig
	mcpServer  *mcpserver.MCPServer
	handler    http.Handler
	httpServer *http.Server
	limiter    *RateLimiter
	logger     *slog.Logger
}

// NewHTTPServer builds the HTTP handler chain for mcpServer. The ctx bounds
// background work such as rate limiter cleanup.
func NewHTTPServer(ctx context.Context, mcpServer *mcpserver.MCPServer, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}
	if config.Transport == "" {
		config.Transport = TransportStreamableHTTP
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &HTTPServer{
		config:    config,
		mcpServer: mcpServer,
		logger:    logger,
	}
	if config.RateLimit.Enabled() {
		s.limiter = NewRateLimiter(ctx, config.RateLimit, logger)
	}

	mux := http.NewServeMux()
	switch config.Transport {
	case TransportStreamableHTTP:
		opts := []mcpserver.StreamableHTTPOption{mcpserver.WithEndpointPath(PathMCP)}
		if config.DisableStreaming {
			opts = append(opts, mcpserver.WithDisableStreaming(true))
		}
		mux.Handle(PathMCP, s.limiter.Middleware(mcpserver.NewStreamableHTTPServer(mcpServer, opts...)))
	case TransportSSE:
		sseServer := mcpserver.NewSSEServer(mcpServer,
			mcpserver.WithSSEEndpoint(PathSSE),
			mcpserver.WithMessageEndpoint(PathMessage),
		)
		mux.Handle(PathSSE, s.limiter.Middleware(sseServer))
		mux.Handle(PathMessage, s.limiter.Middleware(sseServer))
	default:
		return nil, fmt.Errorf("unsupported HTTP transport: %s (supported: %s, %s)", config.Transport, TransportStreamableHTTP, TransportSSE)
	}

	if config.Health != nil {
		config.Health.RegisterHealthEndpoints(mux)
	}

	s.handler = otelhttp.NewHandler(
		metricsMiddleware(config.Metrics, mux),
		"slotkeeper.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + routeLabel(r.URL.Path)
		}),
	)
	return s, nil
}

// Handler returns the complete handler chain, for use with httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.config.Addr
}

// Transport returns the configured MCP transport.
func (s *HTTPServer) Transport() string {
	return s.config.Transport
}

// Start listens on the configured address and serves until Shutdown.
func (s *HTTPServer) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	// SSE responses are long-lived so no write timeout is set.
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("starting HTTP server",
		slog.String("addr", ln.Addr().String()),
		slog.String("transport", s.config.Transport))
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// metricsMiddleware records the status code and latency of every request.
func metricsMiddleware(m *instrumentation.Metrics, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snoop := httpsnoop.CaptureMetrics(next, w, r)
		m.RecordHTTPRequest(r.Context(), r.Method, routeLabel(r.URL.Path), snoop.Code, snoop.Duration)
	})
}

// routeLabel maps a request path onto a bounded set of metric labels.
func routeLabel(path string) string {
	switch path {
	case PathMCP, PathSSE, PathMessage, "/healthz", "/readyz", "/healthz/detailed":
		return path
	default:
		return "other"
	}
}
