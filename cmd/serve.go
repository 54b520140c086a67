package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teemow/slotkeeper/internal/coaching"
	"github.com/teemow/slotkeeper/internal/config"
	"github.com/teemow/slotkeeper/internal/host"
	"github.com/teemow/slotkeeper/internal/instrumentation"
	"github.com/teemow/slotkeeper/internal/logging"
	"github.com/teemow/slotkeeper/internal/resources"
	"github.com/teemow/slotkeeper/internal/server"
	"github.com/teemow/slotkeeper/internal/tools/coaching_tools"
	"github.com/teemow/slotkeeper/internal/tools/host_tools"
)

func newServeCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the host schedule
and the coaching calendar to AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp
  - sse: Server-Sent Events on /sse with messages posted to /message

Configuration:
  Every flag can also be set in a YAML file (--config) or through an
  environment variable prefixed with SLOTKEEPER_, for example
  SLOTKEEPER_TRANSPORT=sse or SLOTKEEPER_RATE_LIMIT=5.
  Flags take precedence over the environment, which takes precedence
  over the config file.

Read-Only Mode:
  --read-only registers only list_host_availability and get_availability.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")
	addServeFlags(cmd.Flags())

	return cmd
}

// addServeFlags declares the flags resolved by config.Load.
func addServeFlags(flags *pflag.FlagSet) {
	d := config.Defaults()

	flags.String(config.KeyTransport, d.Transport, "Transport type: stdio, streamable-http or sse")
	flags.String(config.KeyHTTPAddr, d.HTTPAddr, "HTTP server address (for streamable-http and sse transports)")
	flags.Bool(config.KeyDisableStreaming, d.DisableStreaming, "Disable streaming for the streamable-http transport (for compatibility with certain clients)")
	flags.Bool(config.KeyDebug, d.Debug, "Enable debug logging")
	flags.String(config.KeyLogFormat, d.LogFormat, "Log format: text or json")
	flags.Bool(config.KeyReadOnly, d.ReadOnly, "Register only the tools that do not modify the host schedule")
	flags.String(config.KeySeedFile, d.SeedFile, "YAML file with the initial host schedule (default: built-in week)")
	flags.Int(config.KeyCoachingDays, d.CoachingDays, "Number of days covered by the coaching calendar")
	flags.Bool(config.KeyMetricsEnabled, d.MetricsEnabled, "Enable the metrics server on a dedicated port (HTTP transports only)")
	flags.String(config.KeyMetricsAddr, d.MetricsAddr, "Metrics server address")
	flags.Float64(config.KeyRateLimit, d.RateLimit, "Requests per second allowed per client IP on HTTP transports (0 disables)")
	flags.Int(config.KeyRateLimitBurst, d.RateLimitBurst, "Burst size per client IP when rate limiting is enabled")
	flags.Bool(config.KeyTrustProxy, d.TrustProxy, "Trust X-Forwarded-For and X-Real-IP for client identification")
}

func runServe(cfg config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if cfg.UsesHTTP() && cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	serverContext, err := newServerContext(shutdownCtx, cfg, logger, metrics)
	if err != nil {
		return err
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(metrics)
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := newMCPServer(serverContext)

	if cfg.ReadOnly {
		logger.Info("starting server in read-only mode")
	}

	if err := registerAllTools(mcpSrv, serverContext, cfg.ReadOnly); err != nil {
		return err
	}

	switch cfg.Transport {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	default:
		return runHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg, provider)
	}
}

// newLogger builds the process logger. Logs always go to stderr so that
// stdout stays reserved for the stdio transport.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		Writer: os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// newServerContext builds the host store and coaching calendar and wraps
// them in a server context. metrics may be nil.
func newServerContext(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *instrumentation.Metrics) (*server.ServerContext, error) {
	hostStore, err := newHostStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	calendar, err := generateCoachingCalendar(ctx, coaching.Options{Days: cfg.CoachingDays}, metrics)
	if err != nil {
		return nil, err
	}

	serverContext, err := server.NewServerContext(ctx, server.Options{
		Host:     hostStore,
		Coaching: calendar,
		Logger:   logger,
		ReadOnly: cfg.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return serverContext, nil
}

// generateCoachingCalendar builds the coaching calendar inside a
// schedule.coaching.generate span and records the operation.
func generateCoachingCalendar(ctx context.Context, opts coaching.Options, metrics *instrumentation.Metrics) (*coaching.Calendar, error) {
	ctx, span := instrumentation.StartScheduleSpan(ctx, instrumentation.StoreCoaching, instrumentation.OperationGenerate)
	defer span.End()
	start := time.Now()

	calendar, err := coaching.Generate(opts)
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err, "")
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	metrics.RecordScheduleOperation(ctx, instrumentation.StoreCoaching, instrumentation.OperationGenerate, status, "", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to generate coaching calendar: %w", err)
	}
	return calendar, nil
}

func newHostStore(cfg config.Config, logger *slog.Logger) (*host.Store, error) {
	storeLogger := host.WithLogger(logging.NewSlogAdapter(logging.WithStore(logger, instrumentation.StoreHost)))

	if cfg.SeedFile == "" {
		store, err := host.NewSeededStore(storeLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to seed host schedule: %w", err)
		}
		return store, nil
	}

	days, err := host.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded host schedule", slog.String("seed_file", cfg.SeedFile), slog.Int("dates", days.Len()))
	return host.NewStore(host.WithDays(days), storeLogger), nil
}

func newMCPServer(sc *server.ServerContext) *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("slotkeeper", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
		mcpserver.WithHooks(server.NewSessionHooks(sc)),
	)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Host",
			register: func() error {
				return host_tools.RegisterHostTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Coaching",
			register: func() error {
				return coaching_tools.RegisterCoachingTools(mcpSrv, sc)
			},
		},
		{
			name: "Schedule Resources",
			register: func() error {
				return resources.RegisterScheduleResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg config.Config, provider *instrumentation.Provider) error {
	httpConfig := server.HTTPServerConfig{
		Addr:             cfg.HTTPAddr,
		Transport:        cfg.Transport,
		DisableStreaming: cfg.DisableStreaming,
		Health:           server.NewHealthChecker(sc),
		RateLimit: server.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit,
			Burst:             cfg.RateLimitBurst,
			TrustProxy:        cfg.TrustProxy,
		},
		Logger: sc.Logger(),
	}
	if provider.Enabled() {
		httpConfig.Metrics = provider.Metrics()
	}

	httpServer, err := server.NewHTTPServer(ctx, mcpSrv, httpConfig)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		sc.Logger().Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	}
}
