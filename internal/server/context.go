package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/slotkeeper/internal/coaching"
	"github.com/teemow/slotkeeper/internal/host"
	"github.com/teemow/slotkeeper/internal/instrumentation"
	"github.com/teemow/slotkeeper/internal/logging"
)

// Options configures a ServerContext.
type Options struct {
	// Host is the host schedule. Nil means a store seeded with the built-in week.
	Host *host.Store

	// Coaching is the coaching calendar. Nil means a calendar generated
	// with coaching.Options{}.
	Coaching *coaching.Calendar

	// Logger is used for server lifecycle and store events. Nil means slog.Default().
	Logger *slog.Logger

	// ReadOnly hides the tools that mutate the host schedule.
	ReadOnly bool
}

// ServerContext holds the schedule stores and observability dependencies
// shared by every MCP tool and resource.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	host        *host.Store
	coaching    *coaching.Calendar
	logger      *slog.Logger
	readOnly    bool
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context. The stores are built once
// here and live as long as the process.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hostStore := opts.Host
	if hostStore == nil {
		var err error
		hostStore, err = host.NewSeededStore(host.WithLogger(logging.NewSlogAdapter(logging.WithStore(logger, instrumentation.StoreHost))))
		if err != nil {
			return nil, fmt.Errorf("failed to seed host schedule: %w", err)
		}
	}

	calendar := opts.Coaching
	if calendar == nil {
		var err error
		calendar, err = coaching.Generate(coaching.Options{})
		if err != nil {
			return nil, fmt.Errorf("failed to generate coaching calendar: %w", err)
		}
	}

	logger.Debug("schedule stores ready",
		slog.Int("host_dates", len(hostStore.Dates())),
		slog.Any("coaching_calendar", calendar.Snapshot()))

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		host:     hostStore,
		coaching: calendar,
		logger:   logger,
		readOnly: opts.ReadOnly,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Host returns the host schedule store.
func (sc *ServerContext) Host() *host.Store {
	return sc.host
}

// Coaching returns the coaching calendar.
func (sc *ServerContext) Coaching() *coaching.Calendar {
	return sc.coaching
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// ReadOnly reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// Metrics returns the metrics recorder, or nil if instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder used by tool handlers.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil if audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger used by tool handlers.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
