package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimitCleanupInterval is how often idle client limiters are swept.
	DefaultRateLimitCleanupInterval = 5 * time.Minute

	// DefaultRateLimitIdleTimeout is how long a client limiter may go unused
	// before it is dropped.
	DefaultRateLimitIdleTimeout = 10 * time.Minute
)

// RateLimitConfig configures per-client request limiting on the HTTP transports.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the maximum burst size per client IP.
	Burst int

	// TrustProxy enables X-Forwarded-For / X-Real-IP for client identification.
	// Only enable behind a trusted reverse proxy.
	TrustProxy bool
}

// Enabled reports whether the configuration limits anything.
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP address.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientLimiter
	limit       rate.Limit
	burst       int
	trustProxy  bool
	idleTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewRateLimiter creates a rate limiter. A background sweep removes idle
// clients until ctx is done.
func NewRateLimiter(ctx context.Context, config RateLimitConfig, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	rl := &RateLimiter{
		clients:     make(map[string]*clientLimiter),
		limit:       rate.Limit(config.RequestsPerSecond),
		burst:       burst,
		trustProxy:  config.TrustProxy,
		idleTimeout: DefaultRateLimitIdleTimeout,
		now:         time.Now,
		logger:      logger,
	}

	go rl.cleanupLoop(ctx, DefaultRateLimitCleanupInterval)
	return rl
}

// Allow reports whether a request from ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = rl.now()
	rl.mu.Unlock()

	return c.limiter.Allow()
}

// Clients returns the number of tracked client IPs.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// sweep drops limiters that have been idle longer than idleTimeout.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idleTimeout {
			delete(rl.clients, ip)
		}
	}
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// Middleware rejects requests over the limit with 429 Too Many Requests.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, rl.trustProxy)
		if !rl.Allow(ip) {
			rl.logger.Warn("rate limit exceeded", slog.String("ip", ip), slog.String("path", r.URL.Path))
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "rate_limit_exceeded",
				"error_description": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address. Proxy headers are honoured only
// when trustProxy is set.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
