package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDFrom returns the request ID stored by requestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID propagates X-Request-ID, generating one when absent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs each request with status and latency.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", clientIP(r),
				"request_id", RequestIDFrom(r.Context()),
			)
		})
	}
}

// securityHeaders adds standard hardening headers. Inline styles are allowed
// for the form page.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		next.ServeHTTP(w, r)
	})
}

// RateLimiter manages per-IP token buckets. Buckets idle longer than the
// sweep window are dropped by Sweep or Run.
type RateLimiter struct {
	limiters sync.Map // client IP -> *limiterEntry
	rate     rate.Limit
	burst    int
	clock    clockwork.Clock
	logger   *slog.Logger
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithLimiterClock sets the time source used for idle tracking.
func WithLimiterClock(c clockwork.Clock) RateLimiterOption {
	return func(l *RateLimiter) { l.clock = c }
}

// NewRateLimiter allows rps sustained requests per client IP with the given burst.
func NewRateLimiter(rps float64, burst int, logger *slog.Logger, opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		rate:   rate.Limit(rps),
		burst:  burst,
		clock:  clockwork.NewRealClock(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	now := l.clock.Now().UnixNano()
	if v, ok := l.limiters.Load(ip); ok {
		e := v.(*limiterEntry)
		e.lastSeen.Store(now)
		return e.limiter
	}
	e := &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
	e.lastSeen.Store(now)
	v, _ := l.limiters.LoadOrStore(ip, e)
	return v.(*limiterEntry).limiter
}

// Sweep drops buckets not used within idle and returns how many it removed.
func (l *RateLimiter) Sweep(idle time.Duration) int {
	cutoff := l.clock.Now().Add(-idle).UnixNano()
	removed := 0
	l.limiters.Range(func(k, v any) bool {
		if v.(*limiterEntry).lastSeen.Load() < cutoff && l.limiters.CompareAndDelete(k, v) {
			removed++
		}
		return true
	})
	return removed
}

// Len reports the number of tracked client IPs.
func (l *RateLimiter) Len() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Run sweeps idle buckets every interval until ctx is done.
func (l *RateLimiter) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := l.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := l.Sweep(idle); n > 0 {
				l.logger.Debug("rate limiter swept idle clients", "removed", n)
			}
		}
	}
}

// Limit wraps next, answering 429 once a client exceeds its budget.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.limiter(ip).Allow() {
			l.logger.Warn("rate limit exceeded", "client_ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
