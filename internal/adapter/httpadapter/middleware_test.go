package httpadapter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/cep-lookup/internal/adapter/httpadapter"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedHandler(l *httpadapter.RateLimiter) http.Handler {
	return l.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hitFrom(h http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/cep/01310930", nil)
	req.RemoteAddr = ip + ":40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_SweepDropsIdleClients(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := httpadapter.NewRateLimiter(1, 5, discardLogger(), httpadapter.WithLimiterClock(clock))
	h := limitedHandler(l)

	hitFrom(h, "192.0.2.1")
	hitFrom(h, "192.0.2.2")
	require.Equal(t, 2, l.Len())

	clock.Advance(5 * time.Minute)
	hitFrom(h, "192.0.2.2")

	clock.Advance(6 * time.Minute)
	assert.Equal(t, 1, l.Sweep(10*time.Minute))
	assert.Equal(t, 1, l.Len(), "recently seen client is kept")

	assert.Equal(t, 0, l.Sweep(10*time.Minute))
}

func TestRateLimiter_EvictedClientStartsFresh(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := httpadapter.NewRateLimiter(0.001, 1, discardLogger(), httpadapter.WithLimiterClock(clock))
	h := limitedHandler(l)

	assert.Equal(t, http.StatusOK, hitFrom(h, "198.51.100.7"))
	assert.Equal(t, http.StatusTooManyRequests, hitFrom(h, "198.51.100.7"))

	clock.Advance(time.Hour)
	require.Equal(t, 1, l.Sweep(time.Minute))
	assert.Zero(t, l.Len())

	assert.Equal(t, http.StatusOK, hitFrom(h, "198.51.100.7"))
}

func TestRateLimiter_RunSweepsOnInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := httpadapter.NewRateLimiter(1, 5, discardLogger(), httpadapter.WithLimiterClock(clock))
	hitFrom(limitedHandler(l), "203.0.113.9")
	require.Equal(t, 1, l.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx, 2*time.Minute, time.Minute)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Minute)

	require.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
