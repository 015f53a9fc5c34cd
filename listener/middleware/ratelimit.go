package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type tokenBucket struct {
	mu             sync.Mutex
	tokens         float64
	maxTokens      float64
	refillRate     float64
	lastRefillTime time.Time
	now            func() time.Time
}

func newTokenBucket(requestsPerSecond float64, burst int, now func() time.Time) *tokenBucket {
	return &tokenBucket{ //nolint:exhaustruct // mu
		tokens:         float64(burst),
		maxTokens:      float64(burst),
		refillRate:     requestsPerSecond,
		lastRefillTime: now(),
		now:            now,
	}
}

// tryAcquire takes one token, or reports how long until the next one is available.
func (tb *tokenBucket) tryAcquire() (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	elapsed := max(0.0, now.Sub(tb.lastRefillTime).Seconds())
	tb.tokens = math.Min(tb.maxTokens, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefillTime = now

	if tb.tokens >= 1 {
		tb.tokens--

		return true, 0
	}

	deficit := 1.0 - tb.tokens

	return false, time.Duration(deficit / tb.refillRate * float64(time.Second))
}

// RateLimit caps the request rate of the wrapped handler with one shared token bucket.
// Rejected requests get 429 Too Many Requests and a Retry-After header in seconds.
// Values that are not positive fall back to 1 request per second and a burst of 1.
func RateLimit(requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	return rateLimit(requestsPerSecond, burst, time.Now)
}

func rateLimit(requestsPerSecond float64, burst int, now func() time.Time) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		slog.Warn("middleware: requestsPerSecond must be positive, using default",
			slog.Float64("provided", requestsPerSecond), slog.Float64("default", 1.0))

		requestsPerSecond = 1.0
	}

	if burst <= 0 {
		slog.Warn("middleware: burst must be positive, using default", slog.Int("provided", burst), slog.Int("default", 1))

		burst = 1
	}

	bucket := newTokenBucket(requestsPerSecond, burst, now)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := bucket.tryAcquire()
			if !allowed {
				seconds := max(int(math.Ceil(retryAfter.Seconds())), 1)

				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
