package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeoutDuration = 30 * time.Second

// Timeout bounds the time a handler may spend on a request. A handler that is still
// running after duration gets its context cancelled and the client a 503.
// A duration that is not positive falls back to 30s with a warning.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	if duration <= 0 {
		slog.Warn("middleware: duration must be positive, using default",
			slog.Duration("provided", duration), slog.Duration("default", defaultTimeoutDuration))

		duration = defaultTimeoutDuration
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, duration, "Service Unavailable")
	}
}
