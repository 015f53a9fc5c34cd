package middleware

import (
	"log/slog"
	"net/http"
)

const defaultMaxRequestSizeBytes int64 = 64 << 10

// MaxRequestSize rejects requests that announce a body larger than bytes with 413 and
// caps the body of the others with http.MaxBytesReader.
// A size that is not positive falls back to 64KiB with a warning.
func MaxRequestSize(bytes int64) func(http.Handler) http.Handler {
	if bytes <= 0 {
		slog.Warn("middleware: bytes must be positive, using default",
			slog.Int64("provided", bytes), slog.Int64("default", defaultMaxRequestSizeBytes))

		bytes = defaultMaxRequestSizeBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > bytes {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)

				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, bytes)
			next.ServeHTTP(w, r)
		})
	}
}
