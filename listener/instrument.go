package listener

import (
	"log/slog"
	"net/http"

	"github.com/0xalexb/hjarta-config/listener/middleware"
)

// Instrument wraps next with the middleware of a listener, outermost first: gzip
// compression, request ids, access log, panic recovery, CORS when origins are set,
// rate limiting when a rate is set, the request size cap and the request timeout.
func Instrument(logger *slog.Logger, cfg Config, next http.Handler) http.Handler {
	cfg.SetDefaults()

	stack := []func(http.Handler) http.Handler{
		middleware.Compress(),
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
	}

	if len(cfg.AllowedOrigins) > 0 {
		stack = append(stack, middleware.CORS(cfg.AllowedOrigins...))
	}

	if cfg.RateLimit > 0 {
		stack = append(stack, middleware.RateLimit(cfg.RateLimit, cfg.Burst))
	}

	stack = append(stack,
		middleware.MaxRequestSize(cfg.MaxRequestSize),
		middleware.Timeout(cfg.RequestTimeout),
	)

	handler := next
	for i := len(stack) - 1; i >= 0; i-- {
		handler = stack[i](handler)
	}

	return handler
}
