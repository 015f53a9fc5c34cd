package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const corsMaxAge = 3600

// The inspector is read-only, so only safe methods are ever allowed.
const (
	corsMethods = "GET, HEAD"
	corsHeaders = "Accept, Accept-Encoding, " + RequestIDHeader
)

func extractHostname(origin string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}

	return u.Hostname()
}

// CORS lets browser pages on the listed origins read inspector responses. Origins are
// bare hostnames such as "dashboard.example.org", matched against the hostname of the
// Origin header, or "*" for any origin. Credentials are never allowed. Preflight
// requests are answered with 204.
func CORS(origins ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	wildcard := false

	for _, origin := range origins {
		origin = strings.ToLower(strings.TrimSpace(origin))

		switch {
		case origin == "":
		case origin == "*":
			wildcard = true
		case strings.Contains(origin, "/"):
			slog.Error("middleware: CORS origin must be a bare hostname, skipping", slog.String("origin", origin))
		default:
			allowed[origin] = struct{}{}
		}
	}

	maxAge := strconv.Itoa(corsMaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")

			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)

				return
			}

			_, matched := allowed[strings.ToLower(extractHostname(origin))]
			if !matched && !wildcard {
				next.ServeHTTP(w, r)

				return
			}

			if matched {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}

			w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Add("Vary", "Access-Control-Request-Method")
				w.Header().Add("Vary", "Access-Control-Request-Headers")
				w.Header().Set("Access-Control-Allow-Methods", corsMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
