package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantAllowed string
	}{
		{name: "no origin header", origins: []string{"dash.example.org"}, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "listed origin", origins: []string{"Dash.example.org"}, method: http.MethodGet, origin: "https://dash.example.org", wantStatus: http.StatusOK, wantAllowed: "https://dash.example.org"},
		{name: "unlisted origin", origins: []string{"dash.example.org"}, method: http.MethodGet, origin: "https://evil.example.com", wantStatus: http.StatusOK},
		{name: "wildcard", origins: []string{"*"}, method: http.MethodGet, origin: "https://any.example.com", wantStatus: http.StatusOK, wantAllowed: "*"},
		{name: "origin with path skipped", origins: []string{"dash.example.org/x"}, method: http.MethodGet, origin: "https://dash.example.org", wantStatus: http.StatusOK},
		{name: "preflight", origins: []string{"dash.example.org"}, method: http.MethodOptions, origin: "https://dash.example.org", preflight: true, wantStatus: http.StatusNoContent, wantAllowed: "https://dash.example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/config/?path=/app", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			}

			recorder := httptest.NewRecorder()
			CORS(tt.origins...)(ok).ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantAllowed, recorder.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, recorder.Header().Values("Vary"), "Origin")

			if tt.preflight {
				assert.Equal(t, corsMethods, recorder.Header().Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "3600", recorder.Header().Get("Access-Control-Max-Age"))
			}
		})
	}
}
