package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	handler := rateLimit(2, 2, clock.Now)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	status := func() (int, string) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		return recorder.Code, recorder.Header().Get("Retry-After")
	}

	code, _ := status()
	assert.Equal(t, http.StatusOK, code)

	code, _ = status()
	assert.Equal(t, http.StatusOK, code)

	code, retry := status()
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "1", retry)

	clock.Advance(500 * time.Millisecond)

	code, _ = status()
	assert.Equal(t, http.StatusOK, code)

	code, _ = status()
	assert.Equal(t, http.StatusTooManyRequests, code)
}

func TestRateLimit_Defaults(t *testing.T) {
	t.Parallel()

	handler := RateLimit(0, 0)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
