package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, method, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/activities", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(60, 3)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		rec := doRequest(handler, http.MethodPost, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(handler, http.MethodPost, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimiterIgnoresReads(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	for i := 0; i < 10; i++ {
		rec := doRequest(handler, http.MethodGet, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterIsPerClient(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	rec := doRequest(handler, http.MethodPost, "10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(handler, http.MethodPost, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client has its own bucket
	rec = doRequest(handler, http.MethodPost, "10.0.0.2:1234")
	assert.Equal(t, http.StatusOK, rec.Code)
}
