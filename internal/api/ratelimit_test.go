package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(testContext(t), rate.Limit(1), 2)
	h := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/game-stats", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := do("10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d within burst: expected 200, got %d", i, w.Code)
		}
	}

	w := do("10.0.0.1:5678")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// Another client has its own bucket.
	if w := do("10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Fatalf("other IP: expected 200, got %d", w.Code)
	}

	if n := limiter.Len(); n != 2 {
		t.Errorf("expected 2 tracked clients, got %d", n)
	}
}

func TestIPRateLimiter_Sweep(t *testing.T) {
	limiter := NewIPRateLimiter(testContext(t), rate.Limit(1), 1)
	limiter.GetLimiter("10.0.0.1")
	limiter.GetLimiter("10.0.0.2")

	limiter.sweep(time.Now().Add(-time.Hour))
	if n := limiter.Len(); n != 2 {
		t.Fatalf("recent entries must survive, got %d", n)
	}

	limiter.sweep(time.Now().Add(time.Second))
	if n := limiter.Len(); n != 0 {
		t.Fatalf("stale entries must be removed, got %d", n)
	}
}

func TestExtractIP(t *testing.T) {
	tests := map[string]string{
		"192.168.1.5:4000": "192.168.1.5",
		"[::1]:8080":       "::1",
		"10.1.1.1":         "10.1.1.1",
	}
	for remote, want := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = remote
		if got := extractIP(req); got != want {
			t.Errorf("extractIP(%q) = %q, want %q", remote, got, want)
		}
	}
}
