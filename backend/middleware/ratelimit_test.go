package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// Test that rate limiter blocks excessive requests
func TestRateLimiter_BlocksExcessiveRequests(t *testing.T) {
	limiter := NewRateLimiter(5, time.Second)

	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	blocked := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			blocked++
		}
	}

	if blocked != 5 {
		t.Errorf("Expected 5 of 10 requests blocked, got %d", blocked)
	}
}

// Test that rate limiter allows requests under limit
func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	limiter := NewRateLimiter(10, time.Second)

	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "192.168.1.2:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("Request %d should be allowed, got status %d", i+1, rec.Code)
		}
	}
}

// Test that limits are tracked per IP
func TestRateLimiter_PerIP(t *testing.T) {
	limiter := NewRateLimiter(1, time.Second)

	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest("POST", "/login", nil)
	first.RemoteAddr = "10.0.0.1:1111"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Errorf("First request should pass, got %d", rec.Code)
	}

	second := httptest.NewRequest("POST", "/login", nil)
	second.RemoteAddr = "10.0.0.2:2222"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Errorf("Different IP should not be limited, got %d", rec.Code)
	}
}
