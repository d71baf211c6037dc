package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	userCtx := context.WithValue(context.Background(), ctxKeyUser, UserContext{
		UserID: "user-1",
		Role:   "EMPLOYEE",
	})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/sign", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/sign", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by user key, got %d", secondRec.Code)
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRequest(http.MethodGet, "/api/v1/shifts", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/api/v1/shifts", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request from same IP to be throttled, got %d", secondRec.Code)
	}
	if secondRec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on throttled response")
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	rl := &rateLimiter{limit: 1, window: time.Millisecond, clients: map[string]*rateBucket{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shifts", nil)
	req.RemoteAddr = "192.0.2.7:1000"

	if !rl.enforce(httptest.NewRecorder(), req) {
		t.Fatalf("expected first request to pass")
	}
	if rl.enforce(httptest.NewRecorder(), req) {
		t.Fatalf("expected second request in window to be rejected")
	}

	time.Sleep(5 * time.Millisecond)
	if !rl.enforce(httptest.NewRecorder(), req) {
		t.Fatalf("expected request after window reset to pass")
	}
}
