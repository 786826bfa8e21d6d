package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubRateLimitStore struct {
	counts map[string]int64
}

func newStubRateLimitStore() *stubRateLimitStore {
	return &stubRateLimitStore{counts: map[string]int64{}}
}

func (s *stubRateLimitStore) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.counts[key]++
	return s.counts[key], nil
}

func (s *stubRateLimitStore) RateLimitKey(scope, subject string) string {
	return "rl:" + scope + ":" + subject
}

func TestAuthRateLimitBlocksAfterIPLimit(t *testing.T) {
	store := newStubRateLimitStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: status = %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt: status = %d", rec.Code)
	}

	// A different IP starts a fresh window.
	req = httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("other ip: status = %d", rec.Code)
	}
}

func TestAuthRateLimitCountsEmailAcrossIPs(t *testing.T) {
	store := newStubRateLimitStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	body := `{"email":"Rider@Example.com","password":"x"}`

	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first attempt: status = %d", rec.Code)
	}

	// Same email, different IP and casing still trips the counter.
	req = httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"rider@example.com","password":"y"}`))
	req.RemoteAddr = "10.0.0.9:1"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt: status = %d", rec.Code)
	}
}

func TestAuthRateLimitPassesBodyThrough(t *testing.T) {
	store := newStubRateLimitStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)

	var seen string
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(strings.Builder)
		if _, err := io.Copy(buf, r.Body); err != nil {
			t.Fatalf("read body: %v", err)
		}
		seen = buf.String()
	}))

	body := `{"email":"rider@example.com","password":"secret"}`
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != body {
		t.Fatalf("handler saw body %q", seen)
	}
}

func TestAuthRateLimitDisabledPolicyIsNoOp(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	called := false
	handler := AuthRateLimit(policy, newStubRateLimitStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/login", nil))
	if !called {
		t.Fatal("disabled policy must pass through")
	}
}
