package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type stubIdempotencyStore struct {
	data map[string]string
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{data: map[string]string{}}
}

func (s *stubIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := s.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (s *stubIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = fmt.Sprint(value)
	return true, nil
}

func (s *stubIdempotencyStore) IdempotencyKey(userID, key string) string {
	return "idem:" + userID + ":" + key
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newStubIdempotencyStore()
	calls := 0
	handler := Idempotency(store, nil, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"order":%d}`, calls)
	}))

	newReq := func() *http.Request {
		req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"notes":"hi"}`))
		req.Header.Set("Idempotency-Key", "key-1")
		return req.WithContext(WithUserID(req.Context(), "user-1"))
	}

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newReq())
	if first.Code != http.StatusCreated || first.Body.String() != `{"order":1}` {
		t.Fatalf("first response: %d %s", first.Code, first.Body.String())
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newReq())
	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != `{"order":1}` {
		t.Fatalf("replayed response: %d %s", second.Code, second.Body.String())
	}
	if ct := second.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("replayed content type = %q", ct)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newStubIdempotencyStore()
	handler := Idempotency(store, nil, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"notes":"a"}`))
	req.Header.Set("Idempotency-Key", "key-1")
	req = req.WithContext(WithUserID(req.Context(), "user-1"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("POST", "/orders", strings.NewReader(`{"notes":"b"}`))
	req.Header.Set("Idempotency-Key", "key-1")
	req = req.WithContext(WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	handler := Idempotency(newStubIdempotencyStore(), nil, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/orders", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestIdempotencyScopesKeysPerUser(t *testing.T) {
	store := newStubIdempotencyStore()
	calls := 0
	handler := Idempotency(store, nil, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for _, user := range []string{"user-1", "user-2"} {
		req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "shared-key")
		req = req.WithContext(WithUserID(req.Context(), user))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 2 {
		t.Fatalf("handler ran %d times, want one per user", calls)
	}
}
