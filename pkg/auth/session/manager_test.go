package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type stubStore struct {
	data map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{data: map[string]string{}}
}

func (s *stubStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.data[key] = value.(string)
	return nil
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	val, ok := s.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (s *stubStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubStore) AccessSessionKey(accessID string) string {
	return "session:" + accessID
}

func newTestManager(store *stubStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestGenerateStoresToken(t *testing.T) {
	store := newStubStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty refresh token")
	}
	if store.data["session:access-1"] != token {
		t.Fatal("token was not stored under the access session key")
	}

	ok, err := mgr.HasSession(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected active session after Generate")
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	store := newStubStore()
	mgr := newTestManager(store)

	oldToken, err := mgr.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	newAccessID, newToken, err := mgr.Rotate(context.Background(), "access-1", oldToken)
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if newAccessID == "access-1" {
		t.Fatal("expected a fresh access id")
	}
	if newToken == oldToken {
		t.Fatal("expected a fresh refresh token")
	}

	if _, ok := store.data["session:access-1"]; ok {
		t.Fatal("old session should be deleted after rotation")
	}
	if store.data["session:"+newAccessID] != newToken {
		t.Fatal("new session not stored")
	}

	// Replaying the old pair must fail.
	if _, _, err := mgr.Rotate(context.Background(), "access-1", oldToken); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken on replay, got %v", err)
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	store := newStubStore()
	mgr := newTestManager(store)

	if _, err := mgr.Generate(context.Background(), "access-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, _, err := mgr.Rotate(context.Background(), "access-1", "forged"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevokeEndsSession(t *testing.T) {
	store := newStubStore()
	mgr := newTestManager(store)

	if _, err := mgr.Generate(context.Background(), "access-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if err := mgr.Revoke(context.Background(), "access-1"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	ok, err := mgr.HasSession(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if ok {
		t.Fatal("expected session to be gone after Revoke")
	}
}
