package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"task_manager/internal/domain"
)

func newTestManager(t *testing.T) (*Manager, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := NewRedisStore(client)
	return NewManager(store, Config{}), store
}

func testUser() *domain.User {
	return &domain.User{ID: 7, Username: "alice", Email: "alice@example.com"}
}

func TestStartAndAuthenticate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Start(ctx, testUser())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.ID == "" || len(s.ID) != 64 {
		t.Fatalf("unexpected session id %q", s.ID)
	}
	if s.CSRFToken == "" {
		t.Fatal("no csrf token issued at start")
	}

	got, err := m.Authenticate(ctx, s.ID)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.UserID != 7 || got.Username != "alice" || got.Email != "alice@example.com" {
		t.Fatalf("session contents lost: %+v", got)
	}
	if got.ID != s.ID {
		t.Fatal("id rotated before the regeneration interval elapsed")
	}
}

func TestAuthenticateUnknownID(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Authenticate(context.Background(), "deadbeef")
	if err != domain.ErrUnauthenticated {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}
}

func TestIdleTimeoutDestroysSession(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	s, err := m.Start(ctx, testUser())
	if err != nil {
		t.Fatal(err)
	}

	// Age the stored record past the idle limit.
	s.LastActivity = time.Now().Add(-DefaultLifetime - time.Minute)
	if err := store.Save(ctx, s, DefaultLifetime); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Authenticate(ctx, s.ID); err != domain.ErrSessionTimeout {
		t.Fatalf("got %v, want ErrSessionTimeout", err)
	}

	// The record must be gone: a retry with the same id is plain unauthenticated.
	if _, err := m.Authenticate(ctx, s.ID); err != domain.ErrUnauthenticated {
		t.Fatalf("after timeout got %v, want ErrUnauthenticated", err)
	}
}

func TestRegenerationRotatesIDKeepingContents(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	s, err := m.Start(ctx, testUser())
	if err != nil {
		t.Fatal(err)
	}
	oldID := s.ID

	s.LastRegeneration = time.Now().Add(-DefaultRegenInterval - time.Minute)
	if err := store.Save(ctx, s, DefaultLifetime); err != nil {
		t.Fatal(err)
	}

	got, err := m.Authenticate(ctx, oldID)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID == oldID {
		t.Fatal("id was not rotated")
	}
	if got.UserID != 7 || got.Email != "alice@example.com" || got.CSRFToken != s.CSRFToken {
		t.Fatalf("contents changed across rotation: %+v", got)
	}

	// Old id is dead, new id works.
	if _, err := m.Authenticate(ctx, oldID); err != domain.ErrUnauthenticated {
		t.Fatalf("old id still authenticates: %v", err)
	}
	if _, err := m.Authenticate(ctx, got.ID); err != nil {
		t.Fatalf("new id does not authenticate: %v", err)
	}
}

func TestDestroy(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Start(ctx, testUser())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Destroy(ctx, s.ID); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := m.Authenticate(ctx, s.ID); err != domain.ErrUnauthenticated {
		t.Fatalf("destroyed session still resolves: %v", err)
	}
}

func TestCSRFVerify(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Start(ctx, testUser())
	if err != nil {
		t.Fatal(err)
	}

	token, err := m.IssueCSRF(ctx, s)
	if err != nil {
		t.Fatalf("IssueCSRF: %v", err)
	}
	if token != s.CSRFToken {
		t.Fatal("unexpired token should be reused, not replaced")
	}

	if !m.VerifyCSRF(s, token) {
		t.Fatal("valid token rejected")
	}
	if m.VerifyCSRF(s, "") {
		t.Fatal("empty token accepted")
	}
	if m.VerifyCSRF(s, token+"x") {
		t.Fatal("tampered token accepted")
	}
	other, _ := randomToken()
	if m.VerifyCSRF(s, other) {
		t.Fatal("unrelated token accepted")
	}
}

func TestCSRFExpiryRotatesToken(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Start(ctx, testUser())
	if err != nil {
		t.Fatal(err)
	}
	old := s.CSRFToken
	s.CSRFIssuedAt = time.Now().Add(-DefaultCSRFTimeout - time.Minute)

	if m.VerifyCSRF(s, old) {
		t.Fatal("expired token verified")
	}

	fresh, err := m.IssueCSRF(ctx, s)
	if err != nil {
		t.Fatalf("IssueCSRF: %v", err)
	}
	if fresh == old {
		t.Fatal("expired token was reissued unchanged")
	}
	if !m.VerifyCSRF(s, fresh) {
		t.Fatal("freshly issued token rejected")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(client)
	ctx := context.Background()

	s := &Session{
		ID:           "abc123",
		UserID:       1,
		Username:     "bob",
		Email:        "bob@example.com",
		CSRFToken:    "tok",
		CSRFIssuedAt: time.Now(),
		LastActivity: time.Now(),
		CreatedAt:    time.Now(),
	}
	if err := store.Save(ctx, s, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.ID != "abc123" || got.Username != "bob" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// TTL is enforced by redis itself.
	mr.FastForward(2 * time.Hour)
	got, err = store.Get(ctx, "abc123")
	if err != nil || got != nil {
		t.Fatalf("expired record: got (%+v, %v), want (nil, nil)", got, err)
	}
}
