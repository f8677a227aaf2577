package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"task_manager/internal/domain"
)

// Defaults mirror the original deployment configuration.
const (
	DefaultLifetime      = 3600 * time.Second
	DefaultRegenInterval = 1800 * time.Second
	DefaultCSRFTimeout   = 3600 * time.Second
)

type Config struct {
	Lifetime      time.Duration
	RegenInterval time.Duration
	CSRFTimeout   time.Duration
}

// Manager owns the session lifecycle: creation at login, idle timeout,
// periodic id regeneration and the per-session CSRF token.
type Manager struct {
	store         Store
	lifetime      time.Duration
	regenInterval time.Duration
	csrfTimeout   time.Duration
}

func NewManager(store Store, cfg Config) *Manager {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = DefaultLifetime
	}
	if cfg.RegenInterval <= 0 {
		cfg.RegenInterval = DefaultRegenInterval
	}
	if cfg.CSRFTimeout <= 0 {
		cfg.CSRFTimeout = DefaultCSRFTimeout
	}
	return &Manager{
		store:         store,
		lifetime:      cfg.Lifetime,
		regenInterval: cfg.RegenInterval,
		csrfTimeout:   cfg.CSRFTimeout,
	}
}

// Start creates a fresh session for a just-authenticated user. The id is
// always newly generated here, never reused from a pre-login session.
func (m *Manager) Start(ctx context.Context, user *domain.User) (*Session, error) {
	id, err := randomToken()
	if err != nil {
		return nil, err
	}
	csrf, err := randomToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		ID:               id,
		UserID:           user.ID,
		Username:         user.Username,
		Email:            user.Email,
		CSRFToken:        csrf,
		CSRFIssuedAt:     now,
		LastActivity:     now,
		LastRegeneration: now,
		CreatedAt:        now,
	}

	if err := m.store.Save(ctx, s, m.lifetime); err != nil {
		return nil, err
	}
	return s, nil
}

// Authenticate resolves a presented session id. Two independent checks run on
// every call: the idle timeout (destroys the session when exceeded) and the
// periodic id regeneration (rotates the id while keeping the contents). The
// returned session's ID may therefore differ from the presented one; callers
// must re-issue the cookie when it does.
func (m *Manager) Authenticate(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrUnauthenticated
	}

	now := time.Now()
	if now.Sub(s.LastActivity) > m.lifetime {
		if err := m.store.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrSessionTimeout
	}
	s.LastActivity = now

	if now.Sub(s.LastRegeneration) >= m.regenInterval {
		newID, err := randomToken()
		if err != nil {
			return nil, err
		}
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return nil, err
		}
		s.ID = newID
		s.LastRegeneration = now
	}

	if err := m.store.Save(ctx, s, m.lifetime); err != nil {
		return nil, err
	}
	return s, nil
}

// Update persists in-place changes to an authenticated session (e.g. the
// email stored on it after an address change).
func (m *Manager) Update(ctx context.Context, s *Session) error {
	return m.store.Save(ctx, s, m.lifetime)
}

// Destroy removes the session record. Presenting the old id afterwards is
// indistinguishable from never having logged in.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// IssueCSRF returns the session's CSRF token, generating a new one when none
// exists or the current one has outlived its timeout.
func (m *Manager) IssueCSRF(ctx context.Context, s *Session) (string, error) {
	now := time.Now()
	if s.CSRFToken != "" && now.Sub(s.CSRFIssuedAt) <= m.csrfTimeout {
		return s.CSRFToken, nil
	}

	token, err := randomToken()
	if err != nil {
		return "", err
	}
	s.CSRFToken = token
	s.CSRFIssuedAt = now
	if err := m.store.Save(ctx, s, m.lifetime); err != nil {
		return "", err
	}
	return token, nil
}

// VerifyCSRF reports whether the presented token matches the session's
// current, unexpired token. Comparison is constant time.
func (m *Manager) VerifyCSRF(s *Session, presented string) bool {
	if s.CSRFToken == "" || presented == "" {
		return false
	}
	if time.Since(s.CSRFIssuedAt) > m.csrfTimeout {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(presented)) == 1
}

// randomToken returns 256 bits from crypto/rand, hex encoded. Used for both
// session ids and CSRF tokens.
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
