package session

import "time"

// Session is the server-side record behind a cookie-carried identifier. The
// identifier itself is the storage key and never serialized into the record.
type Session struct {
	ID string `json:"-"`

	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	CSRFToken    string    `json:"csrf_token"`
	CSRFIssuedAt time.Time `json:"csrf_issued_at"`

	LastActivity     time.Time `json:"last_activity"`
	LastRegeneration time.Time `json:"last_regeneration"`
	CreatedAt        time.Time `json:"created_at"`
}
