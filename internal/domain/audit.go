package domain

import "time"

// AuditLog is an append-only record of a security-relevant event.
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	Action    string         `db:"action" json:"action"`
	Category  string         `db:"category" json:"category"`
	Details   map[string]any `db:"details" json:"details"`
	IP        string         `db:"ip" json:"ip,omitempty"`
	UserAgent string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Audit categories
const (
	AuditCategoryAuth    = "auth"
	AuditCategoryAccount = "account"
	AuditCategoryTask    = "task"
)

// Audit actions
const (
	AuditActionRegister             = "register"
	AuditActionLogin                = "login"
	AuditActionLoginFailed          = "login_failed"
	AuditActionLogout               = "logout"
	AuditActionPasswordChanged      = "password_changed"
	AuditActionPasswordChangeFailed = "password_change_failed"
	AuditActionEmailChanged         = "email_changed"
	AuditActionEmailChangeFailed    = "email_change_failed"
	AuditActionForbidden            = "forbidden"
)
