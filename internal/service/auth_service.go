package service

import (
	"context"
	"net/mail"
	"strings"

	"task_manager/internal/domain"
	"task_manager/internal/logger"
	smtpmail "task_manager/internal/mail"
	"task_manager/internal/password"
	"task_manager/internal/repository"
	"task_manager/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthService orchestrates registration, login/logout and account
// self-service on top of the credential store, password policy and session
// manager.
type AuthService struct {
	users    *repository.UserRepository
	sessions *session.Manager
	audit    *AuditService
	notifier *smtpmail.Notifier
}

func NewAuthService(db *pgxpool.Pool, sessions *session.Manager, notifier *smtpmail.Notifier) *AuthService {
	return &AuthService{
		users:    repository.NewUserRepository(db),
		sessions: sessions,
		audit:    NewAuditService(db),
		notifier: notifier,
	}
}

// Register creates a new user after validating the password against the full
// policy. Email matching is exact; no case folding is applied.
func (s *AuthService) Register(ctx context.Context, email, username, pw, confirm, ip, userAgent string) (*domain.User, error) {
	var violations []string

	email = strings.TrimSpace(email)
	if !validEmail(email) {
		violations = append(violations, "Invalid email format")
	}
	if pw != confirm {
		violations = append(violations, "Passwords do not match")
	}
	violations = append(violations, password.Validate(pw)...)
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	username = strings.TrimSpace(username)
	if username == "" {
		// Fall back to the address's local part, as the original signup did
		// not collect a username at all.
		username = email[:strings.Index(email, "@")]
	}

	hash, err := password.Hash(pw)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.audit.LogRegister(ctx, u.ID, ip, userAgent)
	return u, nil
}

// Login verifies credentials and establishes a fresh session. Unknown email
// and wrong password both surface as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, pw, ip, userAgent string) (*session.Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.audit.LogLoginFailed(ctx, email, ip, userAgent)
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := password.Verify(pw, u.PasswordHash)
	if err != nil || !ok {
		s.audit.LogLoginFailed(ctx, email, ip, userAgent)
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := s.sessions.Start(ctx, u)
	if err != nil {
		return nil, err
	}

	s.audit.LogLogin(ctx, u.ID, ip, userAgent)
	return sess, nil
}

// Logout destroys the session.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	if err := s.sessions.Destroy(ctx, sess.ID); err != nil {
		return err
	}
	s.audit.LogLogout(ctx, sess.UserID)
	return nil
}

// ChangePassword verifies the current password, validates the new one and
// persists the new hash. A notification is sent to the account address; a
// send failure is logged and does not undo the change.
func (s *AuthService) ChangePassword(ctx context.Context, sess *session.Session, current, newPw, confirm string) error {
	var violations []string
	if newPw != confirm {
		violations = append(violations, "New passwords do not match")
	}
	violations = append(violations, password.Validate(newPw)...)
	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUnauthenticated
	}

	ok, err := password.Verify(current, u.PasswordHash)
	if err != nil || !ok {
		s.audit.LogPasswordChange(ctx, sess.UserID, false)
		return domain.ErrWrongPassword
	}

	hash, err := password.Hash(newPw)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	s.audit.LogPasswordChange(ctx, u.ID, true)

	if err := s.notifier.PasswordChanged(u.Username, u.Email); err != nil {
		logger.Error("password change notification failed", "user_id", u.ID, "error", err)
	}
	return nil
}

// ChangeEmail verifies the current password, checks the new address for
// format and uniqueness, updates the stored address and the live session,
// and notifies both the old and the new address.
func (s *AuthService) ChangeEmail(ctx context.Context, sess *session.Session, current, newEmail, confirm string) error {
	newEmail = strings.TrimSpace(newEmail)
	confirm = strings.TrimSpace(confirm)

	var violations []string
	if !validEmail(newEmail) || !validEmail(confirm) {
		violations = append(violations, "Invalid email format")
	}
	if newEmail != confirm {
		violations = append(violations, "New emails do not match")
	}
	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUnauthenticated
	}

	ok, err := password.Verify(current, u.PasswordHash)
	if err != nil || !ok {
		s.audit.LogEmailChange(ctx, sess.UserID, false, nil)
		return domain.ErrWrongPassword
	}

	inUse, err := s.users.EmailInUse(ctx, newEmail, u.ID)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrEmailTaken
	}

	oldEmail := u.Email
	if err := s.users.UpdateEmail(ctx, u.ID, newEmail); err != nil {
		return err
	}

	sess.Email = newEmail
	if err := s.sessions.Update(ctx, sess); err != nil {
		logger.Error("failed to refresh session after email change", "user_id", u.ID, "error", err)
	}

	s.audit.LogEmailChange(ctx, u.ID, true, map[string]any{"old": oldEmail, "new": newEmail})

	if err := s.notifier.EmailChanged(u.Username, oldEmail, newEmail); err != nil {
		logger.Error("email change notification failed", "user_id", u.ID, "error", err)
	}
	return nil
}

func validEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
