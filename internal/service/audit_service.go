package service

import (
	"context"

	"task_manager/internal/domain"
	"task_manager/internal/logger"
	"task_manager/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditService records security-relevant events both in the structured log
// and in the append-only audit_logs table.
type AuditService struct {
	repo *repository.AuditRepository
}

func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{
		repo: repository.NewAuditRepository(db),
	}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]any) {
	log := &domain.AuditLog{
		UserID:   userID,
		Action:   action,
		Category: category,
		Details:  details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID int64, action, category, ip, userAgent string, details map[string]any) {
	log := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogLogin logs a successful login.
func (s *AuditService) LogLogin(ctx context.Context, userID int64, ip, userAgent string) {
	logger.Info("user logged in", "user_id", userID, "ip", ip)
	s.LogWithRequest(ctx, userID, domain.AuditActionLogin, domain.AuditCategoryAuth, ip, userAgent, nil)
}

// LogLoginFailed logs a failed login attempt. The attempted identifier goes
// into details, never into the user-visible response.
func (s *AuditService) LogLoginFailed(ctx context.Context, email, ip, userAgent string) {
	logger.Warn("failed login attempt", "email", email, "ip", ip)
	s.LogWithRequest(ctx, 0, domain.AuditActionLoginFailed, domain.AuditCategoryAuth, ip, userAgent,
		map[string]any{"email": email})
}

// LogLogout logs a logout.
func (s *AuditService) LogLogout(ctx context.Context, userID int64) {
	s.Log(ctx, userID, domain.AuditActionLogout, domain.AuditCategoryAuth, nil)
}

// LogRegister logs a successful registration.
func (s *AuditService) LogRegister(ctx context.Context, userID int64, ip, userAgent string) {
	logger.Info("user registered", "user_id", userID)
	s.LogWithRequest(ctx, userID, domain.AuditActionRegister, domain.AuditCategoryAuth, ip, userAgent, nil)
}

// LogPasswordChange logs the outcome of a password change attempt.
func (s *AuditService) LogPasswordChange(ctx context.Context, userID int64, ok bool) {
	if ok {
		logger.Info("password changed", "user_id", userID)
		s.Log(ctx, userID, domain.AuditActionPasswordChanged, domain.AuditCategoryAccount, nil)
		return
	}
	logger.Warn("failed password change attempt", "user_id", userID)
	s.Log(ctx, userID, domain.AuditActionPasswordChangeFailed, domain.AuditCategoryAccount, nil)
}

// LogEmailChange logs the outcome of an email change attempt.
func (s *AuditService) LogEmailChange(ctx context.Context, userID int64, ok bool, details map[string]any) {
	if ok {
		logger.Info("email changed", "user_id", userID)
		s.Log(ctx, userID, domain.AuditActionEmailChanged, domain.AuditCategoryAccount, details)
		return
	}
	logger.Warn("failed email change attempt", "user_id", userID)
	s.Log(ctx, userID, domain.AuditActionEmailChangeFailed, domain.AuditCategoryAccount, details)
}

// LogForbidden logs an authorization rejection on a task operation.
func (s *AuditService) LogForbidden(ctx context.Context, userID, taskID int64, op string) {
	logger.Warn("unauthorized task access", "user_id", userID, "task_id", taskID, "op", op)
	s.Log(ctx, userID, domain.AuditActionForbidden, domain.AuditCategoryTask,
		map[string]any{"task_id": taskID, "op": op})
}

// GetUserAuditLogs returns audit logs for a user
func (s *AuditService) GetUserAuditLogs(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetByUserID(ctx, userID, limit)
}

// GetRecentLogs returns recent audit logs
func (s *AuditService) GetRecentLogs(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetRecent(ctx, limit)
}
