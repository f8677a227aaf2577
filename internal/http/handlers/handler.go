package handlers

import (
	"errors"
	"net/http"

	"task_manager/internal/domain"
	"task_manager/internal/logger"
	"task_manager/internal/mail"
	"task_manager/internal/service"
	"task_manager/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB       *pgxpool.Pool
	Sessions *session.Manager
	Auth     *service.AuthService
	Tasks    *service.TaskService
	Audit    *service.AuditService

	cookieSecure bool
}

func NewHandler(db *pgxpool.Pool, sessions *session.Manager, notifier *mail.Notifier, cookieSecure bool) *Handler {
	return &Handler{
		DB:           db,
		Sessions:     sessions,
		Auth:         service.NewAuthService(db, sessions, notifier),
		Tasks:        service.NewTaskService(db),
		Audit:        service.NewAuditService(db),
		cookieSecure: cookieSecure,
	}
}

// respondError maps the error taxonomy onto HTTP responses. Persistence
// failures are logged with detail but surface only as a generic message.
func respondError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      ve.Error(),
			"violations": ve.Violations,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidCredentials.Error()})
	case errors.Is(err, domain.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrWrongPassword.Error()})
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrSessionTimeout):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	case errors.Is(err, domain.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": domain.ErrNotAuthorized.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrEmailTaken.Error()})
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}
