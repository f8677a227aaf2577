package middleware

import (
	"errors"
	"net/http"

	"task_manager/internal/domain"
	"task_manager/internal/logger"
	"task_manager/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the session identifier.
	SessionCookie = "tm_session"
	// ContextSession is the gin context key holding the resolved session.
	ContextSession = "session"
)

// RequireSession authenticates every request through the session manager.
// Timed-out and unknown sessions get 401; a regenerated session id is pushed
// back to the client as a fresh cookie.
func RequireSession(m *session.Manager, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}

		s, err := m.Authenticate(c.Request.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrSessionTimeout):
				SessionTimeouts.Inc()
				clearSessionCookie(c, secure)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "session expired",
					"timeout": true,
				})
			case errors.Is(err, domain.ErrUnauthenticated):
				clearSessionCookie(c, secure)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			default:
				logger.Error("session lookup failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
			}
			return
		}

		if s.ID != id {
			SetSessionCookie(c, s.ID, secure)
		}

		c.Set(ContextSession, s)
		c.Next()
	}
}

// GetSession returns the session placed on the context by RequireSession.
func GetSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

// SetSessionCookie issues the HttpOnly session cookie.
func SetSessionCookie(c *gin.Context, id string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}

// ClearSessionCookie removes the session cookie (logout).
func ClearSessionCookie(c *gin.Context, secure bool) {
	clearSessionCookie(c, secure)
}
