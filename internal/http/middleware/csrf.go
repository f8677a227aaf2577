package middleware

import (
	"net/http"

	"task_manager/internal/session"

	"github.com/gin-gonic/gin"
)

const csrfHeader = "X-CSRF-Token"

// VerifyCSRF rejects mutating requests whose token does not match the
// session's current one. The token is read from the csrf_token form field
// (hidden input) or the X-CSRF-Token header. Must run after RequireSession.
func VerifyCSRF(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		s := GetSession(c)
		if s == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}

		token := c.PostForm("csrf_token")
		if token == "" {
			token = c.GetHeader(csrfHeader)
		}

		if !m.VerifyCSRF(s, token) {
			CSRFRejections.Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid csrf token"})
			return
		}

		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
