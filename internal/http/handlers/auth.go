package handlers

import (
	"net/http"

	"task_manager/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Register handles POST /api/register. Accepts form fields (or JSON) the way
// the original signup form posted them.
func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	username := c.PostForm("username")
	pw := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	u, err := h.Auth.Register(c.Request.Context(), email, username, pw, confirm,
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
		},
	})
}

// Login handles POST /api/login. On success it sets the session cookie and
// returns the CSRF token for subsequent mutating requests.
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	pw := c.PostForm("password")

	sess, err := h.Auth.Login(c.Request.Context(), email, pw, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		middleware.LoginAttempts.WithLabelValues("failure").Inc()
		respondError(c, err)
		return
	}

	middleware.LoginAttempts.WithLabelValues("success").Inc()
	middleware.SetSessionCookie(c, sess.ID, h.cookieSecure)

	c.JSON(http.StatusOK, gin.H{
		"csrf_token": sess.CSRFToken,
		"user": gin.H{
			"id":       sess.UserID,
			"username": sess.Username,
			"email":    sess.Email,
		},
	})
}

// Logout handles POST /api/logout.
func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.GetSession(c)
	if err := h.Auth.Logout(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}

	middleware.ClearSessionCookie(c, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me handles GET /api/me: returns the session identity and a fresh (or the
// current, unexpired) CSRF token for form rendering.
func (h *Handler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)

	token, err := h.Sessions.IssueCSRF(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"csrf_token": token,
		"user": gin.H{
			"id":       sess.UserID,
			"username": sess.Username,
			"email":    sess.Email,
		},
	})
}
