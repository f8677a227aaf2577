package handlers

import (
	"net/http"
	"strconv"

	"task_manager/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ChangePassword handles POST /api/account/password.
func (h *Handler) ChangePassword(c *gin.Context) {
	sess := middleware.GetSession(c)

	err := h.Auth.ChangePassword(c.Request.Context(), sess,
		c.PostForm("current_password"),
		c.PostForm("new_password"),
		c.PostForm("confirm_password"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password updated"})
}

// ChangeEmail handles POST /api/account/email.
func (h *Handler) ChangeEmail(c *gin.Context) {
	sess := middleware.GetSession(c)

	err := h.Auth.ChangeEmail(c.Request.Context(), sess,
		c.PostForm("current_password"),
		c.PostForm("new_email"),
		c.PostForm("confirm_email"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "email updated", "email": sess.Email})
}

// ListActivity handles GET /api/account/activity: the user's recent
// security-relevant events (logins, account changes, refused task access).
func (h *Handler) ListActivity(c *gin.Context) {
	sess := middleware.GetSession(c)

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	events, err := h.Audit.GetUserAuditLogs(c.Request.Context(), sess.UserID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
