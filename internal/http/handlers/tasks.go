package handlers

import (
	"net/http"
	"strconv"

	"task_manager/internal/http/middleware"
	"task_manager/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListTasks handles GET /api/tasks with optional search, filter and category
// query parameters.
func (h *Handler) ListTasks(c *gin.Context) {
	sess := middleware.GetSession(c)

	f := repository.TaskFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
	switch c.Query("filter") {
	case "done":
		f.Status = repository.StatusDone
	case "pending":
		f.Status = repository.StatusPending
	default:
		f.Status = repository.StatusAll
	}

	listing, err := h.Tasks.List(c.Request.Context(), sess.UserID, f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// CreateTask handles POST /api/tasks.
func (h *Handler) CreateTask(c *gin.Context) {
	sess := middleware.GetSession(c)

	t, err := h.Tasks.Create(c.Request.Context(), sess.UserID,
		c.PostForm("task"), c.PostForm("category"), c.PostForm("due_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": t})
}

// EditTask handles POST /api/tasks/:id/edit.
func (h *Handler) EditTask(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := taskID(c)
	if !ok {
		return
	}

	t, err := h.Tasks.Edit(c.Request.Context(), sess.UserID, id,
		c.PostForm("task"), c.PostForm("category"), c.PostForm("due_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": t})
}

// ToggleTask handles POST /api/tasks/:id/toggle. The is_done field follows
// checkbox semantics: present and truthy means done.
func (h *Handler) ToggleTask(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := taskID(c)
	if !ok {
		return
	}

	done := false
	switch c.PostForm("is_done") {
	case "1", "true", "on":
		done = true
	}

	t, err := h.Tasks.Toggle(c.Request.Context(), sess.UserID, id, done)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": t})
}

// DeleteTask handles POST /api/tasks/:id/delete.
func (h *Handler) DeleteTask(c *gin.Context) {
	sess := middleware.GetSession(c)
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), sess.UserID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}
