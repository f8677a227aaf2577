package http

import (
	"task_manager/internal/config"
	"task_manager/internal/http/handlers"
	"task_manager/internal/http/middleware"
	"task_manager/internal/mail"
	"task_manager/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes wires the full HTTP surface: health probes, auth, task CRUD
// and account self-service. Mutating task/account endpoints sit behind both
// the session gate and CSRF verification.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, version string) {
	sessions := session.NewManager(session.NewRedisStore(rdb), session.Config{
		Lifetime:      cfg.SessionLifetime,
		RegenInterval: cfg.RegenInterval,
		CSRFTimeout:   cfg.CSRFTimeout,
	})
	notifier := mail.NewNotifier(cfg.SMTPAddr, cfg.SMTPFrom)

	h := handlers.NewHandler(db, sessions, notifier, cfg.CookieSecure)
	healthHandler := handlers.NewHealthHandler(db, rdb, version)

	// Health checks (no auth, no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	middleware.SetRateLimiterClient(rdb)
	loginRL := middleware.RedisRateLimit(cfg.LoginRateLimit, cfg.LoginRateWindow)

	api := r.Group("/api")

	// Anonymous endpoints
	api.POST("/register", loginRL, h.Register)
	api.POST("/login", loginRL, h.Login)

	// Everything below requires an authenticated session
	authed := api.Group("")
	authed.Use(middleware.RequireSession(sessions, cfg.CookieSecure))

	csrf := middleware.VerifyCSRF(sessions)

	authed.POST("/logout", h.Logout)
	authed.GET("/me", h.Me)

	authed.GET("/tasks", h.ListTasks)
	authed.POST("/tasks", csrf, h.CreateTask)
	authed.POST("/tasks/:id/edit", csrf, h.EditTask)
	authed.POST("/tasks/:id/toggle", csrf, h.ToggleTask)
	authed.POST("/tasks/:id/delete", csrf, h.DeleteTask)

	authed.POST("/account/password", csrf, h.ChangePassword)
	authed.POST("/account/email", csrf, h.ChangeEmail)
	authed.GET("/account/activity", h.ListActivity)
}
