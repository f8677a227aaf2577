package config

import (
	"os"
	"strconv"
	"time"

	"task_manager/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Session & CSRF lifecycle
	SessionLifetime time.Duration // idle timeout before the session is destroyed
	RegenInterval   time.Duration // session id rotation interval
	CSRFTimeout     time.Duration // csrf token lifetime

	// Login throttling
	LoginRateLimit  int
	LoginRateWindow time.Duration

	CookieSecure bool

	// Outgoing notification mail. Empty SMTPAddr disables sending.
	SMTPAddr string
	SMTPFrom string

	LogLevel string
	LogJSON  bool
	LogFile  string
}

// Load reads configuration from the environment, with .env support.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	sessionLifetime := 3600 * time.Second
	if v := os.Getenv("SESSION_LIFETIME_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sessionLifetime = time.Duration(n) * time.Second
		}
	}

	regenInterval := 1800 * time.Second
	if v := os.Getenv("SESSION_REGEN_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			regenInterval = time.Duration(n) * time.Second
		}
	}

	csrfTimeout := 3600 * time.Second
	if v := os.Getenv("CSRF_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			csrfTimeout = time.Duration(n) * time.Second
		}
	}

	loginRateLimit := 5
	if v := os.Getenv("LOGIN_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			loginRateLimit = n
		}
	}

	loginRateWindow := 300 * time.Second
	if v := os.Getenv("LOGIN_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			loginRateWindow = time.Duration(n) * time.Second
		}
	}

	smtpFrom := os.Getenv("SMTP_FROM")
	if smtpFrom == "" {
		smtpFrom = "Task Manager <noreply@taskmanager.local>"
	}

	return &Config{
		AppPort:         port,
		DatabaseURL:     dbURL,
		RedisAddr:       redisAddr,
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		SessionLifetime: sessionLifetime,
		RegenInterval:   regenInterval,
		CSRFTimeout:     csrfTimeout,
		LoginRateLimit:  loginRateLimit,
		LoginRateWindow: loginRateWindow,
		CookieSecure:    os.Getenv("COOKIE_SECURE") == "true",
		SMTPAddr:        os.Getenv("SMTP_ADDR"),
		SMTPFrom:        smtpFrom,
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogJSON:         os.Getenv("LOG_JSON") == "true",
		LogFile:         os.Getenv("LOG_FILE"),
	}
}
