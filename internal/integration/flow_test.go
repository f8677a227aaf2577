package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"task_manager/internal/config"
	apphttp "task_manager/internal/http"
)

// Full signup -> login -> task CRUD -> account -> logout flow against real
// Postgres and Redis, including the cross-user authorization property.
// Requires DATABASE_URL and REDIS_ADDR; skipped otherwise.
func TestUserFlow(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	redisAddr := os.Getenv("REDIS_ADDR")
	if dsn == "" || redisAddr == "" {
		t.Skip("DATABASE_URL and REDIS_ADDR required for integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping postgres: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}

	cfg := &config.Config{
		DatabaseURL:     dsn,
		RedisAddr:       redisAddr,
		SessionLifetime: 3600 * time.Second,
		RegenInterval:   1800 * time.Second,
		CSRFTimeout:     3600 * time.Second,
		LoginRateLimit:  100, // keep throttling out of the way
		LoginRateWindow: time.Minute,
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	apphttp.RegisterRoutes(r, pool, rdb, cfg, "test")

	srv := httptest.NewServer(r)
	defer srv.Close()

	newClient := func() *http.Client {
		jar, _ := cookiejar.New(nil)
		return &http.Client{Jar: jar}
	}
	alice := newClient()
	mallory := newClient()

	post := func(cl *http.Client, path string, form url.Values) (int, map[string]json.RawMessage) {
		t.Helper()
		resp, err := cl.PostForm(srv.URL+path, form)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		defer resp.Body.Close()
		var body map[string]json.RawMessage
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return resp.StatusCode, body
	}

	signUpAndLogin := func(cl *http.Client, email, pw string) string {
		t.Helper()
		code, _ := post(cl, "/api/register", url.Values{
			"email":            {email},
			"password":         {pw},
			"confirm_password": {pw},
		})
		if code != http.StatusCreated {
			t.Fatalf("register %s: status = %d", email, code)
		}
		code, body := post(cl, "/api/login", url.Values{
			"email":    {email},
			"password": {pw},
		})
		if code != http.StatusOK {
			t.Fatalf("login %s: status = %d", email, code)
		}
		var csrf string
		if err := json.Unmarshal(body["csrf_token"], &csrf); err != nil || csrf == "" {
			t.Fatalf("no csrf token in login response: %v", body)
		}
		return csrf
	}

	stamp := time.Now().UnixNano()
	email := fmt.Sprintf("it-%d@example.com", stamp)
	const pw = "Integrat10n!Pass"

	// Wrong password before the account exists and after: both generic.
	csrf := signUpAndLogin(alice, email, pw)

	code, body := post(newClient(), "/api/login", url.Values{
		"email":    {email},
		"password": {"Wr0ng!Password"},
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("bad login: status = %d", code)
	}
	if msg := string(body["error"]); !strings.Contains(msg, "invalid email or password") {
		t.Fatalf("bad login message leaks detail: %s", msg)
	}

	// Mutations without the token are refused
	code, _ = post(alice, "/api/tasks", url.Values{"task": {"no token"}})
	if code != http.StatusForbidden {
		t.Fatalf("csrf-less create: status = %d", code)
	}

	// Create two tasks: one to complete, one open and due shortly
	code, body = post(alice, "/api/tasks", url.Values{
		"task":       {"write integration test"},
		"category":   {"Work"},
		"csrf_token": {csrf},
	})
	if code != http.StatusCreated {
		t.Fatalf("create task: status = %d, body %v", code, body)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body["task"], &created); err != nil || created.ID == 0 {
		t.Fatalf("create response: %v", body)
	}

	dueSoon := time.Now().UTC().Add(2 * time.Hour).Format("2006-01-02T15:04")
	code, _ = post(alice, "/api/tasks", url.Values{
		"task":       {"second task"},
		"due_date":   {dueSoon},
		"csrf_token": {csrf},
	})
	if code != http.StatusCreated {
		t.Fatalf("create second task: status = %d", code)
	}

	code, _ = post(alice, fmt.Sprintf("/api/tasks/%d/toggle", created.ID), url.Values{
		"is_done":    {"1"},
		"csrf_token": {csrf},
	})
	if code != http.StatusOK {
		t.Fatalf("toggle: status = %d", code)
	}

	// Another user cannot touch these tasks, and they stay unmodified.
	malloryCSRF := signUpAndLogin(mallory, fmt.Sprintf("it-%d-b@example.com", stamp), pw)

	code, _ = post(mallory, fmt.Sprintf("/api/tasks/%d/delete", created.ID), url.Values{
		"csrf_token": {malloryCSRF},
	})
	if code != http.StatusForbidden {
		t.Fatalf("cross-user delete: status = %d, want 403", code)
	}
	code, _ = post(mallory, fmt.Sprintf("/api/tasks/%d/edit", created.ID), url.Values{
		"task":       {"hijacked"},
		"csrf_token": {malloryCSRF},
	})
	if code != http.StatusForbidden {
		t.Fatalf("cross-user edit: status = %d, want 403", code)
	}
	code, _ = post(mallory, fmt.Sprintf("/api/tasks/%d/toggle", created.ID), url.Values{
		"is_done":    {"0"},
		"csrf_token": {malloryCSRF},
	})
	if code != http.StatusForbidden {
		t.Fatalf("cross-user toggle: status = %d, want 403", code)
	}

	type taskJSON struct {
		ID      int64  `json:"id"`
		Text    string `json:"task"`
		IsDone  bool   `json:"is_done"`
		DueSoon bool   `json:"due_soon"`
		Overdue bool   `json:"overdue"`
	}
	getListing := func(cl *http.Client, query string) (tasks []taskJSON, total, done int64, percent int, color string) {
		t.Helper()
		resp, err := cl.Get(srv.URL + "/api/tasks" + query)
		if err != nil {
			t.Fatalf("list %s: %v", query, err)
		}
		defer resp.Body.Close()
		var listing struct {
			Tasks   []taskJSON `json:"tasks"`
			Total   int64      `json:"total"`
			Done    int64      `json:"done"`
			Percent int        `json:"percent"`
			Color   string     `json:"color"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
			t.Fatalf("decode listing: %v", err)
		}
		return listing.Tasks, listing.Total, listing.Done, listing.Percent, listing.Color
	}

	// One of two done => 50%, amber; the attacked task survives intact.
	tasks, total, done, percent, color := getListing(alice, "")
	if total != 2 || done != 1 || percent != 50 {
		t.Fatalf("listing summary: total=%d done=%d percent=%d", total, done, percent)
	}
	if color != "#ff9800" {
		t.Fatalf("progress color = %s, want amber", color)
	}
	for _, task := range tasks {
		switch task.ID {
		case created.ID:
			if task.Text != "write integration test" || !task.IsDone {
				t.Fatalf("task modified by another user: %+v", task)
			}
		default:
			if !task.DueSoon || task.Overdue {
				t.Fatalf("open task due in 2h should be flagged due-soon: %+v", task)
			}
		}
	}

	// Filtered listing
	tasks, _, _, _, _ = getListing(alice, "?filter=done")
	if len(tasks) != 1 {
		t.Fatalf("filter=done returned %d tasks, want 1", len(tasks))
	}

	// The activity feed records the login
	resp, err := alice.Get(srv.URL + "/api/account/activity")
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	var activity struct {
		Events []struct {
			Action string `json:"action"`
		} `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&activity); err != nil {
		t.Fatalf("decode activity: %v", err)
	}
	resp.Body.Close()
	loginSeen := false
	for _, e := range activity.Events {
		if e.Action == "login" {
			loginSeen = true
		}
	}
	if !loginSeen {
		t.Fatalf("no login event in activity feed: %+v", activity.Events)
	}

	// Mismatched confirmation is a validation error, not a change
	const newPW = "NewIntegrat10n!Pass"
	code, body = post(alice, "/api/account/password", url.Values{
		"current_password": {pw},
		"new_password":     {newPW},
		"confirm_password": {newPW + "x"},
		"csrf_token":       {csrf},
	})
	if code != http.StatusBadRequest {
		t.Fatalf("mismatched confirm: status = %d, want 400", code)
	}
	if !strings.Contains(string(body["violations"]), "New passwords do not match") {
		t.Fatalf("mismatched confirm violations: %v", body)
	}

	// Change password and log back in with the new one
	code, body = post(alice, "/api/account/password", url.Values{
		"current_password": {pw},
		"new_password":     {newPW},
		"confirm_password": {newPW},
		"csrf_token":       {csrf},
	})
	if code != http.StatusOK {
		t.Fatalf("change password: status = %d, body %v", code, body)
	}

	// Delete the done task
	code, _ = post(alice, fmt.Sprintf("/api/tasks/%d/delete", created.ID), url.Values{
		"csrf_token": {csrf},
	})
	if code != http.StatusOK {
		t.Fatalf("delete: status = %d", code)
	}

	// Logout kills the session
	code, _ = post(alice, "/api/logout", url.Values{})
	if code != http.StatusOK {
		t.Fatalf("logout: status = %d", code)
	}
	resp, err = alice.Get(srv.URL + "/api/me")
	if err != nil {
		t.Fatalf("me after logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout: status = %d, want 401", resp.StatusCode)
	}

	// Old password no longer works, new one does
	code, _ = post(alice, "/api/login", url.Values{"email": {email}, "password": {pw}})
	if code != http.StatusUnauthorized {
		t.Fatalf("login with old password: status = %d", code)
	}
	code, _ = post(alice, "/api/login", url.Values{"email": {email}, "password": {newPW}})
	if code != http.StatusOK {
		t.Fatalf("login with new password: status = %d", code)
	}
}
