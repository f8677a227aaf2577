package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"task_manager/internal/config"
	"task_manager/internal/password"
	"task_manager/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Operational self-check: configuration, database, redis, password policy
// and log file writability. Exit status is non-zero when any check fails.
func main() {
	fmt.Println("=== Task Manager Environment Check ===")
	fmt.Println()

	failed := false
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("1. Configuration:")
	if os.Getenv("DATABASE_URL") == "" {
		fmt.Println("   FAIL: DATABASE_URL not set")
		failed = true
	} else {
		fmt.Println("   ok: DATABASE_URL set")
	}
	cfg := config.Load()

	fmt.Println("2. Database connection:")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err == nil {
		err = pool.Ping(ctx)
	}
	if err != nil {
		fmt.Printf("   FAIL: %v\n", err)
		failed = true
		pool = nil
	} else {
		fmt.Println("   ok: database reachable")
	}

	fmt.Println("3. Redis connection:")
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Printf("   FAIL: %v\n", err)
		failed = true
	} else {
		fmt.Println("   ok: redis reachable")
	}

	fmt.Println("4. Password policy self-test:")
	cases := map[string]bool{
		"abc123":         false,
		"Password123":    false,
		"Password123!@#": true,
	}
	policyOK := true
	for pw, wantValid := range cases {
		violations := password.Validate(pw)
		if (len(violations) == 0) != wantValid {
			fmt.Printf("   FAIL: unexpected result for %q: %v\n", pw, violations)
			policyOK = false
			failed = true
		}
	}
	if policyOK {
		if _, err := password.Hash("Password123!@#"); err != nil {
			fmt.Printf("   FAIL: hashing: %v\n", err)
			failed = true
		} else {
			fmt.Println("   ok: policy and hashing behave as expected")
		}
	}

	fmt.Println("5. Audit trail:")
	if pool == nil {
		fmt.Println("   skip: database unreachable")
	} else {
		audit := service.NewAuditService(pool)
		events, err := audit.GetRecentLogs(ctx, 5)
		if err != nil {
			fmt.Printf("   FAIL: %v\n", err)
			failed = true
		} else {
			fmt.Printf("   ok: audit_logs readable (%d recent events)\n", len(events))
		}
		pool.Close()
	}

	fmt.Println("6. Log file:")
	if cfg.LogFile == "" {
		fmt.Println("   skip: LOG_FILE not set (stdout only)")
	} else {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Printf("   FAIL: %v\n", err)
			failed = true
		} else {
			f.Close()
			fmt.Println("   ok: log file writable")
		}
	}

	fmt.Println()
	if failed {
		fmt.Println("RESULT: FAILED")
		os.Exit(1)
	}
	fmt.Println("RESULT: OK")
}
