package main

import (
	"context"
	"flag"
	"log"
	"os"

	"task_manager/internal/db"
	"task_manager/internal/domain"
	"task_manager/internal/mail"
	"task_manager/internal/service"
)

// Registers a user from the command line through the same validation and
// hashing path the HTTP registration uses, audit row included.
func main() {
	email := flag.String("email", "", "email address")
	username := flag.String("username", "", "display name (defaults to email local part)")
	pw := flag.String("password", "", "password (must satisfy the policy)")
	flag.Parse()

	if *email == "" || *pw == "" {
		log.Fatal("usage: create_user -email a@x.com -password 'Str0ng!Pass' [-username name]")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	auth := service.NewAuthService(pool, nil, mail.NewNotifier("", ""))

	u, err := auth.Register(context.Background(), *email, *username, *pw, *pw, "", "create_user")
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			for _, v := range ve.Violations {
				log.Println(v)
			}
			os.Exit(1)
		}
		log.Fatalf("create user: %v", err)
	}

	log.Printf("user created id=%d username=%s email=%s", u.ID, u.Username, u.Email)
}
