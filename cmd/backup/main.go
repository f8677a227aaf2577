package main

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Retention for old dumps.
const maxBackupAge = 30 * 24 * time.Hour

// Dumps the database with pg_dump into a timestamped file and prunes dumps
// older than 30 days. Meant to run from cron.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = "database_backups"
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	backupFile := filepath.Join(backupDir,
		"backup_"+time.Now().Format("2006-01-02_15-04-05")+".sql")

	out, err := os.Create(backupFile)
	if err != nil {
		log.Fatalf("create backup file: %v", err)
	}
	defer out.Close()

	cmd := exec.Command("pg_dump", "--dbname="+dsn)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.Remove(backupFile)
		log.Fatalf("backup failed: %v", err)
	}
	log.Printf("backup created: %s", filepath.Base(backupFile))

	// prune old dumps
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		log.Fatalf("read backup dir: %v", err)
	}
	cutoff := time.Now().Add(-maxBackupAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(backupDir, e.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("failed to remove old backup %s: %v", e.Name(), err)
			} else {
				log.Printf("removed old backup: %s", e.Name())
			}
		}
	}
}
