package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/tasky/config"
	"github.com/oksasatya/tasky/pkg/helpers"
)

// Seeds an admin account, a demo member and a couple of tasks so the API is
// usable right after migrations.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hasher := helpers.NewHasher(cfg.BcryptCost)

	adminID := seedUser(db, hasher, "Tasky Admin", "admin@tasky.local", "admin12345", "admin")
	memberID := seedUser(db, hasher, "Demo Member", "member@tasky.local", "member12345", "member")

	seedTask(db, memberID, "Write project readme", "Cover setup, env vars and the API surface.", 2, "medium", "pending")
	seedTask(db, memberID, "Review open pull requests", "", 1, "high", "in_progress")
	seedTask(db, adminID, "Rotate service credentials", "Mailgun and GCS keys.", 7, "low", "pending")

	fmt.Println("seed complete")
}

func seedUser(db *sql.DB, hasher *helpers.Hasher, fullname, email, password, role string) string {
	hash, err := hasher.Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var id string
	err = db.QueryRow(`
		INSERT INTO users (fullname, email, password_hash, role)
		VALUES ($1, lower($2), $3, $4)
		ON CONFLICT (lower(email)) DO UPDATE SET fullname = EXCLUDED.fullname, role = EXCLUDED.role
		RETURNING id
	`, fullname, email, hash, role).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("seeded user: id=%s email=%s role=%s password=%s\n", id, email, role, password)
	return id
}

func seedTask(db *sql.DB, userID, title, description string, dueInDays int, priority, status string) {
	due := time.Now().AddDate(0, 0, dueInDays)
	var id string
	err := db.QueryRow(`
		INSERT INTO tasks (user_id, title, description, due_date, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, userID, title, description, due, priority, status).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed task %q: %v", title, err)
	}
	fmt.Printf("seeded task: id=%s title=%q\n", id, title)
}
