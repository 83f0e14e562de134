package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	"route-dispatch-service/internal/adapters/repositories"
	"route-dispatch-service/internal/config"
	"route-dispatch-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool initializes the Postgres schema for a hosted deployment and
// optionally seeds a credit account (SEED_OWNER / SEED_CREDITS).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(pg); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	owner := strings.TrimSpace(config.Get("SEED_OWNER", ""))
	if owner == "" {
		return
	}

	amount, err := strconv.Atoi(config.Get("SEED_CREDITS", "100"))
	if err != nil || amount <= 0 {
		log.Fatalf("SEED_CREDITS must be a positive integer")
	}

	log.Printf("Seeding %d credits for owner=%s...", amount, owner)
	if _, err := pg.ExecContext(context.Background(), `
	INSERT INTO credit_accounts (owner_id, balance)
	VALUES ($1, $2)
	ON CONFLICT (owner_id) DO UPDATE
	SET balance = credit_accounts.balance + EXCLUDED.balance;
	`, owner, amount); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
