package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aniwoo/aniwoo-api/internal/config"
	"github.com/aniwoo/aniwoo-api/internal/database"
	"github.com/aniwoo/aniwoo-api/internal/models"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: backfill-role <email> <vet|pet_owner>")
		os.Exit(1)
	}

	email := os.Args[1]
	role := os.Args[2]
	if !models.ValidRole(role) {
		log.Fatalf("Invalid role: %s", role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	result, err := db.Pool.Exec(ctx, `
		UPDATE profiles SET role = $1, updated_at = NOW()
		WHERE email = $2 AND role IS NULL
	`, role, email)
	if err != nil {
		log.Fatalf("Failed to update profile: %v", err)
	}

	if result.RowsAffected() == 0 {
		log.Fatalf("No role-less profile found with email: %s", email)
	}

	fmt.Printf("Set role %s for %s\n", role, email)
}
