//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mkovac/go-shelter/internal/auth"
	"github.com/mkovac/go-shelter/internal/database"
	"github.com/mkovac/go-shelter/internal/database/models"
	"github.com/mkovac/go-shelter/internal/users"
	"github.com/mkovac/go-shelter/pkg/config"
	"github.com/mkovac/go-shelter/pkg/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	store := users.NewStore(db, jwtService)

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123!"
	}

	ctx := context.Background()

	existing, err := store.FindByEmail(ctx, email)
	if err != nil {
		log.Fatalf("failed to look up admin user: %v", err)
	}
	if existing != nil {
		fmt.Printf("admin user %s already exists\n", email)
		return
	}

	admin, err := store.Create(ctx, users.CreateParams{
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	fmt.Printf("created admin user %s (%s)\n", admin.Email, admin.ID)
}
