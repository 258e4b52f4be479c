package main

import (
	"context"
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/db"
	"userhub/internal/model"
	"userhub/internal/repository"
)

// Bootstraps the initial admin account. Reads ADMIN_EMAIL and
// ADMIN_PASSWORD from the environment and creates the account if it
// does not already exist. Safe to run repeatedly.
func main() {
	log.Println("Starting seed script...")

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	existing, err := userRepo.FindByEmail(ctx, adminEmail)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check admin account: %v", err)
	}
	if existing != nil {
		log.Printf("Admin account %s already exists, nothing to do", adminEmail)
		return
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	hash, err := hasher.Hash(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         "admin",
		State:        model.StateActive,
		Nickname:     "Administrator",
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Admin account %s created with id %s", adminEmail, admin.ID)
}
