// Command seed bootstraps a user into the gallery database, typically the
// first admin. Safe to re-run: an existing email updates in place.
package main

import (
	"context"
	"errors"
	"log"

	flag "github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vlabgallery/internal/auth"
	"vlabgallery/internal/config"
	"vlabgallery/internal/db"
	"vlabgallery/internal/model"
	"vlabgallery/internal/repository"
)

func main() {
	name := flag.String("name", "Administrator", "display name for the user")
	email := flag.String("email", "", "email address (required)")
	password := flag.String("password", "", "password (required)")
	roleFlag := flag.String("role", "admin", "role to assign: admin or user")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both --email and --password are required")
	}
	role, err := auth.ParseRole(*roleFlag)
	if err != nil {
		log.Fatalf("invalid --role: %v", err)
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	existing, err := userRepo.FindByEmail(ctx, *email)
	switch {
	case err == nil:
		existing.Name = *name
		existing.PasswordHash = string(hash)
		existing.Role = role.String()
		if err := gormDB.WithContext(ctx).Save(existing).Error; err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
		log.Printf("Updated existing user %s (role %s)", *email, role)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := &model.User{
			Name:         *name,
			Email:        *email,
			PasswordHash: string(hash),
			Role:         role.String(),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		log.Printf("Created user %s (role %s)", *email, role)
	default:
		log.Fatalf("Failed to look up user: %v", err)
	}
}
