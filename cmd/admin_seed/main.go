// Command admin_seed creates the initial Admin user from environment
// variables. It is idempotent: an existing user with the same email is
// left untouched.
package main

import (
	"errors"
	"log"
	"os"

	"sahulat/internal/config"
	"sahulat/internal/models"
	"sahulat/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminCNIC := os.Getenv("ADMIN_CNIC")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminCNIC == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, ADMIN_CNIC and ADMIN_PHONE must be set in environment")
	}

	db, err := repositories.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close database connection: %v", err)
			}
		}
	}()

	users := repositories.NewUserRepository(db)
	if _, err := users.GetByEmail(adminEmail); err == nil {
		log.Println("Admin user already exists")
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		log.Fatalf("Failed to check for existing admin: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &models.User{
		FullName: config.GetEnv("ADMIN_FULL_NAME", "Bank Administrator"),
		Email:    adminEmail,
		CNIC:     adminCNIC,
		Phone:    adminPhone,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := users.Create(admin); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("Admin account created successfully")
}
