package main

import (
	"errors"
	"log"
	"strings"

	"checkinn/internal/config"
	"checkinn/internal/logger"
	"checkinn/internal/models"
	"checkinn/internal/repositories"
	"checkinn/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	adminEmail := strings.ToLower(strings.TrimSpace(config.GetEnv("ADMIN_EMAIL", "admin@checkinn.com")))
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "")
	adminName := config.GetEnv("ADMIN_NAME", "CheckInn Admin")
	adminPhone := config.GetEnv("ADMIN_PHONE", "")

	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set in environment")
	}
	if problem := validation.PasswordProblem(adminPassword); problem != "" {
		log.Fatalf("ADMIN_PASSWORD is too weak: %s", problem)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := repositories.InitDB(cfg, zlog)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Printf("Failed to close PostgreSQL connection: %v", err)
		}
	}()

	var existingAdmin models.User
	result := db.Where("email = ?", adminEmail).First(&existingAdmin)
	if result.Error == nil {
		log.Println("Admin user already exists")
		return
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to look up admin user: %v", result.Error)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := models.User{
		Name:         adminName,
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Phone:        adminPhone,
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
		TokenVersion: 1,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Printf("Admin account %s created successfully", adminEmail)
}
