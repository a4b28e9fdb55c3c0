package database

import (
	"errors"
	"log"

	"trf-app/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunSeeders creates the bootstrap admin account if no user exists yet.
func RunSeeders(db *gorm.DB) {
	SeedAdminUser(db)
}

func SeedAdminUser(db *gorm.DB) {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Unexpected DB error: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := models.User{
		Username: "admin",
		Password: string(hashed),
		Name:     "Administrator",
		Email:    "admin@localhost",
		Role:     "admin",
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
}
