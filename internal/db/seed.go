package db

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/go-gestion/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedInput holds the bootstrap PDG account and company name.
type SeedInput struct {
	AdminCIN      string
	AdminPassword string
	AdminName     string
	CompanyName   string
}

// Seed creates the company row and the first PDG account when missing.
// Running it twice changes nothing.
func Seed(db *gorm.DB, in SeedInput) error {
	var company models.Company
	err := db.First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		name := in.CompanyName
		if name == "" {
			name = "Gestion"
		}
		if err := db.Create(&models.Company{Name: name}).Error; err != nil {
			return fmt.Errorf("seed company: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("seed company: %w", err)
	}

	if in.AdminCIN == "" || in.AdminPassword == "" {
		return nil
	}
	var existing models.User
	err = db.Unscoped().Where("cin = ?", in.AdminCIN).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed admin lookup: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin hash: %w", err)
	}
	now := time.Now()
	admin := models.User{
		CIN:               in.AdminCIN,
		NomComplet:        in.AdminName,
		Role:              models.RolePDG,
		Password:          string(hash),
		PasswordChangedAt: &now,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("[DB] seeded PDG account %s", in.AdminCIN)
	return nil
}
