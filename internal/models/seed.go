package models

import (
	"campdir/internal/config"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateAdminFromEnv ensures the configured admin account exists. It is safe
// to call on every boot.
func CreateAdminFromEnv(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Info("No admin credentials configured, skipping admin seed")
		return nil
	}

	var existing User
	if err := db.Where("email = ?", cfg.Admin.Email).First(&existing).Error; err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: string(hashed),
		Role:     UserRoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Success("Seeded admin user %s", admin.Email)
	return nil
}
