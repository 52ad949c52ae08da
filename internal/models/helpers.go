package models

import (
	"gorm.io/gorm"
)

// GetUserByEmail retrieves a user from the database by email
func GetUserByEmail(email string, db *gorm.DB) (*User, error) {
	user := &User{}
	if err := db.Where("email = ?", email).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetBootcampByID retrieves a bootcamp by its ID
func GetBootcampByID(id string, db *gorm.DB) (*Bootcamp, error) {
	bootcamp := &Bootcamp{}
	if err := db.Where("id = ?", id).First(bootcamp).Error; err != nil {
		return nil, err
	}
	return bootcamp, nil
}
