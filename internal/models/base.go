package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRolePublisher UserRole = "publisher"
	UserRoleAdmin     UserRole = "admin"
)

type MinimumSkill string

const (
	MinimumSkillBeginner     MinimumSkill = "beginner"
	MinimumSkillIntermediate MinimumSkill = "intermediate"
	MinimumSkillAdvanced     MinimumSkill = "advanced"
)

// IsValidUserRole checks if a given role is valid
func IsValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleUser, UserRolePublisher, UserRoleAdmin:
		return true
	default:
		return false
	}
}
