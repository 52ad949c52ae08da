package models

import (
	"time"
)

type User struct {
	Base
	Name                 string     `gorm:"not null" json:"name" validate:"required,min=2"`
	Email                string     `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password             string     `gorm:"not null" json:"-"`
	Role                 UserRole   `gorm:"not null;default:'user'" json:"role" validate:"omitempty,user_role"`
	ResetPasswordToken   string     `gorm:"index;default:NULL" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	Bootcamps            []Bootcamp `gorm:"foreignKey:UserID" json:"bootcamps,omitempty"`
}

// AuthTransaction records an issued session token. A bearer token is only
// accepted while its transaction row exists and has not expired, which is
// what makes logout effective before the JWT itself expires.
type AuthTransaction struct {
	Base
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Token     string    `gorm:"not null;index" json:"token"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
}
