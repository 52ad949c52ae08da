package models

import (
	"gorm.io/datatypes"
)

// Location is the geocoded address of a bootcamp, denormalized onto the row
// so radius queries can run against plain lat/lng columns.
type Location struct {
	FormattedAddress string  `json:"formattedAddress,omitempty"`
	Street           string  `json:"street,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	Zipcode          string  `json:"zipcode,omitempty"`
	Country          string  `json:"country,omitempty"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}

type Bootcamp struct {
	Base
	Name          string         `gorm:"not null;uniqueIndex" json:"name" validate:"required,max=50"`
	Slug          string         `gorm:"index" json:"slug"`
	Description   string         `gorm:"not null" json:"description" validate:"required,max=500"`
	Website       string         `json:"website" validate:"omitempty,url"`
	Phone         string         `json:"phone" validate:"omitempty,max=20"`
	Email         string         `json:"email" validate:"omitempty,email"`
	Address       string         `json:"address"`
	Location      Location       `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Careers       datatypes.JSON `gorm:"type:jsonb" json:"careers,omitempty"`
	AverageRating float64        `json:"averageRating"`
	AverageCost   float64        `json:"averageCost"`
	Photo         string         `gorm:"default:'no-photo.jpg'" json:"photo"`
	PhotoURL      string         `gorm:"-" json:"photoUrl,omitempty"` // Virtual field
	Housing       bool           `json:"housing"`
	JobAssistance bool           `json:"jobAssistance"`
	JobGuarantee  bool           `json:"jobGuarantee"`
	AcceptGi      bool           `json:"acceptGi"`
	UserID        string         `gorm:"type:uuid;not null;index" json:"userId"`
	User          *User          `json:"user,omitempty"`
	Courses       []Course       `gorm:"foreignKey:BootcampID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
	Reviews       []Review       `gorm:"foreignKey:BootcampID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func (b *Bootcamp) OwnerID() string { return b.UserID }

type Course struct {
	Base
	Title                string       `gorm:"not null" json:"title" validate:"required,max=100"`
	Description          string       `gorm:"not null" json:"description" validate:"required"`
	Weeks                int          `gorm:"not null" json:"weeks" validate:"required,min=1"`
	Tuition              float64      `gorm:"not null" json:"tuition" validate:"required,min=0"`
	MinimumSkill         MinimumSkill `gorm:"not null;default:'beginner'" json:"minimumSkill" validate:"required,minimum_skill"`
	ScholarshipAvailable bool         `json:"scholarshipAvailable"`
	BootcampID           string       `gorm:"type:uuid;not null;index" json:"bootcampId"`
	Bootcamp             *Bootcamp    `json:"bootcamp,omitempty"`
	UserID               string       `gorm:"type:uuid;not null;index" json:"userId"`
	User                 *User        `json:"user,omitempty"`
}

func (c *Course) OwnerID() string { return c.UserID }

type Review struct {
	Base
	Title      string    `gorm:"not null" json:"title" validate:"required,max=100"`
	Text       string    `gorm:"not null" json:"text" validate:"required"`
	Rating     int       `gorm:"not null" json:"rating" validate:"required,min=1,max=10"`
	BootcampID string    `gorm:"type:uuid;not null;index:idx_review_bootcamp_user,unique" json:"bootcampId"`
	Bootcamp   *Bootcamp `json:"bootcamp,omitempty"`
	UserID     string    `gorm:"type:uuid;not null;index:idx_review_bootcamp_user,unique" json:"userId"`
	User       *User     `json:"user,omitempty"`
}

func (r *Review) OwnerID() string { return r.UserID }
