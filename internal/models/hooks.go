package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (b *Bootcamp) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Slug == "" {
		b.Slug = Slugify(b.Name)
	}
	return nil
}

func (b *Bootcamp) BeforeUpdate(tx *gorm.DB) error {
	if b.Name != "" {
		b.Slug = Slugify(b.Name)
	}
	return nil
}

// AfterFind resolves the stored photo key into a signed URL when a photo
// storage backend has been registered.
func (b *Bootcamp) AfterFind(tx *gorm.DB) error {
	registryMu.RLock()
	generator := photoURLGenerator
	registryMu.RUnlock()

	if generator == nil || b.Photo == "" || b.Photo == DefaultPhoto {
		return nil
	}

	url, err := generator.GetSignedURL(tx.Statement.Context, b.Photo, photoURLTTL)
	if err != nil {
		// Best effort: a broken storage backend must not fail reads.
		log.Warn("failed to sign photo URL for bootcamp %s: %v", b.ID, err)
		return nil
	}
	b.PhotoURL = url
	return nil
}

// Slugify lowercases a name and replaces runs of non-alphanumeric characters
// with single dashes.
func Slugify(name string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
