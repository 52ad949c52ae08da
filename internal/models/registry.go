package models

import (
	"context"
	"sync"
	"time"

	"campdir/internal/utils/logger"
)

const DefaultPhoto = "no-photo.jpg"

const photoURLTTL = time.Hour

var log = logger.New("MODELS")

// PhotoURLGenerator interface for generating signed photo URLs
type PhotoURLGenerator interface {
	GetSignedURL(ctx context.Context, key string, duration time.Duration) (string, error)
}

var (
	photoURLGenerator PhotoURLGenerator
	registryMu        sync.RWMutex
)

// RegisterPhotoURLGenerator sets the URL generator used by Bootcamp.AfterFind
func RegisterPhotoURLGenerator(generator PhotoURLGenerator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	photoURLGenerator = generator
}
