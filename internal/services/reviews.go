package services

import (
	"context"
	"errors"

	"campdir/internal/access"
	"campdir/internal/events"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/utils/logger"

	"gorm.io/gorm"
)

// ErrAlreadyReviewed is returned when an identity submits a second review
// for the same bootcamp.
var ErrAlreadyReviewed = errors.New("bootcamp already reviewed by this user")

type ReviewService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db, log: logger.New("ReviewService")}
}

func (s *ReviewService) List(ctx context.Context, opts *query.Options) (*ListResult[models.Review], error) {
	return ListAdvanced[models.Review](ctx, s.db, opts)
}

// ListByBootcamp returns every review of one bootcamp, unfiltered and
// unpaginated, mirroring the course behaviour for parent-scoped paths.
func (s *ReviewService) ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.WithContext(ctx).Where("bootcamp_id = ?", bootcampID).Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).Preload("Bootcamp").First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Create adds a review to a bootcamp. One review per user per bootcamp; the
// pre-check races with the insert but a unique index backstops it.
func (s *ReviewService) Create(ctx context.Context, identity access.Identity, bootcampID string, review *models.Review) error {
	if _, err := models.GetBootcampByID(bootcampID, s.db.WithContext(ctx)); err != nil {
		return err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("bootcamp_id = ? AND user_id = ?", bootcampID, identity.ID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return ErrAlreadyReviewed
	}

	review.BootcampID = bootcampID
	review.UserID = identity.ID

	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return err
	}

	events.Emit("review.created", review.BootcampID)
	return nil
}

func (s *ReviewService) Update(ctx context.Context, id string, updates *models.Review) (*models.Review, error) {
	if err := s.db.WithContext(ctx).Model(&models.Review{Base: models.Base{ID: id}}).
		Omit("id", "user_id", "bootcamp_id").
		Updates(updates).Error; err != nil {
		return nil, err
	}

	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	events.Emit("review.updated", review.BootcampID)
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, review *models.Review) error {
	if err := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", review.ID).Error; err != nil {
		return err
	}

	events.Emit("review.deleted", review.BootcampID)
	return nil
}
