package services

import (
	"context"

	"campdir/internal/access"
	"campdir/internal/events"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/utils/logger"

	"gorm.io/gorm"
)

type CourseService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db, log: logger.New("CourseService")}
}

func (s *CourseService) List(ctx context.Context, opts *query.Options) (*ListResult[models.Course], error) {
	return ListAdvanced[models.Course](ctx, s.db, opts)
}

// ListByBootcamp returns every course of one bootcamp, unfiltered and
// unpaginated. Parent-scoped listings intentionally bypass the advanced
// query path.
func (s *CourseService) ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Where("bootcamp_id = ?", bootcampID).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := s.db.WithContext(ctx).Preload("Bootcamp").First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// Create adds a course to a bootcamp. The bootcamp must exist, and only its
// owner (or an admin) may attach courses to it.
func (s *CourseService) Create(ctx context.Context, identity access.Identity, bootcampID string, course *models.Course) error {
	bootcamp, err := models.GetBootcampByID(bootcampID, s.db.WithContext(ctx))
	if err != nil {
		return err
	}

	if decision := access.RequireOwner(identity, bootcamp); !decision.Allowed {
		return decision.Err()
	}

	course.BootcampID = bootcamp.ID
	course.UserID = identity.ID

	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return err
	}

	events.Emit("course.created", course.BootcampID)
	return nil
}

func (s *CourseService) Update(ctx context.Context, id string, updates *models.Course) (*models.Course, error) {
	if err := s.db.WithContext(ctx).Model(&models.Course{Base: models.Base{ID: id}}).
		Omit("id", "user_id", "bootcamp_id").
		Updates(updates).Error; err != nil {
		return nil, err
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	events.Emit("course.updated", course.BootcampID)
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, course *models.Course) error {
	if err := s.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", course.ID).Error; err != nil {
		return err
	}

	events.Emit("course.deleted", course.BootcampID)
	return nil
}
