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

const earthRadiusMiles = 3963.0

type BootcampService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBootcampService(db *gorm.DB) *BootcampService {
	return &BootcampService{db: db, log: logger.New("BootcampService")}
}

func (s *BootcampService) List(ctx context.Context, opts *query.Options) (*ListResult[models.Bootcamp], error) {
	return ListAdvanced[models.Bootcamp](ctx, s.db, opts)
}

func (s *BootcampService) Get(ctx context.Context, id string) (*models.Bootcamp, error) {
	var bootcamp models.Bootcamp
	if err := s.db.WithContext(ctx).First(&bootcamp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bootcamp, nil
}

// Create inserts a bootcamp owned by the caller. Non-admin identities may
// own at most one bootcamp; the check and the insert are two store calls
// and are deliberately not transactional, so concurrent creates can race.
func (s *BootcampService) Create(ctx context.Context, identity access.Identity, bootcamp *models.Bootcamp) error {
	bootcamp.UserID = identity.ID

	if !identity.IsAdmin() {
		var owned int64
		if err := s.db.WithContext(ctx).Model(&models.Bootcamp{}).
			Where("user_id = ?", identity.ID).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return access.Denied(access.ReasonQuotaExceeded)
		}
	}

	if err := s.db.WithContext(ctx).Create(bootcamp).Error; err != nil {
		return err
	}

	events.Emit("bootcamp.created", bootcamp.ID)
	return nil
}

// Update applies a column patch. Map updates let callers clear boolean
// flags, which struct updates would silently skip.
func (s *BootcampService) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Bootcamp, error) {
	if err := s.db.WithContext(ctx).Model(&models.Bootcamp{Base: models.Base{ID: id}}).
		Omit("id", "user_id", "average_rating", "average_cost").
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *BootcampService) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Select("Courses", "Reviews").
		Delete(&models.Bootcamp{Base: models.Base{ID: id}}).Error; err != nil {
		return err
	}
	events.Emit("bootcamp.deleted", id)
	return nil
}

// WithinRadius finds bootcamps whose location falls inside the given radius
// (miles) around a point, using a haversine predicate over the denormalized
// lat/lng columns. All inputs are bound parameters.
func (s *BootcampService) WithinRadius(ctx context.Context, lat, lng, miles float64) ([]models.Bootcamp, error) {
	var bootcamps []models.Bootcamp
	distance := `(? * acos(
		cos(radians(?)) * cos(radians(location_lat)) * cos(radians(location_lng) - radians(?)) +
		sin(radians(?)) * sin(radians(location_lat))
	))`
	err := s.db.WithContext(ctx).
		Where(distance+" <= ?", earthRadiusMiles, lat, lng, lat, miles).
		Find(&bootcamps).Error
	if err != nil {
		return nil, err
	}
	return bootcamps, nil
}

// UpdatePhoto patches only the photo key. Callers treat failures as a
// logged side effect, not a request failure.
func (s *BootcampService) UpdatePhoto(ctx context.Context, id, photo string) error {
	return s.db.WithContext(ctx).Model(&models.Bootcamp{}).
		Where("id = ?", id).Update("photo", photo).Error
}
