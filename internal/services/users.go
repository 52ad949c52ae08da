package services

import (
	"context"

	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/utils/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService backs the admin-only user management endpoints.
type UserService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, log: logger.New("UserService")}
}

func (s *UserService) List(ctx context.Context, opts *query.Options) (*ListResult[models.User], error) {
	return ListAdvanced[models.User](ctx, s.db, opts)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, user *models.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if user.Role == "" {
		user.Role = models.UserRoleUser
	}
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserService) Update(ctx context.Context, id string, updates *models.User) (*models.User, error) {
	if err := s.db.WithContext(ctx).Model(&models.User{Base: models.Base{ID: id}}).
		Omit("id", "password").
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	// Session rows die with the user so stale tokens stop working.
	if err := s.db.WithContext(ctx).Delete(&models.AuthTransaction{}, "user_id = ?", id).Error; err != nil {
		s.log.Warn("failed to drop sessions for user %s: %v", id, err)
	}
	return s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}
