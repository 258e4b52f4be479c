package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"userhub/internal/model"
)

// UserRepository defines account persistence operations. Email uniqueness
// and per-row atomicity are enforced by the store, not checked here.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindPasswordHashByID(ctx context.Context, id uuid.UUID) (string, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row. A duplicate email surfaces as the
// driver's unique-key violation.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindPasswordHashByID loads only the stored password hash for an id.
func (r *userRepository) FindPasswordHashByID(ctx context.Context, id uuid.UUID) (string, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Select("password_hash").Where("id = ?", id).First(&user).Error; err != nil {
		return "", err
	}
	return user.PasswordHash, nil
}

// UpdateFields applies a partial update to the user row.
func (r *userRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}
