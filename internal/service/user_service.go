package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"userhub/internal/auth"
	"userhub/internal/cache"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// mysqlDuplicateEntry is the server error number for a unique-key violation.
const mysqlDuplicateEntry = 1062

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email        string
	Password     string
	Nickname     string
	Phone        string
	Image        string
	Introduction string
}

// UserService handles account lifecycle: registration, lookup,
// credential change, and one-way disablement.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error
	Disable(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	cache    *cache.Client
}

// NewUserService creates a new user lifecycle service.
func NewUserService(userRepo repository.UserRepository, hasher auth.PasswordHasher, cache *cache.Client) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		cache:    cache,
	}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("uh:user:%s", id.String())
}

// Register creates a new active account with a hashed password. The
// FindByEmail pre-check gives the friendly error path; the store's
// unique index is the authoritative guard against a concurrent create.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateAccount
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashed,
		Role:         "user",
		State:        model.StateActive,
		Nickname:     input.Nickname,
		Phone:        input.Phone,
		Image:        input.Image,
		Introduction: input.Introduction,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	return user, nil
}

// GetUser retrieves an account by id with read-through caching. The
// cached payload goes through the model's JSON form, so the password
// hash is never serialized.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}

	return user, nil
}

// ChangePassword hashes the new password and replaces the stored hash.
func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{"password_hash": hashed}); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// Disable transitions the account to the disabled state. Disabling an
// already-disabled account succeeds with no observable change. There is
// no path back to active.
func (s *userService) Disable(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	if user.State == model.StateDisabled {
		return nil
	}
	if !user.State.CanTransitionTo(model.StateDisabled) {
		return fmt.Errorf("invalid state transition from %q", user.State)
	}

	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{"state": model.StateDisabled}); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// isDuplicateKey recognizes unique-key violations from both GORM's
// translated error and the raw MySQL driver error.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
