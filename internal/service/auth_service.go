package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

// AuthService verifies credentials. Login issues a bearer token;
// VerifyPassword re-confirms a password for an already-identified
// account and issues nothing.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	VerifyPassword(ctx context.Context, id uuid.UUID, password string) error
}

type authService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	issuer   auth.TokenIssuer
	tokenTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, issuer auth.TokenIssuer, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		tokenTTL: tokenTTL,
	}
}

// Login authenticates by email and password and returns a signed token.
// The check order is a contract: existence, then state, then password.
// A disabled account is rejected before any password work so it cannot
// leak whether the password would have matched.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrAccountNotFound
		}
		return "", nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	if !user.State.CanLogin() {
		return "", nil, apperrors.ErrAccountDisabled
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		// a malformed stored hash is still "not authenticated"
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}

// VerifyPassword confirms the password for a known account id. Success
// means "credentials confirmed now" and nothing else: no token, no
// state change. Callers gate their own sensitive mutation on it.
func (s *authService) VerifyPassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := s.userRepo.FindPasswordHashByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// the caller claimed an id that does not exist
			return apperrors.ErrAccountNotFound
		}
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	ok, err := s.hasher.Verify(password, hash)
	if err != nil || !ok {
		return apperrors.ErrInvalidCredentials
	}

	return nil
}
