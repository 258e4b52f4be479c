package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
)

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository, *MockPasswordHasher)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Email: "new@example.com", Password: "password123", Nickname: "Newbie"},
			setupMock: func(mRepo *MockUserRepository, mHasher *MockPasswordHasher) {
				mRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				mHasher.On("Hash", "password123").Return("$2a$10$hashed", nil)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "duplicate email caught by pre-check",
			input: RegisterInput{Email: "taken@example.com", Password: "password123"},
			setupMock: func(mRepo *MockUserRepository, mHasher *MockPasswordHasher) {
				mRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateAccount,
		},
		{
			name:  "duplicate email caught by unique index",
			input: RegisterInput{Email: "raced@example.com", Password: "password123"},
			setupMock: func(mRepo *MockUserRepository, mHasher *MockPasswordHasher) {
				mRepo.On("FindByEmail", mock.Anything, "raced@example.com").Return(nil, gorm.ErrRecordNotFound)
				mHasher.On("Hash", "password123").Return("$2a$10$hashed", nil)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateAccount,
		},
		{
			name:  "hashing failure aborts before create",
			input: RegisterInput{Email: "new@example.com", Password: "password123"},
			setupMock: func(mRepo *MockUserRepository, mHasher *MockPasswordHasher) {
				mRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				mHasher.On("Hash", "password123").Return("", apperrors.ErrHashingFailure)
			},
			expectedError: apperrors.ErrHashingFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockHasher := new(MockPasswordHasher)
			tt.setupMock(mockRepo, mockHasher)

			svc := NewUserService(mockRepo, mockHasher, nil)
			user, err := svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError))
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.input.Email, user.Email)
				assert.Equal(t, "$2a$10$hashed", user.PasswordHash)
				assert.Equal(t, "user", user.Role)
				assert.Equal(t, model.StateActive, user.State)
			}

			if errors.Is(tt.expectedError, apperrors.ErrDuplicateAccount) && tt.name == "duplicate email caught by pre-check" {
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}

			mockRepo.AssertExpectations(t)
			mockHasher.AssertExpectations(t)
		})
	}
}

func TestUserService_GetUser(t *testing.T) {
	accountID := uuid.New()

	t.Run("found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, accountID).Return(&model.User{
			ID:    accountID,
			Email: "test@example.com",
			State: model.StateActive,
		}, nil)

		svc := NewUserService(mockRepo, new(MockPasswordHasher), nil)
		user, err := svc.GetUser(context.Background(), accountID)

		assert.NoError(t, err)
		assert.Equal(t, accountID, user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, accountID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(mockRepo, new(MockPasswordHasher), nil)
		user, err := svc.GetUser(context.Background(), accountID)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrAccountNotFound))
		assert.Nil(t, user)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	accountID := uuid.New()

	t.Run("replaces stored hash", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockHasher := new(MockPasswordHasher)
		mockRepo.On("FindByID", mock.Anything, accountID).Return(&model.User{ID: accountID, State: model.StateActive}, nil)
		mockHasher.On("Hash", "new-password").Return("$2a$10$new-hash", nil)
		mockRepo.On("UpdateFields", mock.Anything, accountID, map[string]interface{}{"password_hash": "$2a$10$new-hash"}).Return(nil)

		svc := NewUserService(mockRepo, mockHasher, nil)
		err := svc.ChangePassword(context.Background(), accountID, "new-password")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockHasher.AssertExpectations(t)
	})

	t.Run("unknown account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, accountID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(mockRepo, new(MockPasswordHasher), nil)
		err := svc.ChangePassword(context.Background(), accountID, "new-password")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrAccountNotFound))
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_Disable(t *testing.T) {
	accountID := uuid.New()

	t.Run("disables active account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, accountID).Return(&model.User{ID: accountID, State: model.StateActive}, nil)
		mockRepo.On("UpdateFields", mock.Anything, accountID, map[string]interface{}{"state": model.StateDisabled}).Return(nil)

		svc := NewUserService(mockRepo, new(MockPasswordHasher), nil)
		err := svc.Disable(context.Background(), accountID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("already disabled succeeds without a write", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, accountID).Return(&model.User{ID: accountID, State: model.StateDisabled}, nil)

		svc := NewUserService(mockRepo, new(MockPasswordHasher), nil)
		err := svc.Disable(context.Background(), accountID)

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, accountID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(mockRepo, new(MockPasswordHasher), nil)
		err := svc.Disable(context.Background(), accountID)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrAccountNotFound))
	})
}

// memoryUserRepo is a minimal in-memory repository for lifecycle tests
// that exercise the real hasher and token issuer end to end.
type memoryUserRepo struct {
	byID    map[uuid.UUID]*model.User
	byEmail map[string]*model.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	clone := *user
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	return nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) FindPasswordHashByID(ctx context.Context, id uuid.UUID) (string, error) {
	user, ok := r.byID[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return user.PasswordHash, nil
}

func (r *memoryUserRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	user, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if hash, ok := fields["password_hash"]; ok {
		user.PasswordHash = hash.(string)
	}
	if state, ok := fields["state"]; ok {
		user.State = state.(model.AccountState)
	}
	return nil
}

// Full lifecycle: register, log in, disable, then watch login fail.
func TestAccountLifecycle(t *testing.T) {
	repo := newMemoryUserRepo()
	hasher := auth.NewBcryptHasher(4)
	issuer := auth.NewJWTService("test-secret")

	users := NewUserService(repo, hasher, nil)
	auths := NewAuthService(repo, hasher, issuer, auth.DefaultTokenTTL)
	ctx := context.Background()

	user, err := users.Register(ctx, RegisterInput{Email: "life@example.com", Password: "password123"})
	assert.NoError(t, err)
	assert.Equal(t, model.StateActive, user.State)

	token, got, err := auths.Login(ctx, "life@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	claims, err := issuer.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.AccountID)

	assert.NoError(t, auths.VerifyPassword(ctx, user.ID, "password123"))
	assert.ErrorIs(t, auths.VerifyPassword(ctx, user.ID, "wrong"), apperrors.ErrInvalidCredentials)

	assert.NoError(t, users.Disable(ctx, user.ID))

	_, _, err = auths.Login(ctx, "life@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)

	// idempotent second disable
	assert.NoError(t, users.Disable(ctx, user.ID))

	// already-issued token stays valid until it expires
	claims, err = issuer.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.AccountID)
}
