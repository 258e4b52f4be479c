package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_IssueAndValidate(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	accountID := uuid.New()

	token, err := jwtService.Issue(accountID, "user", time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, accountID.String(), claims.AccountID)
	assert.Equal(t, "user", claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	token, err := jwtService.Issue(uuid.New(), "user", -time.Minute)
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService("test-secret")
	other := NewJWTService("different-secret")

	token, err := issuer.Issue(uuid.New(), "user", time.Hour)
	assert.NoError(t, err)

	claims, err := other.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_GarbageToken(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	claims, err := jwtService.ValidateToken("not.a.token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_IndependentTokensDiffer(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	first, err := jwtService.Issue(uuid.New(), "user", time.Hour)
	assert.NoError(t, err)
	second, err := jwtService.Issue(uuid.New(), "admin", time.Hour)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}
