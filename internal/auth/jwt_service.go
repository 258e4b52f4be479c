package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DefaultTokenTTL matches the original token lifetime of one day.
const DefaultTokenTTL = 24 * time.Hour

// Claims represents the identity claims embedded in an issued token.
type Claims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints a signed, time-bound bearer token for a verified
// account. Issued tokens are owned by the caller; the service keeps no
// reference to them.
type TokenIssuer interface {
	Issue(accountID uuid.UUID, role string, ttl time.Duration) (string, error)
}

// JWTService handles JWT issuance and validation.
type JWTService struct {
	secret []byte
}

// Ensure JWTService implements TokenIssuer
var _ TokenIssuer = (*JWTService)(nil)

// NewJWTService creates a new JWT service with the given signing key.
// The key is validated at startup by config; an empty key never reaches
// here in a running process.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// Issue mints an HS256-signed token carrying the account id and role,
// expiring at now+ttl.
func (s *JWTService) Issue(accountID uuid.UUID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID: accountID.String(),
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and validates a token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
