package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateAccount is returned when registering an email already on file.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrAccountNotFound is returned when a lookup by email or id found nothing.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountDisabled is returned when logging in against a non-active account.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrInvalidCredentials is returned on a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrHashingFailure is returned when the hash transform itself failed.
	ErrHashingFailure = errors.New("password hashing failed")
	// ErrMalformedHash is returned when a stored hash cannot be parsed.
	// Callers must still treat the credentials as not authenticated.
	ErrMalformedHash = errors.New("malformed password hash")
	// ErrStoreUnavailable is returned when the account store failed; never
	// retried internally, always propagated.
	ErrStoreUnavailable = errors.New("account store unavailable")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Error identity lives
// in the sentinels above; status codes and user-facing messages are
// decided here, at the boundary, and nowhere else.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrDuplicateAccount):
		return NewHTTPError(http.StatusConflict, err.Error(), "ACCOUNT_ALREADY_EXISTS")
	case errors.Is(err, ErrAccountNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ACCOUNT_NOT_FOUND")
	case errors.Is(err, ErrAccountDisabled):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_DISABLED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrStoreUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, "account store unavailable", "STORE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
