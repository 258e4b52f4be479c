package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "userhub/internal/errors"
	"userhub/internal/metrics"
	"userhub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyPasswordRequest represents a password reauthorization request.
type VerifyPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        interface{} `json:"user,omitempty"`
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		metrics.IncLogin("bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		metrics.IncLogin("bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAccountNotFound), errors.Is(err, apperrors.ErrInvalidCredentials):
			// unknown email and wrong password are indistinguishable
			// to the caller; the error kinds stay distinct internally
			if errors.Is(err, apperrors.ErrAccountNotFound) {
				metrics.IncLogin("unknown_account")
			} else {
				metrics.IncLogin("invalid_credentials")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "invalid email or password",
				Code:  "INVALID_CREDENTIALS",
			})
		case errors.Is(err, apperrors.ErrAccountDisabled):
			metrics.IncLogin("account_disabled")
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "account is disabled",
				Code:  "ACCOUNT_DISABLED",
			})
		default:
			metrics.IncLogin("internal_error")
			httpErr := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}

	metrics.IncLogin("success")
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        user,
	})
}

// VerifyPassword godoc
// @Summary Re-confirm the password for an authenticated account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body VerifyPasswordRequest true "Current password"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id}/verify-password [post]
func (h *AuthHandler) VerifyPassword(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid account ID",
			Code:  "INVALID_UUID",
		})
	}

	var req VerifyPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.VerifyPassword(c.Request().Context(), id, req.Password); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAccountNotFound):
			// the caller presented an id that should not exist for them
			metrics.IncReauth("unknown_account")
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "forbidden",
				Code:  "FORBIDDEN",
			})
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			metrics.IncReauth("invalid_credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "password does not match",
				Code:  "INVALID_CREDENTIALS",
			})
		default:
			metrics.IncReauth("internal_error")
			httpErr := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}

	metrics.IncReauth("success")
	return c.NoContent(http.StatusNoContent)
}
