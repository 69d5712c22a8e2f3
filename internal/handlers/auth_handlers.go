package handlers

import (
	"errors"
	"net/http"

	"scholaris/internal/common"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Signup handles POST /auth/signup. Provisions a new school tenant with
// its first TENANT_ADMIN user.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req services.SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := common.ValidateSubdomain(req.Subdomain); err != nil {
		return common.SendValidationError(c, "subdomain", err.Error())
	}

	tokens, err := h.authService.Signup(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrSubdomainTaken) {
			return common.SendConflictError(c, "subdomain is already in use")
		}
		return common.SendServerError(c, "failed to create school")
	}
	return c.JSON(http.StatusCreated, tokens)
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		TOTPCode string `json:"totp_code,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, req.TOTPCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidTOTP):
			return common.SendUnauthorizedError(c)
		case errors.Is(err, services.ErrUserInactive):
			return common.SendForbiddenError(c, "account is inactive")
		default:
			return common.SendServerError(c, "login failed")
		}
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh. The presented refresh token is
// rotated: it stops working whether or not the exchange succeeds.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	tokens, err := h.authService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout.
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := h.authService.RevokeRefreshToken(c.Request().Context(), req.RefreshToken); err != nil {
		return common.SendServerError(c, "failed to revoke token")
	}
	return c.NoContent(http.StatusNoContent)
}

// Enroll2FA handles POST /auth/2fa/enroll. Returns the otpauth URL the
// client renders as a QR code; 2FA stays off until activation.
func (h *AuthHandlers) Enroll2FA(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	otpauthURL, err := h.authService.Enroll2FA(c.Request().Context(), tenantID, userID, req.Email)
	if err != nil {
		return common.SendServerError(c, "failed to start 2fa enrollment")
	}
	return c.JSON(http.StatusOK, map[string]string{"otpauth_url": otpauthURL})
}

// Activate2FA handles POST /auth/2fa/activate.
func (h *AuthHandlers) Activate2FA(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Code string `json:"code" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.authService.Activate2FA(c.Request().Context(), tenantID, userID, req.Code); err != nil {
		if errors.Is(err, services.ErrInvalidTOTP) {
			return common.SendClientError(c, "invalid verification code")
		}
		return common.SendServerError(c, "failed to activate 2fa")
	}
	return c.NoContent(http.StatusNoContent)
}
