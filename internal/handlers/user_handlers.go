package handlers

import (
	"errors"
	"net/http"

	"scholaris/internal/common"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// Me handles GET /me. Returns the authenticated caller's own account.
func (h *UserHandlers) Me(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userService.GetUser(c.Request().Context(), tenantID, userID)
	if err != nil {
		return common.SendNotFoundError(c, "user")
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /users.
func (h *UserHandlers) CreateUser(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	req.TenantID = tenantID
	req.ActorID = userID

	user, err := h.userService.CreateUser(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return common.SendConflictError(c, "email is already in use")
		case errors.Is(err, services.ErrUnknownRole):
			return common.SendValidationError(c, "role", err.Error())
		}
		return common.SendServerError(c, "failed to create user")
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /users/:id.
func (h *UserHandlers) GetUser(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.GetUser(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "user")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /users/:id.
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req services.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	req.UserID = id
	req.ActorID = userID

	user, err := h.userService.UpdateUser(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUnknownRole) {
			return common.SendValidationError(c, "role", err.Error())
		}
		return common.SendServerError(c, "failed to update user")
	}
	return c.JSON(http.StatusOK, user)
}

// DeactivateUser handles DELETE /users/:id.
func (h *UserHandlers) DeactivateUser(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.DeactivateUser(c.Request().Context(), tenantID, id, userID); err != nil {
		return common.SendServerError(c, "failed to deactivate user")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers handles GET /users.
func (h *UserHandlers) ListUsers(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	users, err := h.userService.ListUsers(c.Request().Context(), tenantID, c.QueryParam("role"), limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrUnknownRole) {
			return common.SendValidationError(c, "role", err.Error())
		}
		return common.SendServerError(c, "failed to list users")
	}
	return c.JSON(http.StatusOK, users)
}
