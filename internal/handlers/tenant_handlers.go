package handlers

import (
	"net/http"

	"scholaris/internal/authz"
	"scholaris/internal/common"
	"scholaris/internal/models"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type TenantHandlers struct {
	tenantService services.TenantService
}

func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

// GetSettings handles GET /tenant/settings.
func (h *TenantHandlers) GetSettings(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	settings, err := h.tenantService.GetSettings(c.Request().Context(), tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to load settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /tenant/settings.
func (h *TenantHandlers) UpdateSettings(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var settings models.TenantSettings
	if err := c.Bind(&settings); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	updated, err := h.tenantService.UpdateSettings(c.Request().Context(), tenantID, settings, userID)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

// GetTenant handles GET /tenant.
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenant, err := h.tenantService.GetTenant(c.Request().Context(), tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to load school")
	}
	return c.JSON(http.StatusOK, tenant)
}

// ListTenants handles GET /platform/tenants. The listing crosses tenant
// boundaries, so only SUPER_ADMIN may call it; TENANT_ADMIN's policy
// bypass does not extend to platform scope.
func (h *TenantHandlers) ListTenants(c echo.Context) error {
	_, _, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	if role != string(authz.RoleSuperAdmin) {
		return common.SendForbiddenError(c, "platform listings require SUPER_ADMIN")
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	tenants, err := h.tenantService.ListTenants(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list schools")
	}
	return c.JSON(http.StatusOK, tenants)
}
