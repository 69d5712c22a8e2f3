package handlers

import (
	"scholaris/internal/authz"
	"scholaris/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// identity bundles the authenticated caller for handlers that need all of
// it. Returns false (and writes the 401) when the JWT middleware did not
// run.
func identity(c echo.Context) (tenantID, userID uuid.UUID, role string, ok bool) {
	ctx := c.Request().Context()
	tenantID, ok = common.GetTenantIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, ok = common.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, "", false
	}
	role, ok = common.GetRoleFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, "", false
	}
	return tenantID, userID, role, true
}

func isAdmin(role string) bool {
	return role == string(authz.RoleSuperAdmin) || role == string(authz.RoleTenantAdmin)
}

// pathUUID parses the named path parameter as a UUID, writing the 400
// response itself on failure.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, common.SendValidationError(c, name, err.Error())
	}
	return id, nil
}

// queryUUID parses an optional UUID query parameter. A missing parameter
// yields nil with no error.
func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(raw, name)
	if err != nil {
		return nil, common.SendValidationError(c, name, err.Error())
	}
	return &id, nil
}
