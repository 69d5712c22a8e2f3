package middleware

import (
	"scholaris/internal/authz"
	"scholaris/internal/common"

	"github.com/labstack/echo/v4"
)

// Require enforces the role policy for one resource/action pair. It runs
// after the JWT middleware, so a missing identity means the route was wired
// without authentication and is refused outright.
func Require(resource authz.Resource, action authz.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			role, ok := common.GetRoleFromContext(ctx)
			if !ok {
				return common.SendUnauthorizedError(c)
			}

			decision := authz.Allow(authz.Role(role), resource, action)
			if !decision.Allowed {
				return common.SendForbiddenError(c, decision.Reason)
			}
			return next(c)
		}
	}
}
