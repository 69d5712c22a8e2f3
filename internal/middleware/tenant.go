package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"scholaris/internal/caching"
	"scholaris/internal/common"
	"scholaris/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PublicTenantKey is the echo context key the resolved tenant is stored
// under for unauthenticated public-site routes.
const PublicTenantKey = "public_tenant_id"

// ResolveTenant maps the request's subdomain (or an explicit X-Tenant
// header, which wins for API clients) to a tenant for public routes.
func ResolveTenant(tenantSvc services.TenantService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subdomain := strings.TrimSpace(c.Request().Header.Get("X-Tenant"))
			if subdomain == "" {
				subdomain = subdomainFromHost(c.Request().Host)
			}
			if subdomain == "" {
				return echo.NewHTTPError(http.StatusNotFound, "unknown school")
			}

			tenant, err := tenantSvc.GetTenantBySubdomain(c.Request().Context(), subdomain)
			if err != nil {
				return common.SendServerError(c, "failed to resolve school")
			}
			if tenant == nil {
				return echo.NewHTTPError(http.StatusNotFound, "unknown school")
			}

			c.Set(PublicTenantKey, tenant.ID)
			return next(c)
		}
	}
}

// PublicTenantID reads the tenant resolved by ResolveTenant.
func PublicTenantID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(PublicTenantKey).(uuid.UUID)
	return id, ok
}

func subdomainFromHost(host string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return ""
	}
	return strings.ToLower(parts[0])
}

// RateLimit caps requests per client IP per route over the window. Backed
// by a redis counter; a cache failure lets the request through.
func RateLimit(cache caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("ratelimit:%s:%s", c.Path(), c.RealIP())
			limited, err := cache.IsRateLimited(c.Request().Context(), key, limit, window)
			if err == nil && limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
