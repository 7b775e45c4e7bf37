package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RBAC is a route-level guard for handlers that need a role requirement
// tighter than the global policy. Anonymous requests get 401, identities
// without any of the allowed roles get 403.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, denialResponse{
					Error:     "unauthorized",
					Message:   "missing or invalid bearer token",
					Timestamp: time.Now().UnixMilli(),
					Path:      c.Request().URL.Path,
				})
			}
			if len(allowedRoles) > 0 && !id.HasAnyAuthority(allowedRoles...) {
				return c.JSON(http.StatusForbidden, denialResponse{
					Error:     "forbidden",
					Message:   "insufficient permissions",
					Timestamp: time.Now().UnixMilli(),
					Path:      c.Request().URL.Path,
				})
			}
			return next(c)
		}
	}
}
