package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// RBAC lets the request through only when the caller's role is allowed.
// It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, _ := c.Get(CallerKey).(domain.Caller)
			if caller == nil {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[domain.RoleOf(caller)]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
