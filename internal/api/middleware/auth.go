package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// Context keys set by Auth.
const (
	CallerKey = "caller"
	TokenKey  = "token"
)

// Auth resolves the bearer token into a caller and stores it on the context.
// Authentication failures are returned as errors for the central handler.
func Auth(authn ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			token := strings.TrimSpace(parts[1])

			caller, err := authn.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(CallerKey, caller)
			c.Set(TokenKey, token)
			return next(c)
		}
	}
}
