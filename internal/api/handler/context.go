package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/kfcybersecurity/msp-portal/internal/api/middleware"
	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// ctxCaller returns the caller stored by the Auth middleware. A missing
// caller means the route was mounted without Auth.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	caller, _ := c.Get(middleware.CallerKey).(domain.Caller)
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return caller, nil
}

// bindAndValidate decodes the body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.InvalidInput("invalid payload")
	}
	return c.Validate(req)
}

type successResponse struct {
	Success bool `json:"success"`
}
