package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carevillage/admin-api/internal/api/middleware"
)

// actorEmail returns the admin e-mail injected by the Auth middleware. Its
// absence means the route was wired without authentication.
func actorEmail(c echo.Context) (string, error) {
	email, _ := c.Get(middleware.ContextKeyEmail).(string)
	if email == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return email, nil
}

// bindAndValidate decodes the request into req and runs the struct
// validation. Both failures are client errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
