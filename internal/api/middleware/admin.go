package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/domain"
)

// AdminOnly lets through callers whose e-mail is on the allowlist. Everyone
// else gets the same 401 as an invalid token. It must run after Auth.
func AdminOnly(allowlist domain.Allowlist, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, _ := c.Get(ContextKeyEmail).(string)
			if !allowlist.Allows(email) {
				log.Warn().Str("email", email).Str("path", c.Path()).Msg("non-admin request rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			return next(c)
		}
	}
}
