package middleware

import (
	"campdir/internal/access"

	"github.com/labstack/echo/v4"
)

// Authorize gates a route on the caller's role. It must run after the auth
// middleware; denials go to the central error handler for translation.
func Authorize(roles ...access.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := GetIdentity(c)
			if err := access.RequireRole(identity, roles...).Err(); err != nil {
				return err
			}
			return next(c)
		}
	}
}
