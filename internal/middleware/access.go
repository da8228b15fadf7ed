package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-booking/internal/access"
)

// Authorize enforces the access policy for one collection before the
// handler runs.  Anonymous callers get 401, authenticated callers lacking
// the role get 403.
func Authorize(res access.Resource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := CallerRole(c)
			if access.Allowed(role, res, access.OperationFor(c.Request().Method)) {
				return next(c)
			}
			if role == access.Anonymous {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication credentials were not provided"})
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not have permission to perform this action"})
		}
	}
}
