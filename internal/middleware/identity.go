package middleware

// identity.go holds the context keys written by JWTAuth and the helpers
// that read them back.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-booking/internal/access"
	"github.com/skybook/flight-booking/internal/model"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// CallerRole maps the authenticated account role onto the access policy
// roles.  Requests without a verified token are anonymous.
func CallerRole(c echo.Context) access.Role {
	if _, ok := c.Get(ctxUserID).(uint64); !ok {
		return access.Anonymous
	}
	if role, _ := c.Get(ctxRole).(string); role == model.RoleStaff {
		return access.Staff
	}
	return access.Authenticated
}

// userID returns the caller id as a string for rate limit keys, or "anon".
func userID(c echo.Context) string {
	if id, ok := c.Get(ctxUserID).(uint64); ok && id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
