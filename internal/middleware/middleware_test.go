package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybook/flight-booking/internal/access"
	"github.com/skybook/flight-booking/internal/config"
	"github.com/skybook/flight-booking/internal/model"
	"github.com/skybook/flight-booking/internal/utils"
)

const secret = "test-secret"

func bearer(t *testing.T, id uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, id, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

// serve runs one request through JWTAuth plus mw and reports the caller
// role the final handler saw.
func serve(t *testing.T, method, auth string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, access.Role) {
	t.Helper()
	e := echo.New()
	var seen access.Role
	h := func(c echo.Context) error {
		seen = CallerRole(c)
		return c.NoContent(http.StatusNoContent)
	}
	e.Add(method, "/v1/thing", h, append([]echo.MiddlewareFunc{JWTAuth(secret)}, mw...)...)
	req := httptest.NewRequest(method, "/v1/thing", nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestJWTAuth(t *testing.T) {
	t.Run("no header is anonymous", func(t *testing.T) {
		rec, role := serve(t, http.MethodGet, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, access.Anonymous, role)
	})
	t.Run("customer", func(t *testing.T) {
		rec, role := serve(t, http.MethodGet, bearer(t, 3, model.RoleCustomer))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, access.Authenticated, role)
	})
	t.Run("staff", func(t *testing.T) {
		_, role := serve(t, http.MethodGet, bearer(t, 1, model.RoleStaff))
		assert.Equal(t, access.Staff, role)
	})
	t.Run("bad scheme", func(t *testing.T) {
		rec, _ := serve(t, http.MethodGet, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("bad token", func(t *testing.T) {
		rec, _ := serve(t, http.MethodGet, "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid token")
	})
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name   string
		method string
		res    access.Resource
		auth   func(t *testing.T) string
		want   int
	}{
		{"anonymous list flights", http.MethodGet, access.Flights, func(*testing.T) string { return "" }, http.StatusUnauthorized},
		{"customer list flights", http.MethodGet, access.Flights, func(t *testing.T) string { return bearer(t, 2, model.RoleCustomer) }, http.StatusNoContent},
		{"customer create flight", http.MethodPost, access.Flights, func(t *testing.T) string { return bearer(t, 2, model.RoleCustomer) }, http.StatusForbidden},
		{"staff create flight", http.MethodPost, access.Flights, func(t *testing.T) string { return bearer(t, 1, model.RoleStaff) }, http.StatusNoContent},
		{"customer delete flight", http.MethodDelete, access.Flights, func(t *testing.T) string { return bearer(t, 2, model.RoleCustomer) }, http.StatusForbidden},
		{"customer create order", http.MethodPost, access.Orders, func(t *testing.T) string { return bearer(t, 2, model.RoleCustomer) }, http.StatusNoContent},
		{"anonymous create order", http.MethodPost, access.Orders, func(*testing.T) string { return "" }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(t, tt.method, tt.auth(t), Authorize(tt.res))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	rec, _ := serve(t, http.MethodGet, "", RequireRole(model.RoleCustomer, model.RoleStaff))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, http.MethodGet, bearer(t, 2, model.RoleCustomer), RequireRole(model.RoleStaff))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(t, http.MethodGet, bearer(t, 1, model.RoleStaff), RequireRole(model.RoleStaff))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNewTokenBucket_DisabledPassesThrough(t *testing.T) {
	rec, _ := serve(t, http.MethodGet, "", NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/orders")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:POST /v1/orders", buildRateKey(cfg, c))

	c.Set(ctxUserID, uint64(9))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:9", buildRateKey(cfg, c))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(7), asInt64("7"))
	assert.Equal(t, int64(0), asInt64(nil))
}
