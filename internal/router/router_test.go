package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybook/flight-booking/internal/booking"
	"github.com/skybook/flight-booking/internal/config"
	"github.com/skybook/flight-booking/internal/handler"
	"github.com/skybook/flight-booking/internal/middleware"
	"github.com/skybook/flight-booking/internal/model"
	"github.com/skybook/flight-booking/internal/repository"
	"github.com/skybook/flight-booking/internal/utils"
)

const secret = "router-secret"

// newServer wires every route against repositories backed by sqlmock.
func newServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	flights := repository.NewFlightRepo(db)
	orders := repository.NewOrderRepo(db)
	h := Handlers{
		Auth: handler.NewAuthHandler(config.Config{JWTSecret: secret, AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: 4},
			repository.NewUserRepo(db), repository.NewTokenRepo(db)),
		Fleet: handler.NewFleetHandler(repository.NewAirlineRepo(db), repository.NewAirplaneTypeRepo(db),
			repository.NewAirplaneRepo(db)),
		Geography: handler.NewGeographyHandler(repository.NewCountryRepo(db), repository.NewCityRepo(db),
			repository.NewAirportRepo(db), repository.NewRouteRepo(db)),
		Flights: handler.NewFlightHandler(repository.NewCrewRepo(db), repository.NewMealRepo(db), flights),
		Orders:  handler.NewOrderHandler(orders, booking.NewOrderService(db, flights, orders), nil),
		Ready:   handler.Ready(db),
	}

	e := echo.New()
	RegisterRoutes(e, h)
	v1 := e.Group("/v1", middleware.JWTAuth(secret))
	RegisterAuth(v1, h.Auth)
	RegisterAPI(v1, h)
	return e, mock
}

func token(t *testing.T, id uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, id, role, 5)
	require.NoError(t, err)
	return tok.Token
}

func do(e *echo.Echo, method, path, tok, payload string) *httptest.ResponseRecorder {
	var req *http.Request
	if payload == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProbes(t *testing.T) {
	e, _ := newServer(t)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/readyz", "", "").Code)
}

func TestAnonymousCannotListFlights(t *testing.T) {
	e, _ := newServer(t)
	rec := do(e, http.MethodGet, "/v1/flights", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCustomerReadsButCannotWriteCatalogue(t *testing.T) {
	e, mock := newServer(t)
	customer := token(t, 2, model.RoleCustomer)

	mock.ExpectQuery(`FROM flights f`).WillReturnRows(sqlmock.NewRows([]string{
		"id", "route_id", "airplane_id", "dep", "arr",
		"source_id", "destination_id", "distance", "s", "d",
		"a", "rows", "seats", "airline", "type", "issued",
	}))
	rec := do(e, http.MethodGet, "/v1/flights", customer, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(e, http.MethodPost, "/v1/flights", customer,
		`{"route":1,"airplane":1,"departure_time":"2026-09-01T08:00:00Z","arrival_time":"2026-09-01T10:00:00Z"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPost, "/v1/countries", customer, `{"name":"Ukraine"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStaffCreatesFlight(t *testing.T) {
	e, mock := newServer(t)
	dep := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO flights`).WithArgs(1, 1, dep, dep.Add(2*time.Hour)).WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(`DELETE FROM flight_crew`).WithArgs(12).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	rec := do(e, http.MethodPost, "/v1/flights", token(t, 1, model.RoleStaff),
		`{"route":1,"airplane":1,"departure_time":"2026-09-01T08:00:00Z","arrival_time":"2026-09-01T10:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(12), got["id"])
}

func TestOrderOutOfRangeRow(t *testing.T) {
	e, mock := newServer(t)
	mock.ExpectQuery(`SELECT a.rows_count, a.seats_in_row FROM flights f`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"rows_count", "seats_in_row"}).AddRow(30, 8))

	rec := do(e, http.MethodPost, "/v1/orders", token(t, 2, model.RoleCustomer),
		`{"tickets":[{"row":31,"seat":1,"flight":1,"meal":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"error":"row number must be in available range: (1, rows): (1, 30)","field":"row","ticket":0}`,
		rec.Body.String())
}

func TestOrdersAreScopedToOwner(t *testing.T) {
	e, mock := newServer(t)
	mock.ExpectQuery(`FROM orders WHERE id = \? AND user_id = \?`).WithArgs(5, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}))

	rec := do(e, http.MethodGet, "/v1/orders/5", token(t, 3, model.RoleCustomer), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderListIsScopedToCaller(t *testing.T) {
	e, mock := newServer(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE user_id = \?`).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM orders WHERE user_id = \? ORDER BY`).WithArgs(4, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}))

	rec := do(e, http.MethodGet, "/v1/orders", token(t, 4, model.RoleCustomer), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"page":1,"page_size":10,"results":[]}`, rec.Body.String())
}

func TestMeRequiresToken(t *testing.T) {
	e, _ := newServer(t)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/me", "garbage", "").Code)
}
