package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/skybook/flight-booking/internal/booking"
	"github.com/skybook/flight-booking/internal/repository"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   body
	}{
		{
			name:   "validation on a ticket",
			err:    &booking.ValidationError{Field: "seat", Message: "bad seat", Index: 2},
			status: http.StatusBadRequest,
			want:   body{"error": "bad seat", "field": "seat", "ticket": float64(2)},
		},
		{
			name:   "validation on the request",
			err:    &booking.ValidationError{Field: "tickets", Message: "at least one ticket required", Index: -1},
			status: http.StatusBadRequest,
			want:   body{"error": "at least one ticket required", "field": "tickets"},
		},
		{
			name:   "unknown meal",
			err:    &booking.NotFoundError{Field: "meal", ID: 9, Index: 0},
			status: http.StatusBadRequest,
			want:   body{"error": "meal 9 does not exist", "field": "meal", "ticket": float64(0)},
		},
		{
			name:   "seat taken",
			err:    fmt.Errorf("create order: %w", &booking.ConflictError{FlightID: 1, Row: 2, Seat: 3, Index: 1}),
			status: http.StatusConflict,
			want:   body{"error": "seat (row 2, seat 3) on flight 1 is already taken", "ticket": float64(1)},
		},
		{
			name:   "missing reference",
			err:    &repository.ReferenceError{Constraint: "fk_flight_crew_crew"},
			status: http.StatusBadRequest,
			want:   body{"error": "referenced crew members does not exist", "field": "crew_members"},
		},
		{
			name:   "duplicate",
			err:    &repository.DuplicateError{Key: "uq_countries_name"},
			status: http.StatusConflict,
			want:   body{"error": "thing already exists"},
		},
		{
			name:   "still referenced",
			err:    fmt.Errorf("row is still referenced: %w", repository.ErrConflict),
			status: http.StatusConflict,
			want:   body{"error": "thing is still referenced"},
		},
		{
			name:   "not found",
			err:    repository.ErrNotFound,
			status: http.StatusNotFound,
			want:   body{"error": "thing not found"},
		},
		{
			name:   "anything else",
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError,
			want:   body{"error": "database error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := func(c echo.Context) error { return writeError(c, "thing", tt.err) }
			rec := call(t, h, http.MethodPost, "/", "", 0, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, decode[body](t, rec))
		})
	}
}

func TestRequired(t *testing.T) {
	field, ok := required("first_name", "Ann", "last_name", "  ", "position", "")
	assert.False(t, ok)
	assert.Equal(t, "last_name", field)

	_, ok = required("name", "x")
	assert.True(t, ok)
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(nil, nil)
	_, err := getUserID(c)
	assert.Error(t, err)

	c.Set("user_id", uint64(7))
	id, err := getUserID(c)
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), id)
}
