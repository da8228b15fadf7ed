package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-booking/internal/booking"
	"github.com/skybook/flight-booking/internal/repository"
)

// getUserID extracts the user_id set by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		if t != 0 {
			return t, nil
		}
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil && n != 0 {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

func badRequest(c echo.Context, field, msg string) error {
	body := echo.Map{"error": msg}
	if field != "" {
		body["field"] = field
	}
	return c.JSON(http.StatusBadRequest, body)
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
}

func notFound(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
}

// required returns the first blank string field, in argument order.
func required(pairs ...string) (string, bool) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return pairs[i], false
		}
	}
	return "", true
}

// referenceFields maps foreign key constraint names to request fields.
var referenceFields = map[string]string{
	"fk_airplanes_airline":  "airline",
	"fk_airplanes_type":     "airplane_type",
	"fk_cities_country":     "country",
	"fk_airports_city":      "city",
	"fk_routes_source":      "source",
	"fk_routes_destination": "destination",
	"fk_flights_route":      "route",
	"fk_flights_airplane":   "airplane",
	"fk_flight_crew_crew":   "crew_members",
	"fk_tickets_flight":     "flight",
	"fk_tickets_meal":       "meal",
}

// writeError maps a write failure onto a response.  what names the
// resource for 404s.
func writeError(c echo.Context, what string, err error) error {
	var (
		ve  *booking.ValidationError
		nf  *booking.NotFoundError
		ce  *booking.ConflictError
		ref *repository.ReferenceError
		dup *repository.DuplicateError
	)
	switch {
	case errors.As(err, &ve):
		body := echo.Map{"error": ve.Message, "field": ve.Field}
		if ve.Index >= 0 {
			body["ticket"] = ve.Index
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &nf):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": nf.Error(), "field": nf.Field, "ticket": nf.Index})
	case errors.As(err, &ce):
		return c.JSON(http.StatusConflict, echo.Map{"error": ce.Error(), "ticket": ce.Index})
	case errors.As(err, &ref):
		field := referenceFields[ref.Constraint]
		return badRequest(c, field, "referenced "+strings.ReplaceAll(field, "_", " ")+" does not exist")
	case errors.As(err, &dup):
		return c.JSON(http.StatusConflict, echo.Map{"error": what + " already exists"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": what + " is still referenced"})
	case errors.Is(err, repository.ErrNotFound):
		return notFound(c, what)
	}
	log.Printf("%s: %v", what, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

func dbError(c echo.Context, err error) error {
	log.Printf("query failed: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
