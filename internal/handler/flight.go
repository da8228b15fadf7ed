package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-booking/internal/booking"
	"github.com/skybook/flight-booking/internal/model"
	"github.com/skybook/flight-booking/internal/repository"
)

type CrewStore interface {
	List(ctx context.Context, name string) ([]model.Crew, error)
	Create(ctx context.Context, c *model.Crew) error
}

type MealStore interface {
	List(ctx context.Context) ([]model.Meal, error)
}

type FlightStore interface {
	List(ctx context.Context, filter repository.FlightFilter) ([]model.Flight, error)
	GetByID(ctx context.Context, id uint64) (model.Flight, error)
	TakenPlaces(ctx context.Context, flightID uint64) ([]model.Ticket, error)
	Create(ctx context.Context, f *model.Flight) error
	Update(ctx context.Context, f *model.Flight, replaceCrew bool) error
	Delete(ctx context.Context, id uint64) error
}

// FlightHandler serves crew members, meals and flights.
type FlightHandler struct {
	Crew    CrewStore
	Meals   MealStore
	Flights FlightStore
}

func NewFlightHandler(crew CrewStore, meals MealStore, flights FlightStore) *FlightHandler {
	return &FlightHandler{Crew: crew, Meals: meals, Flights: flights}
}

type crewReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

type crewResp struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Position  string `json:"position"`
}

func toCrewResp(m model.Crew) crewResp {
	return crewResp{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, FullName: m.FullName(), Position: m.Position}
}

// ListCrew handles GET /v1/crew-members?name=.
func (h *FlightHandler) ListCrew(c echo.Context) error {
	items, err := h.Crew.List(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return dbError(c, err)
	}
	out := make([]crewResp, len(items))
	for i, m := range items {
		out[i] = toCrewResp(m)
	}
	return c.JSON(http.StatusOK, out)
}

// CreateCrew handles POST /v1/crew-members.
func (h *FlightHandler) CreateCrew(c echo.Context) error {
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if field, ok := required("first_name", req.FirstName, "last_name", req.LastName, "position", req.Position); !ok {
		return badRequest(c, field, field+" is required")
	}
	m := model.Crew{FirstName: req.FirstName, LastName: req.LastName, Position: req.Position}
	if err := h.Crew.Create(c.Request().Context(), &m); err != nil {
		return writeError(c, "crew member", err)
	}
	m.FirstName, m.LastName, m.Position = strings.TrimSpace(m.FirstName), strings.TrimSpace(m.LastName), strings.TrimSpace(m.Position)
	return c.JSON(http.StatusCreated, toCrewResp(m))
}

type mealResp struct {
	ID   uint64 `json:"id"`
	Meal string `json:"meal"`
}

// ListMeals handles GET /v1/meals.
func (h *FlightHandler) ListMeals(c echo.Context) error {
	items, err := h.Meals.List(c.Request().Context())
	if err != nil {
		return dbError(c, err)
	}
	out := make([]mealResp, len(items))
	for i, m := range items {
		out[i] = mealResp{ID: m.ID, Meal: m.Kind}
	}
	return c.JSON(http.StatusOK, out)
}

// flightReq is the body of create, PUT and PATCH.  Pointers tell PATCH
// which fields were sent.
type flightReq struct {
	Route         *uint64    `json:"route"`
	Airplane      *uint64    `json:"airplane"`
	CrewMembers   *[]uint64  `json:"crew_members"`
	DepartureTime *time.Time `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time"`
}

// missing returns the first absent field for a full write.
func (r flightReq) missing() string {
	switch {
	case r.Route == nil || *r.Route == 0:
		return "route"
	case r.Airplane == nil || *r.Airplane == 0:
		return "airplane"
	case r.DepartureTime == nil:
		return "departure_time"
	case r.ArrivalTime == nil:
		return "arrival_time"
	}
	return ""
}

// apply copies the sent fields onto f and reports whether the crew was sent.
func (r flightReq) apply(f *model.Flight) bool {
	if r.Route != nil {
		f.RouteID = *r.Route
	}
	if r.Airplane != nil {
		f.AirplaneID = *r.Airplane
	}
	if r.DepartureTime != nil {
		f.DepartureTime = r.DepartureTime.UTC()
	}
	if r.ArrivalTime != nil {
		f.ArrivalTime = r.ArrivalTime.UTC()
	}
	if r.CrewMembers != nil {
		f.CrewIDs = *r.CrewMembers
		return true
	}
	return false
}

type flightWriteResp struct {
	ID            uint64    `json:"id"`
	Route         uint64    `json:"route"`
	Airplane      uint64    `json:"airplane"`
	CrewMembers   []uint64  `json:"crew_members"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

func toFlightWrite(f model.Flight) flightWriteResp {
	crew := f.CrewIDs
	if crew == nil {
		crew = []uint64{}
	}
	return flightWriteResp{
		ID:            f.ID,
		Route:         f.RouteID,
		Airplane:      f.AirplaneID,
		CrewMembers:   crew,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
	}
}

type flightListResp struct {
	ID               uint64    `json:"id"`
	RouteCode        string    `json:"route_code"`
	AirplaneName     string    `json:"airplane_name"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	TicketsAvailable int       `json:"tickets_available"`
}

type flightRouteResp struct {
	ID          uint64 `json:"id"`
	Code        string `json:"code"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Distance    int    `json:"distance"`
}

type flightAirplaneResp struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	SeatsInRow int    `json:"seats_in_row"`
	Capacity   int    `json:"capacity"`
}

type takenPlaceResp struct {
	Row         int    `json:"row"`
	Seat        int    `json:"seat"`
	TicketClass string `json:"ticket_class"`
	Meal        string `json:"meal"`
}

type flightDetailResp struct {
	ID               uint64             `json:"id"`
	Route            flightRouteResp    `json:"route"`
	Airplane         flightAirplaneResp `json:"airplane"`
	CrewMembers      []crewResp         `json:"crew_members"`
	DepartureTime    time.Time          `json:"departure_time"`
	ArrivalTime      time.Time          `json:"arrival_time"`
	TicketsAvailable int                `json:"tickets_available"`
	TakenPlaces      []takenPlaceResp   `json:"taken_places"`
}

func ticketsAvailable(f model.Flight) int {
	return booking.AvailableSeats(f.Airplane.Rows, f.Airplane.SeatsInRow, f.TicketsIssued)
}

// ListFlights handles GET /v1/flights?route=.  route matches either
// airport name of the route.
func (h *FlightHandler) ListFlights(c echo.Context) error {
	items, err := h.Flights.List(c.Request().Context(), repository.FlightFilter{Route: c.QueryParam("route")})
	if err != nil {
		return dbError(c, err)
	}
	out := make([]flightListResp, len(items))
	for i, f := range items {
		out[i] = flightListResp{
			ID:               f.ID,
			RouteCode:        f.Route.Code(),
			AirplaneName:     f.Airplane.Name,
			DepartureTime:    f.DepartureTime,
			ArrivalTime:      f.ArrivalTime,
			TicketsAvailable: ticketsAvailable(f),
		}
	}
	return c.JSON(http.StatusOK, out)
}

// GetFlight handles GET /v1/flights/:id with availability and taken places.
func (h *FlightHandler) GetFlight(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "id", "invalid flight id")
	}
	ctx := c.Request().Context()
	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "flight")
		}
		return dbError(c, err)
	}
	taken, err := h.Flights.TakenPlaces(ctx, id)
	if err != nil {
		return dbError(c, err)
	}
	resp := flightDetailResp{
		ID: f.ID,
		Route: flightRouteResp{
			ID:          f.Route.ID,
			Code:        f.Route.Code(),
			Source:      f.Route.Source.Name,
			Destination: f.Route.Destination.Name,
			Distance:    f.Route.Distance,
		},
		Airplane: flightAirplaneResp{
			ID:         f.Airplane.ID,
			Name:       f.Airplane.Name,
			Rows:       f.Airplane.Rows,
			SeatsInRow: f.Airplane.SeatsInRow,
			Capacity:   f.Airplane.Capacity(),
		},
		CrewMembers:      make([]crewResp, len(f.Crew)),
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		TicketsAvailable: ticketsAvailable(f),
		TakenPlaces:      make([]takenPlaceResp, len(taken)),
	}
	for i, m := range f.Crew {
		resp.CrewMembers[i] = toCrewResp(m)
	}
	for i, t := range taken {
		resp.TakenPlaces[i] = takenPlaceResp{Row: t.Row, Seat: t.Seat, TicketClass: t.TicketClass, Meal: t.MealKind}
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateFlight handles POST /v1/flights.
func (h *FlightHandler) CreateFlight(c echo.Context) error {
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if field := req.missing(); field != "" {
		return badRequest(c, field, field+" is required")
	}
	var f model.Flight
	req.apply(&f)
	if err := h.Flights.Create(c.Request().Context(), &f); err != nil {
		return writeError(c, "flight", err)
	}
	return c.JSON(http.StatusCreated, toFlightWrite(f))
}

// UpdateFlight handles PUT and PATCH /v1/flights/:id.  PUT requires every
// field except crew_members; PATCH changes only the fields sent.  The crew
// set is replaced whenever crew_members is present.
func (h *FlightHandler) UpdateFlight(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "id", "invalid flight id")
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if c.Request().Method == http.MethodPut {
		if field := req.missing(); field != "" {
			return badRequest(c, field, field+" is required")
		}
	}
	ctx := c.Request().Context()
	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "flight")
		}
		return dbError(c, err)
	}
	replaceCrew := req.apply(&f)
	if f.RouteID == 0 || f.AirplaneID == 0 {
		return badRequest(c, "route", "route and airplane must not be empty")
	}
	if err := h.Flights.Update(ctx, &f, replaceCrew); err != nil {
		return writeError(c, "flight", err)
	}
	return c.JSON(http.StatusOK, toFlightWrite(f))
}

// DeleteFlight handles DELETE /v1/flights/:id.  Tickets on the flight are
// removed with it.
func (h *FlightHandler) DeleteFlight(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "id", "invalid flight id")
	}
	if err := h.Flights.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, "flight", err)
	}
	return c.NoContent(http.StatusNoContent)
}
