package handler

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybook/flight-booking/internal/model"
	"github.com/skybook/flight-booking/internal/repository"
)

// memFlights is an in-memory FlightStore.
type memFlights struct {
	flights     map[uint64]model.Flight
	taken       map[uint64][]model.Ticket
	nextID      uint64
	lastFilter  repository.FlightFilter
	replaceCrew bool
	createErr   error
}

func (s *memFlights) List(_ context.Context, f repository.FlightFilter) ([]model.Flight, error) {
	s.lastFilter = f
	out := []model.Flight{}
	for _, id := range slices.Sorted(maps.Keys(s.flights)) {
		out = append(out, s.flights[id])
	}
	return out, nil
}

func (s *memFlights) GetByID(_ context.Context, id uint64) (model.Flight, error) {
	f, ok := s.flights[id]
	if !ok {
		return model.Flight{}, repository.ErrNotFound
	}
	return f, nil
}

func (s *memFlights) TakenPlaces(_ context.Context, id uint64) ([]model.Ticket, error) {
	return s.taken[id], nil
}

func (s *memFlights) Create(_ context.Context, f *model.Flight) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	f.ID = 100 + s.nextID
	s.flights[f.ID] = *f
	return nil
}

func (s *memFlights) Update(_ context.Context, f *model.Flight, replaceCrew bool) error {
	if _, ok := s.flights[f.ID]; !ok {
		return repository.ErrNotFound
	}
	s.replaceCrew = replaceCrew
	s.flights[f.ID] = *f
	return nil
}

func (s *memFlights) Delete(_ context.Context, id uint64) error {
	if _, ok := s.flights[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.flights, id)
	return nil
}

var departure = time.Date(2026, 8, 1, 6, 30, 0, 0, time.UTC)

func seedFlights() *memFlights {
	route := model.Route{
		ID: 4, SourceID: 1, DestinationID: 2, Distance: 2100,
		Source:      model.Airport{ID: 1, Name: "Boryspil"},
		Destination: model.Airport{ID: 2, Name: "heathrow"},
	}
	plane := model.Airplane{ID: 2, Name: "Mriya", Rows: 10, SeatsInRow: 6}
	return &memFlights{
		flights: map[uint64]model.Flight{
			1: {
				ID: 1, RouteID: 4, AirplaneID: 2, DepartureTime: departure, ArrivalTime: departure.Add(3 * time.Hour),
				CrewIDs: []uint64{7}, Route: route, Airplane: plane, TicketsIssued: 2,
				Crew: []model.Crew{{ID: 7, FirstName: "Olena", LastName: "Koval", Position: "Captain"}},
			},
		},
		taken: map[uint64][]model.Ticket{
			1: {
				{Row: 1, Seat: 1, TicketClass: "ECONOMY", MealKind: "STANDARD"},
				{Row: 1, Seat: 2, TicketClass: "BUSINESS", MealKind: "NO_MEAL"},
			},
		},
	}
}

func newFlightHandler(flights *memFlights) *FlightHandler {
	return NewFlightHandler(&memCrew{}, &memMeals{}, flights)
}

func TestListFlights(t *testing.T) {
	store := seedFlights()
	h := newFlightHandler(store)
	rec := call(t, h.ListFlights, http.MethodGet, "/v1/flights?route=bory", "", 1, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bory", store.lastFilter.Route)
	items := decode[[]flightListResp](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "Bor - Hea", items[0].RouteCode)
	assert.Equal(t, "Mriya", items[0].AirplaneName)
	assert.Equal(t, 58, items[0].TicketsAvailable)
}

func TestGetFlight(t *testing.T) {
	h := newFlightHandler(seedFlights())

	rec := call(t, h.GetFlight, http.MethodGet, "/v1/flights/1", "", 1, "1")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[flightDetailResp](t, rec)
	assert.Equal(t, 60, got.Airplane.Capacity)
	assert.Equal(t, 58, got.TicketsAvailable)
	assert.Equal(t, "Olena Koval", got.CrewMembers[0].FullName)
	assert.Equal(t, []takenPlaceResp{
		{Row: 1, Seat: 1, TicketClass: "ECONOMY", Meal: "STANDARD"},
		{Row: 1, Seat: 2, TicketClass: "BUSINESS", Meal: "NO_MEAL"},
	}, got.TakenPlaces)

	rec = call(t, h.GetFlight, http.MethodGet, "/v1/flights/9", "", 1, "9")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, h.GetFlight, http.MethodGet, "/v1/flights/x", "", 1, "x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateFlight(t *testing.T) {
	t.Run("created without crew", func(t *testing.T) {
		store := seedFlights()
		h := newFlightHandler(store)
		rec := call(t, h.CreateFlight, http.MethodPost, "/v1/flights",
			`{"route":4,"airplane":2,"departure_time":"2026-08-02T06:30:00Z","arrival_time":"2026-08-02T09:30:00Z"}`, 1, "")

		require.Equal(t, http.StatusCreated, rec.Code)
		got := decode[flightWriteResp](t, rec)
		assert.Equal(t, uint64(101), got.ID)
		assert.Equal(t, []uint64{}, got.CrewMembers)
	})

	t.Run("missing route", func(t *testing.T) {
		h := newFlightHandler(seedFlights())
		rec := call(t, h.CreateFlight, http.MethodPost, "/v1/flights",
			`{"airplane":2,"departure_time":"2026-08-02T06:30:00Z","arrival_time":"2026-08-02T09:30:00Z"}`, 1, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "route", decode[body](t, rec)["field"])
	})

	t.Run("unknown airplane", func(t *testing.T) {
		store := seedFlights()
		store.createErr = &repository.ReferenceError{Constraint: "fk_flights_airplane"}
		h := newFlightHandler(store)
		rec := call(t, h.CreateFlight, http.MethodPost, "/v1/flights",
			`{"route":4,"airplane":99,"departure_time":"2026-08-02T06:30:00Z","arrival_time":"2026-08-02T09:30:00Z"}`, 1, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "airplane", decode[body](t, rec)["field"])
	})
}

func TestUpdateFlight(t *testing.T) {
	t.Run("patch keeps unsent fields and crew", func(t *testing.T) {
		store := seedFlights()
		h := newFlightHandler(store)
		rec := call(t, h.UpdateFlight, http.MethodPatch, "/v1/flights/1",
			`{"arrival_time":"2026-08-01T10:00:00Z"}`, 1, "1")

		require.Equal(t, http.StatusOK, rec.Code)
		got := store.flights[1]
		assert.Equal(t, departure, got.DepartureTime)
		assert.Equal(t, departure.Add(3*time.Hour+30*time.Minute), got.ArrivalTime)
		assert.False(t, store.replaceCrew)
		assert.Equal(t, []uint64{7}, got.CrewIDs)
	})

	t.Run("patch replaces crew when sent", func(t *testing.T) {
		store := seedFlights()
		h := newFlightHandler(store)
		rec := call(t, h.UpdateFlight, http.MethodPatch, "/v1/flights/1", `{"crew_members":[]}`, 1, "1")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, store.replaceCrew)
		assert.Empty(t, store.flights[1].CrewIDs)
	})

	t.Run("put needs every field", func(t *testing.T) {
		h := newFlightHandler(seedFlights())
		rec := call(t, h.UpdateFlight, http.MethodPut, "/v1/flights/1", `{"route":4,"airplane":2}`, 1, "1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "departure_time", decode[body](t, rec)["field"])
	})

	t.Run("unknown flight", func(t *testing.T) {
		h := newFlightHandler(seedFlights())
		rec := call(t, h.UpdateFlight, http.MethodPatch, "/v1/flights/5", `{"route":4}`, 1, "5")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteFlight(t *testing.T) {
	store := seedFlights()
	h := newFlightHandler(store)

	rec := call(t, h.DeleteFlight, http.MethodDelete, "/v1/flights/1", "", 1, "1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.flights)

	rec = call(t, h.DeleteFlight, http.MethodDelete, "/v1/flights/1", "", 1, "1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type memCrew struct{ items []model.Crew }

func (s *memCrew) List(context.Context, string) ([]model.Crew, error) { return s.items, nil }

func (s *memCrew) Create(_ context.Context, c *model.Crew) error {
	c.ID = uint64(len(s.items) + 1)
	s.items = append(s.items, *c)
	return nil
}

type memMeals struct{}

func (memMeals) List(context.Context) ([]model.Meal, error) {
	return []model.Meal{{ID: 1, Kind: model.MealStandard}, {ID: 2, Kind: model.MealVegetarian}, {ID: 3, Kind: model.MealNone}}, nil
}

func TestCrewAndMeals(t *testing.T) {
	crew := &memCrew{}
	h := NewFlightHandler(crew, memMeals{}, seedFlights())

	rec := call(t, h.CreateCrew, http.MethodPost, "/v1/crew-members", `{"first_name":"Ann","last_name":"Lee"}`, 1, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "position", decode[body](t, rec)["field"])

	rec = call(t, h.CreateCrew, http.MethodPost, "/v1/crew-members",
		`{"first_name":"Ann","last_name":"Lee","position":"Pilot"}`, 1, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ann Lee", decode[crewResp](t, rec).FullName)

	rec = call(t, h.ListMeals, http.MethodGet, "/v1/meals", "", 1, "")
	require.Equal(t, http.StatusOK, rec.Code)
	meals := decode[[]mealResp](t, rec)
	require.Len(t, meals, 3)
	assert.Equal(t, "NO_MEAL", meals[2].Meal)
}
