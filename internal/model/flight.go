package model

import "time"

// Crew positions are free text; listings are ordered by position.
type Crew struct {
	ID        uint64
	FirstName string
	LastName  string
	Position  string
}

// FullName joins first and last name.
func (c Crew) FullName() string { return c.FirstName + " " + c.LastName }

// Meal kinds seeded by the schema.
const (
	MealStandard   = "STANDARD"
	MealVegetarian = "VEGETARIAN"
	MealNone       = "NO_MEAL"
)

type Meal struct {
	ID   uint64
	Kind string
}

// Flight is one departure of an airplane on a route.
type Flight struct {
	ID            uint64
	RouteID       uint64
	AirplaneID    uint64
	DepartureTime time.Time
	ArrivalTime   time.Time
	CrewIDs       []uint64

	// Filled by read queries.
	Route            Route
	Airplane         Airplane
	Crew             []Crew
	TicketsIssued    int
	TicketsAvailable int
}
