package model

import "time"

// Ticket classes.
const (
	ClassEconomy  = "ECONOMY"
	ClassBusiness = "BUSINESS"
)

// ValidTicketClass reports whether s is a known ticket class.
func ValidTicketClass(s string) bool {
	return s == ClassEconomy || s == ClassBusiness
}

// Order groups the tickets bought in one request.  CreatedAt is assigned
// by the database.
type Order struct {
	ID        uint64
	UserID    uint64
	CreatedAt time.Time
	Tickets   []Ticket
}

// Ticket is one seat on one flight.  (FlightID, Row, Seat) is unique.
type Ticket struct {
	ID          uint64
	Row         int
	Seat        int
	TicketClass string
	FlightID    uint64
	MealID      uint64
	OrderID     uint64

	// Filled by read queries.
	MealKind      string
	RouteCode     string
	DepartureTime time.Time
}
