package model

// Airline operates airplanes.
type Airline struct {
	ID   uint64
	Name string
}

// AirplaneType is the aircraft model (e.g. "Boeing 737").
type AirplaneType struct {
	ID   uint64
	Name string
}

// Airplane carries the seating geometry every ticket is validated
// against.
type Airplane struct {
	ID             uint64
	Name           string
	Rows           int
	SeatsInRow     int
	AirlineID      uint64
	AirplaneTypeID uint64

	// Joined names, filled by list queries.
	AirlineName      string
	AirplaneTypeName string
}

// Capacity is rows × seats_in_row.  It is derived and never stored.
func (a Airplane) Capacity() int { return a.Rows * a.SeatsInRow }
