package booking

import (
	"fmt"

	"github.com/skybook/flight-booking/internal/repository"
)

// ValidationError names the offending field of a rejected request.  Index
// is the position of the ticket in the request, or -1 when the error is
// about the request as a whole.
type ValidationError struct {
	Field   string
	Message string
	Index   int
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a referenced flight or meal that does not exist.
type NotFoundError struct {
	Field string
	ID    uint64
	Index int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Field, e.ID)
}

func (e *NotFoundError) Unwrap() error { return repository.ErrNotFound }

// ConflictError reports a seat that is already taken on its flight.
type ConflictError struct {
	FlightID uint64
	Row      int
	Seat     int
	Index    int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat (row %d, seat %d) on flight %d is already taken", e.Row, e.Seat, e.FlightID)
}

func (e *ConflictError) Unwrap() error { return repository.ErrConflict }
