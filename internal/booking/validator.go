// Package booking holds the seat rules and the order transaction.
package booking

import "fmt"

// ValidateTicket checks a seat against an airplane's geometry.  Row is
// checked before seat and only the first violation is reported.
func ValidateTicket(row, seat, rows, seatsInRow int) error {
	checks := []struct {
		value     int
		field     string
		bound     int
		boundName string
	}{
		{row, "row", rows, "rows"},
		{seat, "seat", seatsInRow, "seats_in_row"},
	}
	for _, c := range checks {
		if c.value < 1 || c.value > c.bound {
			return &ValidationError{
				Field: c.field,
				Message: fmt.Sprintf("%s number must be in available range: (1, %s): (1, %d)",
					c.field, c.boundName, c.bound),
				Index: -1,
			}
		}
	}
	return nil
}
