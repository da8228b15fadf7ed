package booking

// Available returns capacity minus issued tickets.  The result is not
// clamped, so an overbooked flight reports a negative number.
func Available(capacity, issued int) int {
	return capacity - issued
}

// AvailableSeats is Available for an airplane's geometry.
func AvailableSeats(rows, seatsInRow, issued int) int {
	return Available(rows*seatsInRow, issued)
}
