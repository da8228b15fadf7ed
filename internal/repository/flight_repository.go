package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/skybook/flight-booking/internal/model"
)

// FlightRepo encapsulates queries on flights and their crew assignments.
// Reads carry the number of issued tickets so callers can derive
// availability without another round trip.
type FlightRepo struct {
	db *sql.DB
}

func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

const flightSelect = `SELECT f.id, f.route_id, f.airplane_id, f.departure_time, f.arrival_time,
	       r.source_id, r.destination_id, r.distance, s.name, d.name,
	       a.name, a.rows_count, a.seats_in_row, a.airline_id, a.airplane_type_id,
	       (SELECT COUNT(*) FROM tickets t WHERE t.flight_id = f.id)
	FROM flights f
	JOIN routes r ON r.id = f.route_id
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id
	JOIN airplanes a ON a.id = f.airplane_id`

func scanFlight(sc interface{ Scan(...any) error }) (model.Flight, error) {
	var f model.Flight
	err := sc.Scan(&f.ID, &f.RouteID, &f.AirplaneID, &f.DepartureTime, &f.ArrivalTime,
		&f.Route.SourceID, &f.Route.DestinationID, &f.Route.Distance, &f.Route.Source.Name, &f.Route.Destination.Name,
		&f.Airplane.Name, &f.Airplane.Rows, &f.Airplane.SeatsInRow, &f.Airplane.AirlineID, &f.Airplane.AirplaneTypeID,
		&f.TicketsIssued)
	f.Route.ID = f.RouteID
	f.Route.Source.ID = f.Route.SourceID
	f.Route.Destination.ID = f.Route.DestinationID
	f.Airplane.ID = f.AirplaneID
	return f, err
}

// FlightFilter narrows List.  Route matches the source or destination
// airport name.
type FlightFilter struct {
	Route string
}

// List returns flights ordered by departure time.
func (r *FlightRepo) List(ctx context.Context, filter FlightFilter) ([]model.Flight, error) {
	var w where
	w.contains(filter.Route, "s.name", "d.name")
	rows, err := r.db.QueryContext(ctx, flightSelect+w.String()+" ORDER BY f.departure_time, f.id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Flight{}
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByID returns one flight with route, airplane and crew filled.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (model.Flight, error) {
	f, err := scanFlight(r.db.QueryRowContext(ctx, flightSelect+" WHERE f.id = ?", id))
	if err != nil {
		return model.Flight{}, translate(err)
	}
	crew, err := NewCrewRepo(r.db).ListByFlight(ctx, id)
	if err != nil {
		return model.Flight{}, err
	}
	f.Crew = crew
	f.CrewIDs = make([]uint64, len(crew))
	for i, c := range crew {
		f.CrewIDs[i] = c.ID
	}
	return f, nil
}

// Seating returns the seating geometry of the airplane assigned to a flight.
func (r *FlightRepo) Seating(ctx context.Context, flightID uint64) (rows, seatsInRow int, err error) {
	return seating(ctx, r.db, flightID)
}

// SeatingTx is Seating inside a transaction.
func (r *FlightRepo) SeatingTx(ctx context.Context, tx *sql.Tx, flightID uint64) (rows, seatsInRow int, err error) {
	return seating(ctx, tx, flightID)
}

func seating(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, flightID uint64) (int, int, error) {
	var rows, seats int
	err := q.QueryRowContext(ctx,
		`SELECT a.rows_count, a.seats_in_row FROM flights f
		 JOIN airplanes a ON a.id = f.airplane_id WHERE f.id = ?`, flightID).Scan(&rows, &seats)
	return rows, seats, translate(err)
}

// TakenPlaces returns the tickets issued for a flight ordered by row and
// seat.
func (r *FlightRepo) TakenPlaces(ctx context.Context, flightID uint64) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.row_no, t.seat_no, t.ticket_class, t.flight_id, t.meal_id, t.order_id, m.kind
		 FROM tickets t JOIN meals m ON m.id = t.meal_id
		 WHERE t.flight_id = ? ORDER BY t.row_no, t.seat_no`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Ticket{}
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.TicketClass, &t.FlightID, &t.MealID, &t.OrderID, &t.MealKind); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a flight and its crew assignments in one transaction.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time) VALUES (?, ?, ?, ?)",
		f.RouteID, f.AirplaneID, f.DepartureTime.UTC(), f.ArrivalTime.UTC())
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := r.ReplaceCrewTx(ctx, tx, uint64(id), f.CrewIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	f.ID = uint64(id)
	return nil
}

// Update overwrites the scalar columns of a flight.  The crew set is
// replaced only when replaceCrew is true.
func (r *FlightRepo) Update(ctx context.Context, f *model.Flight, replaceCrew bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"UPDATE flights SET route_id = ?, airplane_id = ?, departure_time = ?, arrival_time = ? WHERE id = ?",
		f.RouteID, f.AirplaneID, f.DepartureTime.UTC(), f.ArrivalTime.UTC(), f.ID)
	if err != nil {
		return translate(err)
	}
	// MySQL reports zero affected rows when nothing changed, so check
	// existence separately.
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM flights WHERE id = ?", f.ID).Scan(&one); err != nil {
			return translate(err)
		}
	}
	if replaceCrew {
		if err := r.ReplaceCrewTx(ctx, tx, f.ID, f.CrewIDs); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ReplaceCrewTx sets the crew of a flight to exactly crewIDs.
func (r *FlightRepo) ReplaceCrewTx(ctx context.Context, tx *sql.Tx, flightID uint64, crewIDs []uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM flight_crew WHERE flight_id = ?", flightID); err != nil {
		return err
	}
	ids := dedupe(crewIDs)
	if len(ids) == 0 {
		return nil
	}
	q := "INSERT INTO flight_crew (flight_id, crew_id) VALUES " +
		strings.TrimSuffix(strings.Repeat("(?, ?),", len(ids)), ",")
	args := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, flightID, id)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return translate(err)
}

// Delete removes a flight.  Its tickets and crew rows cascade.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM flights WHERE id = ?", id)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
