package repository

import (
	"context"
	"database/sql"

	"github.com/skybook/flight-booking/internal/model"
)

// AirplaneRepo encapsulates queries on the airplanes table.  Reads join the
// airline and airplane type so listings can show their names.
type AirplaneRepo struct {
	db *sql.DB
}

func NewAirplaneRepo(db *sql.DB) *AirplaneRepo { return &AirplaneRepo{db: db} }

const airplaneSelect = `SELECT a.id, a.name, a.rows_count, a.seats_in_row, a.airline_id, a.airplane_type_id,
	       al.name, t.name
	FROM airplanes a
	JOIN airlines al ON al.id = a.airline_id
	JOIN airplane_types t ON t.id = a.airplane_type_id`

// List returns airplanes ordered by id, optionally filtered by name.
func (r *AirplaneRepo) List(ctx context.Context, name string) ([]model.Airplane, error) {
	var w where
	w.contains(name, "a.name")
	rows, err := r.db.QueryContext(ctx, airplaneSelect+w.String()+" ORDER BY a.id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Airplane{}
	for rows.Next() {
		var a model.Airplane
		if err := rows.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirlineID, &a.AirplaneTypeID,
			&a.AirlineName, &a.AirplaneTypeName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetByID returns one airplane with joined names.
func (r *AirplaneRepo) GetByID(ctx context.Context, id uint64) (model.Airplane, error) {
	var a model.Airplane
	err := r.db.QueryRowContext(ctx, airplaneSelect+" WHERE a.id = ?", id).Scan(
		&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirlineID, &a.AirplaneTypeID,
		&a.AirlineName, &a.AirplaneTypeName)
	return a, translate(err)
}

// Create inserts an airplane.  A missing airline or type surfaces as a
// *ReferenceError; a taken name as a *DuplicateError.
func (r *AirplaneRepo) Create(ctx context.Context, a *model.Airplane) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO airplanes (name, rows_count, seats_in_row, airline_id, airplane_type_id) VALUES (?, ?, ?, ?, ?)",
		a.Name, a.Rows, a.SeatsInRow, a.AirlineID, a.AirplaneTypeID)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}
