package repository

import (
	"context"
	"database/sql"

	"github.com/skybook/flight-booking/internal/model"
)

// AirlineRepo encapsulates queries on the airlines table.
type AirlineRepo struct {
	db *sql.DB
}

func NewAirlineRepo(db *sql.DB) *AirlineRepo { return &AirlineRepo{db: db} }

// List returns airlines ordered by id, optionally filtered by name.
func (r *AirlineRepo) List(ctx context.Context, name string) ([]model.Airline, error) {
	var w where
	w.contains(name, "name")
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM airlines"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Airline{}
	for rows.Next() {
		var a model.Airline
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts an airline and sets its ID.
func (r *AirlineRepo) Create(ctx context.Context, a *model.Airline) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO airlines (name) VALUES (?)", a.Name)
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

// AirplaneTypeRepo encapsulates queries on the airplane_types table.
type AirplaneTypeRepo struct {
	db *sql.DB
}

func NewAirplaneTypeRepo(db *sql.DB) *AirplaneTypeRepo { return &AirplaneTypeRepo{db: db} }

// List returns airplane types ordered by id, optionally filtered by name.
func (r *AirplaneTypeRepo) List(ctx context.Context, name string) ([]model.AirplaneType, error) {
	var w where
	w.contains(name, "name")
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM airplane_types"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.AirplaneType{}
	for rows.Next() {
		var t model.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts an airplane type and sets its ID.
func (r *AirplaneTypeRepo) Create(ctx context.Context, t *model.AirplaneType) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO airplane_types (name) VALUES (?)", t.Name)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}
