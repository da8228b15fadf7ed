package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/skybook/flight-booking/internal/model"
)

// CrewRepo encapsulates queries on crew_members.
type CrewRepo struct {
	db *sql.DB
}

func NewCrewRepo(db *sql.DB) *CrewRepo { return &CrewRepo{db: db} }

// List returns crew ordered by position.  name matches first or last name.
func (r *CrewRepo) List(ctx context.Context, name string) ([]model.Crew, error) {
	var w where
	w.contains(name, "first_name", "last_name")
	q := "SELECT id, first_name, last_name, position FROM crew_members" + w.String() + " ORDER BY position, id"
	return r.query(ctx, q, w.args...)
}

// ListByFlight returns the crew assigned to a flight.
func (r *CrewRepo) ListByFlight(ctx context.Context, flightID uint64) ([]model.Crew, error) {
	return r.query(ctx, `SELECT c.id, c.first_name, c.last_name, c.position
		FROM crew_members c JOIN flight_crew fc ON fc.crew_id = c.id
		WHERE fc.flight_id = ? ORDER BY c.position, c.id`, flightID)
}

// Create inserts a crew member.
func (r *CrewRepo) Create(ctx context.Context, c *model.Crew) error {
	id, err := insert(ctx, r.db,
		"INSERT INTO crew_members (first_name, last_name, position) VALUES (?, ?, ?)",
		strings.TrimSpace(c.FirstName), strings.TrimSpace(c.LastName), strings.TrimSpace(c.Position))
	c.ID = id
	return err
}

func (r *CrewRepo) query(ctx context.Context, q string, args ...any) ([]model.Crew, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Crew{}
	for rows.Next() {
		var c model.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Position); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MealRepo reads the seeded meals table.
type MealRepo struct {
	db *sql.DB
}

func NewMealRepo(db *sql.DB) *MealRepo { return &MealRepo{db: db} }

// List returns all meals ordered by id.
func (r *MealRepo) List(ctx context.Context) ([]model.Meal, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, kind FROM meals ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Meal{}
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(&m.ID, &m.Kind); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
