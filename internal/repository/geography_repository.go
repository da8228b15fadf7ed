package repository

import (
	"context"
	"database/sql"

	"github.com/skybook/flight-booking/internal/model"
)

// CountryRepo encapsulates queries on the countries table.
type CountryRepo struct {
	db *sql.DB
}

func NewCountryRepo(db *sql.DB) *CountryRepo { return &CountryRepo{db: db} }

// List returns countries ordered by id, optionally filtered by name.
func (r *CountryRepo) List(ctx context.Context, name string) ([]model.Country, error) {
	var w where
	w.contains(name, "name")
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM countries"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Country{}
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a country.  Names are unique.
func (r *CountryRepo) Create(ctx context.Context, c *model.Country) error {
	id, err := insert(ctx, r.db, "INSERT INTO countries (name) VALUES (?)", c.Name)
	c.ID = id
	return err
}

// CityRepo encapsulates queries on the cities table.
type CityRepo struct {
	db *sql.DB
}

func NewCityRepo(db *sql.DB) *CityRepo { return &CityRepo{db: db} }

// List returns cities with their country name.  name filters on the city,
// country on the country name.
func (r *CityRepo) List(ctx context.Context, name, country string) ([]model.City, error) {
	var w where
	w.contains(name, "ci.name")
	w.contains(country, "co.name")
	q := `SELECT ci.id, ci.name, ci.country_id, co.name
	      FROM cities ci JOIN countries co ON co.id = ci.country_id` + w.String() + " ORDER BY ci.id"
	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryID, &c.CountryName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a city belonging to an existing country.
func (r *CityRepo) Create(ctx context.Context, c *model.City) error {
	id, err := insert(ctx, r.db, "INSERT INTO cities (name, country_id) VALUES (?, ?)", c.Name, c.CountryID)
	c.ID = id
	return err
}

// AirportRepo encapsulates queries on the airports table.
type AirportRepo struct {
	db *sql.DB
}

func NewAirportRepo(db *sql.DB) *AirportRepo { return &AirportRepo{db: db} }

// List returns airports with their city name.  name filters on the airport,
// city on the city name.
func (r *AirportRepo) List(ctx context.Context, name, city string) ([]model.Airport, error) {
	var w where
	w.contains(name, "ap.name")
	w.contains(city, "ci.name")
	q := `SELECT ap.id, ap.name, ap.city_id, ci.name
	      FROM airports ap JOIN cities ci ON ci.id = ap.city_id` + w.String() + " ORDER BY ap.id"
	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Airport{}
	for rows.Next() {
		var a model.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.CityID, &a.CityName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts an airport located in an existing city.
func (r *AirportRepo) Create(ctx context.Context, a *model.Airport) error {
	id, err := insert(ctx, r.db, "INSERT INTO airports (name, city_id) VALUES (?, ?)", a.Name, a.CityID)
	a.ID = id
	return err
}

// insert runs an INSERT and returns the generated id.  Driver errors are
// translated.
func insert(ctx context.Context, db *sql.DB, q string, args ...any) (uint64, error) {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
