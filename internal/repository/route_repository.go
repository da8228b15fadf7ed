package repository

import (
	"context"
	"database/sql"

	"github.com/skybook/flight-booking/internal/model"
)

// RouteRepo encapsulates queries on the routes table.  Reads join both
// airports and their cities.
type RouteRepo struct {
	db *sql.DB
}

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

const routeSelect = `SELECT r.id, r.source_id, r.destination_id, r.distance,
	       s.name, s.city_id, sc.name, d.name, d.city_id, dc.name
	FROM routes r
	JOIN airports s ON s.id = r.source_id
	JOIN cities sc ON sc.id = s.city_id
	JOIN airports d ON d.id = r.destination_id
	JOIN cities dc ON dc.id = d.city_id`

func scanRoute(sc interface{ Scan(...any) error }) (model.Route, error) {
	var rt model.Route
	err := sc.Scan(&rt.ID, &rt.SourceID, &rt.DestinationID, &rt.Distance,
		&rt.Source.Name, &rt.Source.CityID, &rt.Source.CityName,
		&rt.Destination.Name, &rt.Destination.CityID, &rt.Destination.CityName)
	rt.Source.ID = rt.SourceID
	rt.Destination.ID = rt.DestinationID
	return rt, err
}

// List returns routes ordered by id.  airport matches the source or the
// destination airport name.
func (r *RouteRepo) List(ctx context.Context, airport string) ([]model.Route, error) {
	var w where
	w.contains(airport, "s.name", "d.name")
	rows, err := r.db.QueryContext(ctx, routeSelect+w.String()+" ORDER BY r.id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Route{}
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// GetByID returns one route with both airports filled.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (model.Route, error) {
	rt, err := scanRoute(r.db.QueryRowContext(ctx, routeSelect+" WHERE r.id = ?", id))
	return rt, translate(err)
}

// Create inserts a route.  The (source, destination) pair is unique.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	id, err := insert(ctx, r.db,
		"INSERT INTO routes (source_id, destination_id, distance) VALUES (?, ?, ?)",
		rt.SourceID, rt.DestinationID, rt.Distance)
	rt.ID = id
	return err
}
