package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/skybook/flight-booking/internal/model"
)

// OrderRepo provides the writes used by order creation and the owner-scoped
// reads behind the orders API.  Orders own their tickets; deleting an
// order cascades to them.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts an order for o.UserID and fills ID and CreatedAt from
// the database.  The caller owns the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	res, err := tx.ExecContext(ctx, "INSERT INTO orders (user_id) VALUES (?)", o.UserID)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return tx.QueryRowContext(ctx, "SELECT created_at FROM orders WHERE id = ?", o.ID).Scan(&o.CreatedAt)
}

// CreateTicketTx inserts one ticket bound to t.OrderID.  A seat that is
// already taken on the flight surfaces as a *DuplicateError, a missing
// flight or meal as a *ReferenceError.
func (r *OrderRepo) CreateTicketTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tickets (row_no, seat_no, ticket_class, flight_id, meal_id, order_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Row, t.Seat, t.TicketClass, t.FlightID, t.MealID, t.OrderID)
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

// ListByUser returns one page of the user's orders, newest first, with
// their tickets, plus the total number of orders the user has.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE user_id = ?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, created_at FROM orders WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachTickets(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetByIDForUser returns an order only if it belongs to userID.  Orders of
// other users report ErrNotFound.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Order, error) {
	var o model.Order
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at FROM orders WHERE id = ? AND user_id = ?", id, userID).
		Scan(&o.ID, &o.UserID, &o.CreatedAt)
	if err != nil {
		return model.Order{}, translate(err)
	}
	orders := []model.Order{o}
	if err := r.attachTickets(ctx, orders); err != nil {
		return model.Order{}, err
	}
	return orders[0], nil
}

// attachTickets loads the tickets of all given orders in one query.
func (r *OrderRepo) attachTickets(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	idx := make(map[uint64]int, len(orders))
	args := make([]any, len(orders))
	for i := range orders {
		idx[orders[i].ID] = i
		args[i] = orders[i].ID
		orders[i].Tickets = []model.Ticket{}
	}
	q := `SELECT t.id, t.row_no, t.seat_no, t.ticket_class, t.flight_id, t.meal_id, t.order_id,
	             m.kind, s.name, d.name, f.departure_time
	      FROM tickets t
	      JOIN meals m ON m.id = t.meal_id
	      JOIN flights f ON f.id = t.flight_id
	      JOIN routes r ON r.id = f.route_id
	      JOIN airports s ON s.id = r.source_id
	      JOIN airports d ON d.id = r.destination_id
	      WHERE t.order_id IN (` + strings.TrimSuffix(strings.Repeat("?,", len(args)), ",") + `)
	      ORDER BY t.order_id, t.row_no, t.seat_no`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t        model.Ticket
			src, dst string
		)
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.TicketClass, &t.FlightID, &t.MealID, &t.OrderID,
			&t.MealKind, &src, &dst, &t.DepartureTime); err != nil {
			return err
		}
		t.RouteCode = model.RouteCode(src, dst)
		if i, ok := idx[t.OrderID]; ok {
			orders[i].Tickets = append(orders[i].Tickets, t)
		}
	}
	return rows.Err()
}
