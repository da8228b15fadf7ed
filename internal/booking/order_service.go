package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/skybook/flight-booking/internal/model"
	"github.com/skybook/flight-booking/internal/repository"
)

// TicketSpec is one requested seat.
type TicketSpec struct {
	Row         int
	Seat        int
	FlightID    uint64
	TicketClass string
	MealID      uint64
}

// SeatingSource looks up the airplane geometry of a flight.
type SeatingSource interface {
	Seating(ctx context.Context, flightID uint64) (rows, seatsInRow int, err error)
	SeatingTx(ctx context.Context, tx *sql.Tx, flightID uint64) (rows, seatsInRow int, err error)
}

// OrderStore writes orders and tickets inside a caller-owned transaction.
type OrderStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error
	CreateTicketTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error
}

// OrderService creates an order and all of its tickets as one unit.
type OrderService struct {
	db      *sql.DB
	flights SeatingSource
	orders  OrderStore
}

// NewOrderService wires the service to its storage.
func NewOrderService(db *sql.DB, flights SeatingSource, orders OrderStore) *OrderService {
	if db == nil || flights == nil || orders == nil {
		panic("nil dependency passed to NewOrderService")
	}
	return &OrderService{db: db, flights: flights, orders: orders}
}

var errNoTickets = &ValidationError{Field: "tickets", Message: "at least one ticket required", Index: -1}

// CheckTickets validates a request before any write is attempted.  It
// reads flight geometry outside a transaction, so a passing check is
// advisory; CreateOrder repeats it inside the transaction.
func (s *OrderService) CheckTickets(ctx context.Context, specs []TicketSpec) error {
	if len(specs) == 0 {
		return errNoTickets
	}
	seats := seatingCache(func(id uint64) (int, int, error) { return s.flights.Seating(ctx, id) })
	for i := range specs {
		if err := checkSpec(&specs[i], i, seats); err != nil {
			return err
		}
	}
	return nil
}

// CreateOrder persists one order owned by userID plus one ticket per spec,
// or nothing at all.  Seat uniqueness is enforced by the tickets unique
// key; a violation rolls the whole order back and returns *ConflictError.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint64, specs []TicketSpec) (model.Order, error) {
	if len(specs) == 0 {
		return model.Order{}, errNoTickets
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin order tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seats := seatingCache(func(id uint64) (int, int, error) { return s.flights.SeatingTx(ctx, tx, id) })
	for i := range specs {
		if err := checkSpec(&specs[i], i, seats); err != nil {
			return model.Order{}, err
		}
	}

	order := model.Order{UserID: userID}
	if err := s.orders.CreateTx(ctx, tx, &order); err != nil {
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}
	order.Tickets = make([]model.Ticket, 0, len(specs))
	for i, spec := range specs {
		t := model.Ticket{
			Row:         spec.Row,
			Seat:        spec.Seat,
			TicketClass: spec.TicketClass,
			FlightID:    spec.FlightID,
			MealID:      spec.MealID,
			OrderID:     order.ID,
		}
		if err := s.orders.CreateTicketTx(ctx, tx, &t); err != nil {
			return model.Order{}, ticketError(err, spec, i)
		}
		order.Tickets = append(order.Tickets, t)
	}

	if err := tx.Commit(); err != nil {
		return model.Order{}, fmt.Errorf("commit order: %w", err)
	}
	committed = true
	return order, nil
}

// checkSpec normalizes the ticket class and checks the seat against its
// flight's geometry.
func checkSpec(spec *TicketSpec, i int, seating func(uint64) (int, int, error)) error {
	spec.TicketClass = strings.ToUpper(strings.TrimSpace(spec.TicketClass))
	if spec.TicketClass == "" {
		spec.TicketClass = model.ClassEconomy
	}
	if !model.ValidTicketClass(spec.TicketClass) {
		return &ValidationError{
			Field:   "ticket_class",
			Message: fmt.Sprintf("%q is not a valid choice", spec.TicketClass),
			Index:   i,
		}
	}
	rows, seatsInRow, err := seating(spec.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Field: "flight", ID: spec.FlightID, Index: i}
		}
		return fmt.Errorf("load flight %d: %w", spec.FlightID, err)
	}
	if err := ValidateTicket(spec.Row, spec.Seat, rows, seatsInRow); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Index = i
		}
		return err
	}
	return nil
}

// seatingCache memoizes geometry lookups per flight for one request.
func seatingCache(load func(uint64) (int, int, error)) func(uint64) (int, int, error) {
	type geometry struct{ rows, seats int }
	cache := map[uint64]geometry{}
	return func(id uint64) (int, int, error) {
		if g, ok := cache[id]; ok {
			return g.rows, g.seats, nil
		}
		rows, seats, err := load(id)
		if err != nil {
			return 0, 0, err
		}
		cache[id] = geometry{rows, seats}
		return rows, seats, nil
	}
}

func ticketError(err error, spec TicketSpec, i int) error {
	if repository.IsDuplicate(err) {
		return &ConflictError{FlightID: spec.FlightID, Row: spec.Row, Seat: spec.Seat, Index: i}
	}
	var re *repository.ReferenceError
	if errors.As(err, &re) {
		if strings.Contains(re.Constraint, "meal") {
			return &NotFoundError{Field: "meal", ID: spec.MealID, Index: i}
		}
		return &NotFoundError{Field: "flight", ID: spec.FlightID, Index: i}
	}
	return fmt.Errorf("create ticket %d: %w", i, err)
}
