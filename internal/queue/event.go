// Package queue publishes and consumes order events over RabbitMQ.
package queue

import (
	"time"

	"github.com/skybook/flight-booking/internal/model"
)

// OrderCreatedEvent is published once an order and its tickets commit.  It
// carries enough for consumers to log or notify without reading the
// database.
type OrderCreatedEvent struct {
	OrderID   uint64        `json:"order_id"`
	UserID    uint64        `json:"user_id"`
	Tickets   []TicketEvent `json:"tickets"`
	CreatedAt time.Time     `json:"created_at"`
}

// TicketEvent is one seat of an OrderCreatedEvent.
type TicketEvent struct {
	FlightID    uint64 `json:"flight_id"`
	Row         int    `json:"row"`
	Seat        int    `json:"seat"`
	TicketClass string `json:"ticket_class"`
	MealID      uint64 `json:"meal_id"`
}

// NewOrderCreatedEvent builds the event for a committed order.
func NewOrderCreatedEvent(o model.Order) OrderCreatedEvent {
	ev := OrderCreatedEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Tickets:   make([]TicketEvent, len(o.Tickets)),
		CreatedAt: o.CreatedAt.UTC(),
	}
	for i, t := range o.Tickets {
		ev.Tickets[i] = TicketEvent{
			FlightID:    t.FlightID,
			Row:         t.Row,
			Seat:        t.Seat,
			TicketClass: t.TicketClass,
			MealID:      t.MealID,
		}
	}
	return ev
}
