package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-booking/internal/booking"
	"github.com/skybook/flight-booking/internal/model"
	"github.com/skybook/flight-booking/internal/queue"
	"github.com/skybook/flight-booking/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type OrderReader interface {
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Order, int, error)
	GetByIDForUser(ctx context.Context, id, userID uint64) (model.Order, error)
}

// Booker validates and persists orders.
type Booker interface {
	CheckTickets(ctx context.Context, specs []booking.TicketSpec) error
	CreateOrder(ctx context.Context, userID uint64, specs []booking.TicketSpec) (model.Order, error)
}

type OrderEvents interface {
	PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error
}

// OrderHandler serves the caller's own orders.  Every read is scoped to
// the authenticated user, staff included.
type OrderHandler struct {
	Orders  OrderReader
	Booking Booker
	Events  OrderEvents // optional
}

func NewOrderHandler(orders OrderReader, b Booker, events OrderEvents) *OrderHandler {
	if orders == nil || b == nil {
		panic("nil dependency passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders, Booking: b, Events: events}
}

type ticketReq struct {
	Row         int    `json:"row"`
	Seat        int    `json:"seat"`
	Flight      uint64 `json:"flight"`
	TicketClass string `json:"ticket_class"`
	Meal        uint64 `json:"meal"`
}

type orderReq struct {
	Tickets []ticketReq `json:"tickets"`
}

type ticketResp struct {
	ID          uint64 `json:"id"`
	Row         int    `json:"row"`
	Seat        int    `json:"seat"`
	Flight      uint64 `json:"flight"`
	TicketClass string `json:"ticket_class"`
	Meal        uint64 `json:"meal"`
}

type orderCreatedResp struct {
	ID        uint64       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Tickets   []ticketResp `json:"tickets"`
}

type ticketFlightResp struct {
	ID            uint64    `json:"id"`
	RouteCode     string    `json:"route_code"`
	DepartureTime time.Time `json:"departure_time"`
}

type ticketDetailResp struct {
	ID          uint64           `json:"id"`
	Row         int              `json:"row"`
	Seat        int              `json:"seat"`
	Flight      ticketFlightResp `json:"flight"`
	TicketClass string           `json:"ticket_class"`
	Meal        string           `json:"meal"`
}

type orderResp struct {
	ID        uint64             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Tickets   []ticketDetailResp `json:"tickets"`
}

type orderPageResp struct {
	Count    int         `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  []orderResp `json:"results"`
}

func toOrderResp(o model.Order) orderResp {
	out := orderResp{ID: o.ID, CreatedAt: o.CreatedAt, Tickets: make([]ticketDetailResp, len(o.Tickets))}
	for i, t := range o.Tickets {
		out.Tickets[i] = ticketDetailResp{
			ID:   t.ID,
			Row:  t.Row,
			Seat: t.Seat,
			Flight: ticketFlightResp{
				ID:            t.FlightID,
				RouteCode:     t.RouteCode,
				DepartureTime: t.DepartureTime,
			},
			TicketClass: t.TicketClass,
			Meal:        t.MealKind,
		}
	}
	return out
}

// pagination reads page and page_size.  page_size is capped at 100.
func pagination(c echo.Context) (page, size int, ok bool) {
	page, size = 1, defaultPageSize
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		page = n
	}
	if v := c.QueryParam("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		size = min(n, maxPageSize)
	}
	return page, size, true
}

// ListOrders handles GET /v1/orders?page=&page_size=.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, size, ok := pagination(c)
	if !ok {
		return badRequest(c, "page", "invalid page")
	}
	orders, total, err := h.Orders.ListByUser(c.Request().Context(), userID, size, (page-1)*size)
	if err != nil {
		return dbError(c, err)
	}
	if page > 1 && len(orders) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid page"})
	}
	resp := orderPageResp{Count: total, Page: page, PageSize: size, Results: make([]orderResp, len(orders))}
	for i, o := range orders {
		resp.Results[i] = toOrderResp(o)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetOrder handles GET /v1/orders/:id.  Orders of other users are 404.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	o, err := h.Orders.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "order")
		}
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResp(o))
}

// CreateOrder handles POST /v1/orders.  The request is validated against
// each flight's seating before the transaction, then the order and all of
// its tickets are written atomically.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	specs := make([]booking.TicketSpec, len(req.Tickets))
	for i, t := range req.Tickets {
		switch {
		case t.Flight == 0:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight is required", "field": "flight", "ticket": i})
		case t.Meal == 0:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "meal is required", "field": "meal", "ticket": i})
		}
		specs[i] = booking.TicketSpec{
			Row:         t.Row,
			Seat:        t.Seat,
			FlightID:    t.Flight,
			TicketClass: t.TicketClass,
			MealID:      t.Meal,
		}
	}

	ctx := c.Request().Context()
	if err := h.Booking.CheckTickets(ctx, specs); err != nil {
		return writeError(c, "order", err)
	}
	order, err := h.Booking.CreateOrder(ctx, userID, specs)
	if err != nil {
		return writeError(c, "order", err)
	}

	if h.Events != nil {
		pubCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = h.Events.PublishOrderCreated(pubCtx, queue.NewOrderCreatedEvent(order))
		cancel()
	}

	resp := orderCreatedResp{ID: order.ID, CreatedAt: order.CreatedAt, Tickets: make([]ticketResp, len(order.Tickets))}
	for i, t := range order.Tickets {
		resp.Tickets[i] = ticketResp{ID: t.ID, Row: t.Row, Seat: t.Seat, Flight: t.FlightID, TicketClass: t.TicketClass, Meal: t.MealID}
	}
	return c.JSON(http.StatusCreated, resp)
}
