package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-booking/internal/model"
)

type AirlineStore interface {
	List(ctx context.Context, name string) ([]model.Airline, error)
	Create(ctx context.Context, a *model.Airline) error
}

type AirplaneTypeStore interface {
	List(ctx context.Context, name string) ([]model.AirplaneType, error)
	Create(ctx context.Context, t *model.AirplaneType) error
}

type AirplaneStore interface {
	List(ctx context.Context, name string) ([]model.Airplane, error)
	GetByID(ctx context.Context, id uint64) (model.Airplane, error)
	Create(ctx context.Context, a *model.Airplane) error
}

// FleetHandler serves airlines, airplane types and airplanes.
type FleetHandler struct {
	Airlines  AirlineStore
	Types     AirplaneTypeStore
	Airplanes AirplaneStore
}

func NewFleetHandler(airlines AirlineStore, types AirplaneTypeStore, airplanes AirplaneStore) *FleetHandler {
	return &FleetHandler{Airlines: airlines, Types: types, Airplanes: airplanes}
}

type namedResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type nameReq struct {
	Name string `json:"name"`
}

// ListAirlines handles GET /v1/airlines?name=.
func (h *FleetHandler) ListAirlines(c echo.Context) error {
	items, err := h.Airlines.List(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return dbError(c, err)
	}
	out := make([]namedResp, len(items))
	for i, a := range items {
		out[i] = namedResp{ID: a.ID, Name: a.Name}
	}
	return c.JSON(http.StatusOK, out)
}

// CreateAirline handles POST /v1/airlines.
func (h *FleetHandler) CreateAirline(c echo.Context) error {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if field, ok := required("name", req.Name); !ok {
		return badRequest(c, field, field+" is required")
	}
	a := model.Airline{Name: strings.TrimSpace(req.Name)}
	if err := h.Airlines.Create(c.Request().Context(), &a); err != nil {
		return writeError(c, "airline", err)
	}
	return c.JSON(http.StatusCreated, namedResp{ID: a.ID, Name: a.Name})
}

// ListAirplaneTypes handles GET /v1/airplane-types?name=.
func (h *FleetHandler) ListAirplaneTypes(c echo.Context) error {
	items, err := h.Types.List(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return dbError(c, err)
	}
	out := make([]namedResp, len(items))
	for i, t := range items {
		out[i] = namedResp{ID: t.ID, Name: t.Name}
	}
	return c.JSON(http.StatusOK, out)
}

// CreateAirplaneType handles POST /v1/airplane-types.
func (h *FleetHandler) CreateAirplaneType(c echo.Context) error {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if field, ok := required("name", req.Name); !ok {
		return badRequest(c, field, field+" is required")
	}
	t := model.AirplaneType{Name: strings.TrimSpace(req.Name)}
	if err := h.Types.Create(c.Request().Context(), &t); err != nil {
		return writeError(c, "airplane type", err)
	}
	return c.JSON(http.StatusCreated, namedResp{ID: t.ID, Name: t.Name})
}

type airplaneReq struct {
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	Airline      uint64 `json:"airline"`
	AirplaneType uint64 `json:"airplane_type"`
}

type airplaneResp struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	Capacity     int    `json:"capacity"`
	AirplaneType string `json:"airplane_type"`
	AirlineName  string `json:"airline_name"`
}

func toAirplaneResp(a model.Airplane) airplaneResp {
	return airplaneResp{
		ID:           a.ID,
		Name:         a.Name,
		Rows:         a.Rows,
		SeatsInRow:   a.SeatsInRow,
		Capacity:     a.Capacity(),
		AirplaneType: a.AirplaneTypeName,
		AirlineName:  a.AirlineName,
	}
}

// ListAirplanes handles GET /v1/airplanes?name=.
func (h *FleetHandler) ListAirplanes(c echo.Context) error {
	items, err := h.Airplanes.List(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return dbError(c, err)
	}
	out := make([]airplaneResp, len(items))
	for i, a := range items {
		out[i] = toAirplaneResp(a)
	}
	return c.JSON(http.StatusOK, out)
}

// CreateAirplane handles POST /v1/airplanes.  Geometry must be positive.
func (h *FleetHandler) CreateAirplane(c echo.Context) error {
	var req airplaneReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	switch {
	case strings.TrimSpace(req.Name) == "":
		return badRequest(c, "name", "name is required")
	case req.Rows < 1:
		return badRequest(c, "rows", "rows must be a positive integer")
	case req.SeatsInRow < 1:
		return badRequest(c, "seats_in_row", "seats_in_row must be a positive integer")
	case req.Airline == 0:
		return badRequest(c, "airline", "airline is required")
	case req.AirplaneType == 0:
		return badRequest(c, "airplane_type", "airplane_type is required")
	}
	a := model.Airplane{
		Name:           strings.TrimSpace(req.Name),
		Rows:           req.Rows,
		SeatsInRow:     req.SeatsInRow,
		AirlineID:      req.Airline,
		AirplaneTypeID: req.AirplaneType,
	}
	ctx := c.Request().Context()
	if err := h.Airplanes.Create(ctx, &a); err != nil {
		return writeError(c, "airplane", err)
	}
	created, err := h.Airplanes.GetByID(ctx, a.ID)
	if err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, toAirplaneResp(created))
}
