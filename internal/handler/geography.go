package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-booking/internal/model"
	"github.com/skybook/flight-booking/internal/repository"
)

type CountryStore interface {
	List(ctx context.Context, name string) ([]model.Country, error)
	Create(ctx context.Context, c *model.Country) error
}

type CityStore interface {
	List(ctx context.Context, name, country string) ([]model.City, error)
	Create(ctx context.Context, c *model.City) error
}

type AirportStore interface {
	List(ctx context.Context, name, city string) ([]model.Airport, error)
	Create(ctx context.Context, a *model.Airport) error
}

type RouteStore interface {
	List(ctx context.Context, airport string) ([]model.Route, error)
	GetByID(ctx context.Context, id uint64) (model.Route, error)
	Create(ctx context.Context, r *model.Route) error
}

// GeographyHandler serves countries, cities, airports and routes.
type GeographyHandler struct {
	Countries CountryStore
	Cities    CityStore
	Airports  AirportStore
	Routes    RouteStore
}

func NewGeographyHandler(countries CountryStore, cities CityStore, airports AirportStore, routes RouteStore) *GeographyHandler {
	return &GeographyHandler{Countries: countries, Cities: cities, Airports: airports, Routes: routes}
}

// ListCountries handles GET /v1/countries?name=.
func (h *GeographyHandler) ListCountries(c echo.Context) error {
	items, err := h.Countries.List(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return dbError(c, err)
	}
	out := make([]namedResp, len(items))
	for i, it := range items {
		out[i] = namedResp{ID: it.ID, Name: it.Name}
	}
	return c.JSON(http.StatusOK, out)
}

// CreateCountry handles POST /v1/countries.
func (h *GeographyHandler) CreateCountry(c echo.Context) error {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if field, ok := required("name", req.Name); !ok {
		return badRequest(c, field, field+" is required")
	}
	country := model.Country{Name: strings.TrimSpace(req.Name)}
	if err := h.Countries.Create(c.Request().Context(), &country); err != nil {
		return writeError(c, "country", err)
	}
	return c.JSON(http.StatusCreated, namedResp{ID: country.ID, Name: country.Name})
}

type cityReq struct {
	Name    string `json:"name"`
	Country uint64 `json:"country"`
}

type cityResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type cityCreatedResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Country uint64 `json:"country"`
}

// ListCities handles GET /v1/cities?name=&country=.
func (h *GeographyHandler) ListCities(c echo.Context) error {
	items, err := h.Cities.List(c.Request().Context(), c.QueryParam("name"), c.QueryParam("country"))
	if err != nil {
		return dbError(c, err)
	}
	out := make([]cityResp, len(items))
	for i, it := range items {
		out[i] = cityResp{ID: it.ID, Name: it.Name, Country: it.CountryName}
	}
	return c.JSON(http.StatusOK, out)
}

// CreateCity handles POST /v1/cities.
func (h *GeographyHandler) CreateCity(c echo.Context) error {
	var req cityReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if field, ok := required("name", req.Name); !ok {
		return badRequest(c, field, field+" is required")
	}
	if req.Country == 0 {
		return badRequest(c, "country", "country is required")
	}
	city := model.City{Name: strings.TrimSpace(req.Name), CountryID: req.Country}
	if err := h.Cities.Create(c.Request().Context(), &city); err != nil {
		return writeError(c, "city", err)
	}
	return c.JSON(http.StatusCreated, cityCreatedResp{ID: city.ID, Name: city.Name, Country: city.CountryID})
}

type airportReq struct {
	Name string `json:"name"`
	City uint64 `json:"city"`
}

type airportResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type airportCreatedResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	City uint64 `json:"city"`
}

// ListAirports handles GET /v1/airports?name=&city=.
func (h *GeographyHandler) ListAirports(c echo.Context) error {
	items, err := h.Airports.List(c.Request().Context(), c.QueryParam("name"), c.QueryParam("city"))
	if err != nil {
		return dbError(c, err)
	}
	out := make([]airportResp, len(items))
	for i, it := range items {
		out[i] = airportResp{ID: it.ID, Name: it.Name, City: it.CityName}
	}
	return c.JSON(http.StatusOK, out)
}

// CreateAirport handles POST /v1/airports.
func (h *GeographyHandler) CreateAirport(c echo.Context) error {
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if field, ok := required("name", req.Name); !ok {
		return badRequest(c, field, field+" is required")
	}
	if req.City == 0 {
		return badRequest(c, "city", "city is required")
	}
	ap := model.Airport{Name: strings.TrimSpace(req.Name), CityID: req.City}
	if err := h.Airports.Create(c.Request().Context(), &ap); err != nil {
		return writeError(c, "airport", err)
	}
	return c.JSON(http.StatusCreated, airportCreatedResp{ID: ap.ID, Name: ap.Name, City: ap.CityID})
}

type routeReq struct {
	Source      uint64 `json:"source"`
	Destination uint64 `json:"destination"`
	Distance    int    `json:"distance"`
}

type routeListResp struct {
	ID              uint64 `json:"id"`
	Code            string `json:"code"`
	SourceName      string `json:"source_name"`
	DestinationName string `json:"destination_name"`
	Distance        int    `json:"distance"`
}

type routeDetailResp struct {
	ID          uint64      `json:"id"`
	Code        string      `json:"code"`
	Source      airportResp `json:"source"`
	Destination airportResp `json:"destination"`
	Distance    int         `json:"distance"`
}

func toRouteDetail(r model.Route) routeDetailResp {
	return routeDetailResp{
		ID:          r.ID,
		Code:        r.Code(),
		Source:      airportResp{ID: r.Source.ID, Name: r.Source.Name, City: r.Source.CityName},
		Destination: airportResp{ID: r.Destination.ID, Name: r.Destination.Name, City: r.Destination.CityName},
		Distance:    r.Distance,
	}
}

// ListRoutes handles GET /v1/routes?airport=.  The filter matches either end.
func (h *GeographyHandler) ListRoutes(c echo.Context) error {
	items, err := h.Routes.List(c.Request().Context(), c.QueryParam("airport"))
	if err != nil {
		return dbError(c, err)
	}
	out := make([]routeListResp, len(items))
	for i, r := range items {
		out[i] = routeListResp{
			ID:              r.ID,
			Code:            r.Code(),
			SourceName:      r.Source.Name,
			DestinationName: r.Destination.Name,
			Distance:        r.Distance,
		}
	}
	return c.JSON(http.StatusOK, out)
}

// GetRoute handles GET /v1/routes/:id.
func (h *GeographyHandler) GetRoute(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "id", "invalid route id")
	}
	r, err := h.Routes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "route")
		}
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, toRouteDetail(r))
}

// CreateRoute handles POST /v1/routes.  Source equal to destination is
// accepted as stored data allows it.
func (h *GeographyHandler) CreateRoute(c echo.Context) error {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	switch {
	case req.Source == 0:
		return badRequest(c, "source", "source is required")
	case req.Destination == 0:
		return badRequest(c, "destination", "destination is required")
	case req.Distance < 0:
		return badRequest(c, "distance", "distance must not be negative")
	}
	r := model.Route{SourceID: req.Source, DestinationID: req.Destination, Distance: req.Distance}
	ctx := c.Request().Context()
	if err := h.Routes.Create(ctx, &r); err != nil {
		return writeError(c, "route", err)
	}
	created, err := h.Routes.GetByID(ctx, r.ID)
	if err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, toRouteDetail(created))
}
