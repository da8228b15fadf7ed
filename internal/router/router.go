// Package router registers the HTTP routes of the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-booking/internal/access"
	"github.com/skybook/flight-booking/internal/handler"
	"github.com/skybook/flight-booking/internal/middleware"
	"github.com/skybook/flight-booking/internal/model"
)

// Handlers groups everything the API routes need.
type Handlers struct {
	Auth      *handler.AuthHandler
	Fleet     *handler.FleetHandler
	Geography *handler.GeographyHandler
	Flights   *handler.FlightHandler
	Orders    *handler.OrderHandler
	Ready     echo.HandlerFunc
}

// RegisterRoutes registers unauthenticated probe routes.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)
	if h.Ready != nil {
		e.GET("/readyz", h.Ready)
	}
}

// RegisterAuth registers the account routes.  Token exchange lives under
// /v1/auth and needs no session; /v1/me needs a valid access token.
func RegisterAuth(v1 *echo.Group, a *handler.AuthHandler) {
	g := v1.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	v1.GET("/me", a.Me, middleware.RequireRole(model.RoleCustomer, model.RoleStaff))
}

// RegisterAPI registers the catalogue and order collections.  Each
// collection group enforces the access policy before its handlers run.
func RegisterAPI(v1 *echo.Group, h Handlers) {
	collection := func(path string, res access.Resource) *echo.Group {
		return v1.Group(path, middleware.Authorize(res))
	}

	airlines := collection("/airlines", access.Airlines)
	airlines.GET("", h.Fleet.ListAirlines)
	airlines.POST("", h.Fleet.CreateAirline)

	types := collection("/airplane-types", access.AirplaneTypes)
	types.GET("", h.Fleet.ListAirplaneTypes)
	types.POST("", h.Fleet.CreateAirplaneType)

	airplanes := collection("/airplanes", access.Airplanes)
	airplanes.GET("", h.Fleet.ListAirplanes)
	airplanes.POST("", h.Fleet.CreateAirplane)

	countries := collection("/countries", access.Countries)
	countries.GET("", h.Geography.ListCountries)
	countries.POST("", h.Geography.CreateCountry)

	cities := collection("/cities", access.Cities)
	cities.GET("", h.Geography.ListCities)
	cities.POST("", h.Geography.CreateCity)

	airports := collection("/airports", access.Airports)
	airports.GET("", h.Geography.ListAirports)
	airports.POST("", h.Geography.CreateAirport)

	routes := collection("/routes", access.Routes)
	routes.GET("", h.Geography.ListRoutes)
	routes.POST("", h.Geography.CreateRoute)
	routes.GET("/:id", h.Geography.GetRoute)

	crew := collection("/crew-members", access.CrewMembers)
	crew.GET("", h.Flights.ListCrew)
	crew.POST("", h.Flights.CreateCrew)

	meals := collection("/meals", access.Meals)
	meals.GET("", h.Flights.ListMeals)

	flights := collection("/flights", access.Flights)
	flights.GET("", h.Flights.ListFlights)
	flights.POST("", h.Flights.CreateFlight)
	flights.GET("/:id", h.Flights.GetFlight)
	flights.PUT("/:id", h.Flights.UpdateFlight)
	flights.PATCH("/:id", h.Flights.UpdateFlight)
	flights.DELETE("/:id", h.Flights.DeleteFlight)

	orders := collection("/orders", access.Orders)
	orders.GET("", h.Orders.ListOrders)
	orders.POST("", h.Orders.CreateOrder)
	orders.GET("/:id", h.Orders.GetOrder)
}
