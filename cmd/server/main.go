package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/skybook/flight-booking/internal/booking"
	"github.com/skybook/flight-booking/internal/config"
	"github.com/skybook/flight-booking/internal/database"
	"github.com/skybook/flight-booking/internal/handler"
	"github.com/skybook/flight-booking/internal/middleware"
	"github.com/skybook/flight-booking/internal/queue"
	"github.com/skybook/flight-booking/internal/repository"
	"github.com/skybook/flight-booking/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	flights := repository.NewFlightRepo(db)
	orders := repository.NewOrderRepo(db)

	// Order events
	qcfg := config.LoadQueueConfig()
	var events handler.OrderEvents
	if qcfg.Enabled {
		events = queue.NewPublisher(qcfg.URL, qcfg.Queue)
		consumer := queue.NewConsumer(qcfg.URL, qcfg.Queue, qcfg.LogPath)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("order-consumer stopped: %v", err)
			}
		}()
	}

	h := router.Handlers{
		Auth: handler.NewAuthHandler(cfg, users, tokens),
		Fleet: handler.NewFleetHandler(
			repository.NewAirlineRepo(db),
			repository.NewAirplaneTypeRepo(db),
			repository.NewAirplaneRepo(db),
		),
		Geography: handler.NewGeographyHandler(
			repository.NewCountryRepo(db),
			repository.NewCityRepo(db),
			repository.NewAirportRepo(db),
			repository.NewRouteRepo(db),
		),
		Flights: handler.NewFlightHandler(repository.NewCrewRepo(db), repository.NewMealRepo(db), flights),
		Orders:  handler.NewOrderHandler(orders, booking.NewOrderService(db, flights, orders), events),
		Ready:   handler.Ready(db),
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))

	router.RegisterRoutes(e, h)

	v1 := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	if rdb := config.NewRedisClient(); rdb != nil {
		defer rdb.Close()
		v1.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	} else {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	router.RegisterAuth(v1, h.Auth)
	router.RegisterAPI(v1, h)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
