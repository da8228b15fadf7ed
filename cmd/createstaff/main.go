// Command createstaff creates a staff account that may manage the
// catalogue.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/skybook/flight-booking/internal/config"
	"github.com/skybook/flight-booking/internal/database"
	"github.com/skybook/flight-booking/internal/model"
	"github.com/skybook/flight-booking/internal/repository"
)

func main() {
	email := flag.String("email", "", "staff email")
	password := flag.String("password", "", "staff password")
	flag.Parse()
	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("email and password are required")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

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

	u, err := repository.NewUserRepo(db).Create(ctx, *email, *password, model.RoleStaff, cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			log.Fatalf("%s is already registered", *email)
		}
		log.Fatalf("create staff: %v", err)
	}
	log.Printf("created staff user %d (%s)", u.ID, u.Email)
}
