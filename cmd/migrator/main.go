// Command migrator applies the database schema and optionally seeds the
// first admin account. It is meant to run once before the server starts,
// typically from a deploy step or a container init job.
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"github.com/listora/realty-api/internal/config"
	"github.com/listora/realty-api/internal/database"
	"github.com/listora/realty-api/internal/repository"
	"github.com/listora/realty-api/pkg/log"
)

func main() {
	var (
		seed          bool
		adminEmail    string
		adminPassword string
		adminName     string
	)
	flag.BoolVar(&seed, "seed", false, "create an initial admin account after migrating")
	flag.StringVar(&adminEmail, "admin-email", "admin@example.com", "email for the seeded admin")
	flag.StringVar(&adminPassword, "admin-password", "", "password for the seeded admin (required with -seed)")
	flag.StringVar(&adminName, "admin-name", "Admin", "display name for the seeded admin")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(cfg.Env)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	logger.Info().Msg("schema up to date")

	if !seed {
		return
	}
	if adminPassword == "" {
		logger.Fatal().Msg("-seed requires -admin-password")
	}

	users := repository.NewUserRepo(db)
	u, err := users.Create(ctx, adminEmail, adminPassword, adminName, nil, "admin", cfg.BcryptCost)
	if errors.Is(err, repository.ErrEmailExists) {
		logger.Info().Str("email", adminEmail).Msg("admin already exists, skipping seed")
		return
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("seed admin failed")
	}
	logger.Info().Int64("id", u.ID).Str("email", u.Email).Msg("admin created")
}
