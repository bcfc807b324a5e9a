package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/Freeeeeet/booking_portal/internal/app"
	"github.com/Freeeeeet/booking_portal/internal/auth"
	"github.com/Freeeeeet/booking_portal/internal/config"
	"github.com/Freeeeeet/booking_portal/internal/migrations"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/Freeeeeet/booking_portal/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Storage != config.StoragePostgres {
		log.Fatalf("portaladmin works with %s storage only", config.StoragePostgres)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()
	pool, err := app.ConnectPostgres(ctx, cfg.GetDBDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	defer migrator.Close()

	cli := commandLine{
		auth: service.NewAuthService(
			repository.NewAccountRepository(pool),
			repository.NewTokenRepository(pool),
			auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL),
			logger,
		),
		migrator: migrator,
		out:      os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			log.Printf("error: %s", err)
		}
		os.Exit(1)
	}
}
