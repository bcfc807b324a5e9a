package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_portal/internal/config"
	"github.com/Freeeeeet/booking_portal/internal/migrations"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/Freeeeeet/booking_portal/internal/repository/memory"
	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OpenStores выбирает хранилище по конфигу и возвращает функцию закрытия пула
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Stores, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return service.Stores{
			Teachers:       store.Teachers(),
			Students:       store.Students(),
			Availabilities: store.Availabilities(),
			Appointments:   store.Appointments(),
			Accounts:       store.Accounts(),
			Tokens:         store.Tokens(),
		}, func() {}, nil
	}

	pool, err := ConnectPostgres(ctx, cfg.GetDBDSN())
	if err != nil {
		return service.Stores{}, nil, err
	}
	logger.Info("Connected to PostgreSQL")

	if cfg.MigrateOnStart {
		if err := Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return service.Stores{}, nil, err
		}
	}

	return service.Stores{
		Teachers:       repository.NewTeacherRepository(pool),
		Students:       repository.NewStudentRepository(pool),
		Availabilities: repository.NewAvailabilityRepository(pool),
		Appointments:   repository.NewAppointmentRepository(pool),
		Accounts:       repository.NewAccountRepository(pool),
		Tokens:         repository.NewTokenRepository(pool),
	}, pool.Close, nil
}

// Migrate применяет встроенные миграции
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	mg, err := NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := mg.Run(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
