package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"animediary/internal/api/models"
)

// Pool is the shared pgx pool, used for lightweight connection health
// checks outside gorm.
var Pool *pgxpool.Pool

// Connect initializes the pgx pool and verifies the connection.
func Connect(databaseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	Pool = pool
	return nil
}

// Close releases the pgx pool.
func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}

// Ping verifies the pooled connection is still alive.
func Ping(ctx context.Context) error {
	if Pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	return Pool.Ping(ctx)
}

// OpenGorm opens the gorm handle used by the repositories. TranslateError
// turns driver-specific constraint violations into gorm sentinels so the
// service layer can map them to conflict errors.
func OpenGorm(databaseURL string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	log.Info("connected to the database")
	return db, nil
}

// Migrate creates or updates the three diary tables.
func Migrate(db *gorm.DB, log *slog.Logger) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Anime{},
		&models.DiaryEntry{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations applied")
	return nil
}
