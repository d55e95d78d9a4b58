// Package postgres implements the storage backend on PostgreSQL by wrapping
// the GORM backend.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/simularium/simconv/internal/config"
	"github.com/simularium/simconv/internal/database"
	gormstorage "github.com/simularium/simconv/internal/storage/gorm"
)

const maxOpenConns = 10

// Backend wraps the GORM backend for Postgres.
type Backend struct {
	*gormstorage.Backend
}

// New connects to Postgres and validates the connection.
func New(cfg config.PostgresConfig, logger *slog.Logger) (*Backend, error) {
	db, err := database.GetPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: db, Logger: logger}),
	}, nil
}
