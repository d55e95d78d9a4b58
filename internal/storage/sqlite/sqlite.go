// Package sqlitestorage implements the storage backend on a SQLite database.
// It wraps the GORM backend via composition; the only SQLite-specific concern
// is opening the database file (or a private in-memory database).
package sqlitestorage

import (
	"fmt"
	"log/slog"

	"github.com/simularium/simconv/internal/config"
	"github.com/simularium/simconv/internal/database"
	gormstorage "github.com/simularium/simconv/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite.
type Backend struct {
	*gormstorage.Backend
	cfg config.SQLiteConfig
}

// New opens the SQLite database at cfg.Path. An empty path keeps the
// database in memory.
func New(cfg config.SQLiteConfig, logger *slog.Logger) (*Backend, error) {
	db, err := database.GetSqliteDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: db, Logger: logger}),
		cfg:     cfg,
	}, nil
}

// Path returns the database file, or "" for an in-memory database.
func (b *Backend) Path() string {
	return b.cfg.Path
}
