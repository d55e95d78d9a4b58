package main

import (
	"fmt"
	"log/slog"

	"github.com/simularium/simconv/internal/config"
	"github.com/simularium/simconv/internal/storage"
	"github.com/simularium/simconv/internal/storage/memory"
	pgstorage "github.com/simularium/simconv/internal/storage/postgres"
	sqlitestorage "github.com/simularium/simconv/internal/storage/sqlite"
	wsstorage "github.com/simularium/simconv/internal/storage/websocket"
)

// openStorage creates and initializes the configured backend.
func openStorage(storageCfg config.StorageConfig, logger *slog.Logger) (storage.Backend, error) {
	backend, err := createStorageBackend(storageCfg, logger)
	if err != nil {
		return nil, err
	}
	if err := backend.Init(); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to initialize %s storage: %w", storageCfg.Type, err)
	}
	return backend, nil
}

func createStorageBackend(storageCfg config.StorageConfig, logger *slog.Logger) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		backend, err := pgstorage.New(storageCfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres backend: %w", err)
		}
		logger.Info("Postgres storage backend initialized", "host", storageCfg.Postgres.Host)
		return backend, nil

	case "sqlite":
		backend, err := sqlitestorage.New(storageCfg.SQLite, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		logger.Info("SQLite storage backend initialized", "path", storageCfg.SQLite.Path)
		return backend, nil

	case "websocket":
		logger.Info("WebSocket storage backend initialized", "url", storageCfg.WebSocket.URL)
		return wsstorage.New(storageCfg.WebSocket, logger), nil

	case "memory", "":
		logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageCfg.Type)
	}
}
