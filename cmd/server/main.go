// Package main is the entry point for the resume builder API server.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal — its job is to:
// 1. Read configuration (environment variables and an optional .env file)
// 2. Create dependencies (logger, the storage handle)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sakif/resume-builder/internal/config"
	"github.com/sakif/resume-builder/internal/repository"
	mongoRepo "github.com/sakif/resume-builder/internal/repository/mongo"
	sqliteRepo "github.com/sakif/resume-builder/internal/repository/sqlite"
	"github.com/sakif/resume-builder/internal/server"
)

const storeConnectTimeout = 15 * time.Second

func main() {
	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// Text output for humans in development, JSON for log collectors in production.
	logger := server.Logger(cfg)
	slog.SetDefault(logger)

	// === 3. OPEN THE STORE ===
	// One handle for the whole process. The server closes it on shutdown.
	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger, store)
	if err != nil {
		store.Close()
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStore connects to MongoDB when MONGO_URL is set and otherwise opens
// the SQLite file at DB_PATH, creating its directory if needed.
func openStore(cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.UseMongo() {
		ctx, cancel := context.WithTimeout(context.Background(), storeConnectTimeout)
		defer cancel()

		db, err := mongoRepo.New(ctx, cfg.Mongo.URL, cfg.Mongo.DB)
		if err != nil {
			return nil, err
		}
		logger.Info("using MongoDB store", slog.String("database", cfg.Mongo.DB))
		return db, nil
	}

	// os.MkdirAll creates all parent directories if needed (like `mkdir -p`).
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dbDir, err)
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Info("using SQLite store", slog.String("path", cfg.DBPath))
	return db, nil
}
