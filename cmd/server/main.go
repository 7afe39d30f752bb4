// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

// Package main is the entry point for the Dispatchmap server.
//
// Dispatchmap monitors public-safety radio streams and pushes transcribed
// dispatch events to a live dashboard. Each registered stream gets a
// periodic monitor task that generates a transcription, persists it to
// DuckDB, and broadcasts it to connected WebSocket clients.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Database: Initialize DuckDB and the stream/transcription schema
//  3. WebSocket Hub: Enable real-time updates to connected clients
//  4. Monitor Manager: Per-stream transcription schedulers
//  5. Reconciliation: Resume monitors for persisted-active streams, seed examples if empty
//  6. HTTP Server: REST API plus the /ws upgrade endpoint
//
// All long-running components run under a suture/v4 supervisor tree so a
// crash in one restarts only that component.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (HTTP_PORT, DUCKDB_PATH, MONITOR_INTERVAL, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Stops all monitor tasks and closes WebSocket clients
//   - Closes the database connection
//
// # Example Usage
//
// Development with seeded example streams:
//
//	export SEED_EXAMPLE_STREAMS=true
//	export LOG_FORMAT=console
//	./dispatchmap
//
// Production:
//
//	export DUCKDB_PATH=/data/dispatchmap.db
//	export CORS_ORIGINS=https://dashboard.example.com
//	./dispatchmap
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dispatchmap/dispatchmap/internal/api"
	"github.com/dispatchmap/dispatchmap/internal/config"
	"github.com/dispatchmap/dispatchmap/internal/database"
	"github.com/dispatchmap/dispatchmap/internal/eventgen"
	"github.com/dispatchmap/dispatchmap/internal/logging"
	"github.com/dispatchmap/dispatchmap/internal/monitor"
	"github.com/dispatchmap/dispatchmap/internal/supervisor"
	"github.com/dispatchmap/dispatchmap/internal/supervisor/services"
	ws "github.com/dispatchmap/dispatchmap/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Dur("monitor_interval", cfg.Monitor.Interval).
		Bool("seed_examples", cfg.Monitor.SeedExamples).
		Msg("Starting Dispatchmap")

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// WebSocket hub for real-time updates; created before the monitor
	// manager since the manager broadcasts through it
	wsHub := ws.NewHub()

	// Monitor manager drives one transcription scheduler per active stream
	source := eventgen.NewSyntheticSource()
	manager := monitor.NewManager(db, source, wsHub, &cfg.Monitor)

	// Reconcile registry state before serving: resume monitors for streams
	// persisted as active, or seed example streams into an empty registry
	if err := monitor.Reconcile(ctx, db, manager, cfg.Monitor.SeedExamples); err != nil {
		logging.Fatal().Err(err).Msg("Failed to reconcile stream registry")
	}

	handler := api.NewHandler(db, manager, wsHub, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Messaging layer services
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(manager)
	logging.Info().Msg("WebSocket hub and monitor manager added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
