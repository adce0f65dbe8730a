// Package main is the entry point for the C playground server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main"
// package. The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars or a .env file)
// 2. Create dependencies (logger, database connections, etc.)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/executor, etc.). This separation makes the app testable and its
// components reusable.
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points.
// A project might have multiple executables (e.g., cmd/server, cmd/migrate).
// Each gets its own directory with its own main.go.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mkhalal/c-playground/internal/config"
	"github.com/mkhalal/c-playground/internal/server"
)

func main() {
	// === 1. LOAD .env (OPTIONAL) ===
	// godotenv.Load reads KEY=VALUE pairs from a .env file into the process
	// environment. Real environment variables take precedence, and a missing
	// file is not an error — production deployments set the environment
	// directly.
	_ = godotenv.Load()

	// === 2. SET UP LOGGING ===
	// slog.New creates a structured logger; NewTextHandler outputs
	// human-readable lines to the terminal.
	//
	// Log levels (least to most severe): Debug → Info → Warn → Error.
	// In production you'd raise this to LevelInfo to reduce noise.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === 3. READ SERVER CONFIGURATION ===
	// Port comes from PORT, defaulting to 8080. os.Getenv returns "" when
	// the variable isn't set, so we check and provide a default.
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// Execution limits (compile/run timeouts, output budget, compiler
	// override) come from their own env variables with safe defaults.
	execCfg := config.FromEnv(logger)

	// === 4. DATABASE PATH ===
	// Default to "data/playground.db" in the project root. DB_PATH allows
	// overriding for production deployments, e.g.
	// DB_PATH=/var/lib/playground/prod.db
	dbPath := "data/playground.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// Ensure the data directory exists. os.MkdirAll creates all parent
	// directories if needed (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 5. AUTH CONFIGURATION ===
	// JWT_SECRET must be a long random string. Use:
	//   JWT_SECRET=$(openssl rand -hex 32)
	// If unset, accounts are disabled (server still runs code, auth routes
	// are not registered).
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Warn("JWT_SECRET not set — accounts are disabled")
	}

	// === 6. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
		Exec:      execCfg,
	}

	// The review engine and profile syncer are deployed separately; this
	// binary runs without them and the /api/review route stays unregistered.
	srv, err := server.New(cfg, nil, nil, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
