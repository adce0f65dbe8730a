// Package config holds the execution limits, sourced from the environment
// once at startup. The Config value is immutable after construction and is
// passed explicitly to whoever needs it.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	DefaultCompileTimeout = 6000 * time.Millisecond
	DefaultRunTimeout     = 3000 * time.Millisecond
	DefaultMaxOutputBytes = 64 * 1024
)

// Config carries the per-execution resource limits.
type Config struct {
	CompileTimeout time.Duration // wall-clock limit for the compiler process
	RunTimeout     time.Duration // wall-clock limit for the compiled program
	MaxOutputBytes int           // stdout+stderr byte allowance, shared per process
	Compiler       string        // preferred compiler; empty means use the built-in candidates
}

// Default returns the built-in limits.
func Default() Config {
	return Config{
		CompileTimeout: DefaultCompileTimeout,
		RunTimeout:     DefaultRunTimeout,
		MaxOutputBytes: DefaultMaxOutputBytes,
	}
}

// FromEnv builds a Config from the environment. Unset variables keep their
// defaults; unparseable or non-positive values are logged and ignored rather
// than rejected, so a bad variable can never take the service down.
func FromEnv(logger *slog.Logger) Config {
	cfg := Default()

	cfg.CompileTimeout = millisFromEnv(logger, "COMPILE_TIMEOUT_MS", cfg.CompileTimeout)
	cfg.RunTimeout = millisFromEnv(logger, "RUN_TIMEOUT_MS", cfg.RunTimeout)

	if raw := os.Getenv("MAX_OUTPUT_BYTES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.MaxOutputBytes = n
		} else {
			logger.Warn("ignoring invalid MAX_OUTPUT_BYTES",
				slog.String("value", raw),
				slog.Int("default", cfg.MaxOutputBytes))
		}
	}

	cfg.Compiler = os.Getenv("COMPILER")

	return cfg
}

func millisFromEnv(logger *slog.Logger, key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Warn("ignoring invalid timeout",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", fallback))
		return fallback
	}
	return time.Duration(n) * time.Millisecond
}
