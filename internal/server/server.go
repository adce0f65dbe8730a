// Package server wires the HTTP surface together: routes, middleware, the
// execution core, and the optional account and review collaborators.
//
// COMPOSITION ROOT:
// Every dependency is assembled in one place (New/setupRoutes) instead of
// scattered across packages:
//
//	sqlite.DB → AuthService → AuthHandler
//	native.Executor → ExecuteHandler / ReviewHandler
//
// main.go only reads the environment and calls New + Start. That keeps the
// entry point trivial, and tests can build a fully wired server in-process
// without touching main at all.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mkhalal/c-playground/internal/auth"
	"github.com/mkhalal/c-playground/internal/config"
	"github.com/mkhalal/c-playground/internal/executor/native"
	"github.com/mkhalal/c-playground/internal/handler"
	"github.com/mkhalal/c-playground/internal/middleware"
	"github.com/mkhalal/c-playground/internal/profile"
	sqliteRepo "github.com/mkhalal/c-playground/internal/repository/sqlite"
	"github.com/mkhalal/c-playground/internal/review"
	"github.com/mkhalal/c-playground/internal/service"
)

// shutdownGrace is how long in-flight requests get to finish once the
// listener has closed. A worst-case submission is bounded by the compile and
// run timeouts, which sit well under this.
const shutdownGrace = 30 * time.Second

// Config carries everything Start needs. A struct rather than positional
// parameters, so new knobs don't ripple through call sites.
type Config struct {
	Port      int
	DBPath    string        // path to the SQLite database file
	JWTSecret string        // empty disables the account endpoints
	Exec      config.Config // compile/run limits for the execution core
}

// Server holds the router and the resources it owns. The database handle in
// particular belongs to the Server: Start closes it only after the router
// has drained, so pending writes land before the process exits.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// The review engine and profile syncer are external collaborators: pass nil
// when they are not deployed and the corresponding behaviour is simply not
// registered. Same for Config.JWTSecret — without it the server still runs
// code, it just has no accounts.
func New(cfg Config, engine review.Engine, profiles profile.Syncer, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(engine, profiles); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /healthz            → liveness + toolchain availability
//	POST /api/execute        → compile and run a submission
//	POST /api/review         → run + review feedback   [when engine wired]
//	POST /api/auth/register  → create account          [when JWT configured]
//	POST /api/auth/login     → password login          [when JWT configured]
//	POST /api/auth/logout    → clear session cookie    [when JWT configured]
//	GET  /api/me             → logged-in profile       [when JWT configured]
//
// Middleware runs in registration order: the request ID must exist before
// the logger reads it, and the recoverer has to sit outside anything that
// might panic, so RequestID → RealIP → Recoverer → Logger.
func (s *Server) setupRoutes(engine review.Engine, profiles profile.Syncer) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	exec := native.New(s.config.Exec, s.logger)

	healthHandler := handler.NewHealthHandler(exec.Compilers())
	s.router.Get("/healthz", healthHandler.HandleHealth)

	// Session tokens exist only when a secret is configured; everything
	// account-shaped hangs off this.
	var tokens *auth.TokenService
	if s.config.JWTSecret != "" {
		ts, err := auth.NewTokenService(s.config.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
		tokens = ts
	} else {
		s.logger.Warn("JWT secret not configured — account endpoints disabled")
	}

	// identified attaches the caller's identity when a session cookie is
	// present, without requiring one. With auth disabled it's a no-op.
	identified := func(r chi.Router) chi.Router {
		if tokens == nil {
			return r
		}
		return r.With(auth.OptionalAuth(tokens))
	}

	executeHandler := handler.NewExecuteHandler(exec, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		identified(r).Post("/execute", executeHandler.HandleExecute)

		// The review route exists only when an engine is deployed; a 404
		// tells clients the capability is absent, not broken.
		if engine != nil {
			reviewHandler := handler.NewReviewHandler(exec, engine, profiles, s.logger)
			identified(r).Post("/review", reviewHandler.HandleReview)
		}

		if tokens != nil {
			// s.db satisfies repository.UserRepository, the service sees
			// only that interface, and the handler sees only the service.
			// Neither side reaches past its neighbour.
			authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)
			authHandler := handler.NewAuthHandler(authService, s.logger)

			r.Post("/auth/register", authHandler.HandleRegister)
			r.Post("/auth/login", authHandler.HandleLogin)
			r.Post("/auth/logout", authHandler.HandleLogout)
			r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
		}
	})

	return nil
}

// Start runs the HTTP server until it fails or the process is told to stop.
//
// On SIGINT/SIGTERM the listener closes first, then in-flight requests get
// shutdownGrace to finish. The deferred db.Close runs last of all, after the
// final handler has returned, flushing the WAL and releasing the file lock.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("listening",
		slog.String("addr", srv.Addr),
		slog.String("database", s.config.DBPath),
	)

	select {
	case err := <-errc:
		// ListenAndServe never returns nil; ErrServerClosed just means
		// Shutdown won the race and is not a failure.
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-stop:
		s.logger.Info("shutdown requested", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		s.logger.Info("server drained and stopped")
	}

	return nil
}
