// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// It decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes, and in what order
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//
//	config → logger → repository.Store (SQLite or MongoDB)
//
// server.New() creates:
//
//	TokenService, PasswordService → AuthService, ResumeService → handlers
//
// The store is created outside and handed in, so the server never decides
// which backend it talks to. It does own the store's lifetime from then on
// and closes it after shutdown.
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

	"github.com/sakif/resume-builder/internal/auth"
	"github.com/sakif/resume-builder/internal/config"
	"github.com/sakif/resume-builder/internal/handler"
	"github.com/sakif/resume-builder/internal/middleware"
	"github.com/sakif/resume-builder/internal/repository"
	"github.com/sakif/resume-builder/internal/service"
)

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	store  repository.Store
	tokens *auth.TokenService
}

// New wires the dependency graph and the routes on top of store.
func New(cfg *config.Config, logger *slog.Logger, store repository.Store) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
		tokens: tokens,
	}
	s.setupRoutes()

	return s, nil
}

// Handler exposes the fully wired router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /api                            → status
// GET    /api/health                     → readiness (pings the store)
// POST   /api/auth/register              → create account
// POST   /api/auth/login                 → start session (sets cookie)
// POST   /api/auth/logout                → end session (clears cookie)
// GET    /api/auth/profile               → current user          [auth]
// POST   /api/resume                     → create resume         [auth]
// GET    /api/resume                     → list own resumes      [auth]
// GET    /api/resume/{id}                → get one               [auth]
// PUT    /api/resume/{id}                → update                [auth]
// PUT    /api/resume/{id}/upload-images  → set image links       [auth]
// DELETE /api/resume/{id}                → delete                [auth]
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Each stage either passes
// the request on or answers it itself:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
// 5. CORS — rejects foreign origins with 403, answers preflights with 204
// 6. RequestSize + AllowContentType — on /api only; 415 for non-JSON bodies
// 7. RequireAuth — on protected routes only; 401 without a valid session
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS(s.config.AllowedOrigins()))

	passwords := auth.NewPasswordService(s.config.BcryptCost)
	cookies := auth.CookiePolicy{Production: s.config.IsProduction()}

	authService := service.NewAuthService(s.store, s.tokens, passwords, s.logger)
	resumeService := service.NewResumeService(s.store, s.logger)

	authHandler := handler.NewAuthHandler(authService, cookies, s.logger)
	resumeHandler := handler.NewResumeHandler(resumeService, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	requireAuth := auth.RequireAuth(s.tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.RequestSize(s.config.MaxBodyBytes))
		r.Use(chimiddleware.AllowContentType("application/json"))

		r.Get("/", healthHandler.HandleStatus)
		r.Get("/health", healthHandler.HandleReady)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
			r.With(requireAuth).Get("/profile", authHandler.HandleProfile)
		})

		r.Route("/resume", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", resumeHandler.HandleCreate)
			r.Get("/", resumeHandler.HandleList)
			r.Get("/{id}", resumeHandler.HandleGet)
			r.Put("/{id}", resumeHandler.HandleUpdate)
			r.Put("/{id}/upload-images", resumeHandler.HandleUploadImages)
			r.Delete("/{id}", resumeHandler.HandleDelete)
		})
	})
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (SHUTDOWN_TIMEOUT)
// 3. Close the store (flushes the SQLite WAL / disconnects from MongoDB)
//
// The store is closed on every return path, including a failed listen.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("env", s.config.Env),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Logger builds the process logger: text in development, JSON in
// production, at the configured level.
func Logger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
