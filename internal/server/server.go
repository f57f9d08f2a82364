// Package server wires handlers, middleware, and routes together and owns
// the HTTP server lifecycle.
//
// This is the composition root: New assembles the whole dependency chain
// in one place —
//
//	jsonfile.DB → SnippetService/AuthService → handlers → router
//
// — so no other package constructs its own dependencies.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snippetvault/internal/auth"
	"github.com/sakif/snippetvault/internal/config"
	"github.com/sakif/snippetvault/internal/handler"
	"github.com/sakif/snippetvault/internal/metrics"
	"github.com/sakif/snippetvault/internal/middleware"
	"github.com/sakif/snippetvault/internal/repository/jsonfile"
	"github.com/sakif/snippetvault/internal/service"
	"github.com/sakif/snippetvault/internal/session"
)

// Server holds the router and the dependencies whose lifecycle it owns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
}

// New builds the full dependency graph and the route table.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := jsonfile.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening data store: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	sessions := session.NewMemoryStore()

	var github *auth.GitHubProvider
	if cfg.GitHubEnabled() {
		github = auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL)
	}

	authService := service.NewAuthService(db.Users, tokens, passwords, sessions, logger)
	snippetService := service.NewSnippetService(db.Snippets, db.Users, logger)

	authHandler := handler.NewAuthHandler(authService, github, logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, logger)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}
	s.setupRoutes(authHandler, snippetHandler, tokens, sessions, github != nil)
	return s, nil
}

// Handler returns the root http.Handler, mainly for httptest in end-to-end
// tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and the route table.
//
// Middleware order matters: request id first (so everything downstream can
// log it), then panic recovery, then logging and metrics around the actual
// handlers.
func (s *Server) setupRoutes(
	authHandler *handler.AuthHandler,
	snippetHandler *handler.SnippetHandler,
	tokens *auth.TokenService,
	sessions session.Store,
	githubEnabled bool,
) {
	prom := metrics.New()

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(prom.Middleware)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	s.router.Method(http.MethodGet, "/metrics", prom.Handler())

	// Public auth endpoints.
	s.router.Post("/api/register", authHandler.HandleRegister)
	s.router.Post("/api/login", authHandler.HandleLogin)

	if githubEnabled {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	// Everything below requires a live session.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, sessions))

		r.Post("/api/logout", authHandler.HandleLogout)

		r.Post("/api/snippets", snippetHandler.HandleCreate)
		r.Get("/api/snippets", snippetHandler.HandleList)
		r.Get("/api/snippets/search", snippetHandler.HandleSearch)
		r.Put("/api/snippets/{id}", snippetHandler.HandleUpdate)
		r.Delete("/api/snippets/{id}", snippetHandler.HandleDelete)
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to finish.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("dataDir", s.config.DataDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
