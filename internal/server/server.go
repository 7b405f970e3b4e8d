// Package server wires the compliance binder service together: it builds
// the dependency graph, maps routes to handlers, and runs the HTTP server
// with graceful shutdown.
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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sakif/compliance-binder/internal/auth"
	"github.com/sakif/compliance-binder/internal/blob"
	"github.com/sakif/compliance-binder/internal/handler"
	"github.com/sakif/compliance-binder/internal/metrics"
	"github.com/sakif/compliance-binder/internal/middleware"
	"github.com/sakif/compliance-binder/internal/report"
	sqliteRepo "github.com/sakif/compliance-binder/internal/repository/sqlite"
	"github.com/sakif/compliance-binder/internal/service"
)

// Config holds everything the server needs to start.
type Config struct {
	Port      int
	DBPath    string
	StaticDir string // optional; "" disables static file serving
	JWTSecret string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router, the database connection, and the blob store. The
// database is closed during graceful shutdown.
type Server struct {
	router  *chi.Mux
	config  Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	limiter *middleware.RateLimiter
}

// New assembles the full dependency chain: database, blob store, services,
// handlers, middleware, routes.
func New(cfg Config, logger *slog.Logger, blobs blob.Store) (*Server, error) {
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

	if err := s.setupRoutes(blobs); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes(blobs blob.Store) error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return err
	}

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	renderer, err := report.New()
	if err != nil {
		return fmt.Errorf("building report renderer: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry, s.db, s.logger)

	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)
	binderService := service.NewBinderService(s.db, s.db, s.db, blobs, renderer, s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	binderHandler := handler.NewBinderHandler(binderService, s.logger)

	var blobPinger blob.Pinger
	if p, ok := blobs.(blob.Pinger); ok {
		blobPinger = p
	}
	healthHandler := handler.NewHealthHandler(s.db, blobPinger, s.logger)

	s.limiter = middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig(), s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger, collector))

	if s.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	s.router.Get("/health", healthHandler.HandleHealth)
	s.router.Handle("/metrics", metrics.Handler(registry))

	// Auth routes run before authentication, so they get the per-IP limiter.
	s.router.Route("/auth", func(r chi.Router) {
		r.Use(s.limiter.Middleware())
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/github/login", authHandler.HandleGitHubLogin)
		r.Get("/github/callback", authHandler.HandleGitHubCallback)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", authHandler.HandleMe)

		r.Get("/binders", binderHandler.HandleList)
		r.Post("/binders", binderHandler.HandleCreate)
		r.Get("/binders/{binderID}", binderHandler.HandleGet)
		r.Delete("/binders/{binderID}", binderHandler.HandleDelete)

		r.Get("/binders/{binderID}/tasks", binderHandler.HandleListTasks)
		r.Post("/binders/{binderID}/tasks", binderHandler.HandleCreateTask)
		r.Post("/tasks/{taskID}/done", binderHandler.HandleCompleteTask)

		r.Get("/binders/{binderID}/documents", binderHandler.HandleListDocuments)
		r.Post("/binders/{binderID}/documents", binderHandler.HandleUploadDocument)
		r.Get("/documents/{documentID}/download", binderHandler.HandleDownloadDocument)

		r.Get("/binders/{binderID}/stats", binderHandler.HandleStats)
		r.Get("/binders/{binderID}/report", binderHandler.HandleReport)
	})

	return nil
}

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until SIGINT or SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()
	defer s.limiter.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // uploads and downloads need headroom
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
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
