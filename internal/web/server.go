// Package web provides the HTTP server, web UI and JSON API for PulsePlay.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/justestif/pulseplay/internal/catalog"
	"github.com/justestif/pulseplay/internal/spotify"
	"github.com/justestif/pulseplay/internal/tiers"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// Recommender picks tracks for a mood.
type Recommender interface {
	Recommend(moodName string, k int) []catalog.Track
}

// ArtworkFetcher looks up display artwork for tracks.
type ArtworkFetcher interface {
	Artwork(ctx context.Context, tracks []catalog.Track) (map[string]spotify.Artwork, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	TemplatesFS fs.FS
	StaticFS    fs.FS

	Catalog  *catalog.Catalog
	Selector Recommender
	Tiers    tiers.Scale

	Artwork ArtworkFetcher // optional
	DB      Pinger         // optional

	Logger *slog.Logger
}

// Server is the HTTP server for the web application.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	logger   *slog.Logger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Selector == nil {
		return nil, errors.New("a recommender is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	handlers := NewHandlers(HandlersConfig{
		Templates: templates,
		Catalog:   cfg.Catalog,
		Selector:  cfg.Selector,
		Tiers:     cfg.Tiers,
		Artwork:   cfg.Artwork,
		DB:        cfg.DB,
		Logger:    cfg.Logger,
	})

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: handlers,
		logger:   cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	if staticFS != nil {
		fileServer := http.FileServer(http.FS(staticFS))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	// Pages
	s.router.Get("/", s.handlers.Home)
	s.router.Get("/recommendations", s.handlers.RecommendationsPartial)

	// API
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/moods", s.handlers.Moods)
		r.Get("/recommendations", s.handlers.Recommendations)
		r.Get("/recommendations.md", s.handlers.RecommendationsMarkdown)
	})

	s.router.Get("/healthz", s.handlers.Health)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("Starting server", slog.String("url", "http://"+s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}
