// Package server provides the HTTP API over posts, search and counters.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sikfilm/site/internal/config"
	"github.com/sikfilm/site/internal/content"
	"github.com/sikfilm/site/internal/metrics"
	"github.com/sikfilm/site/internal/search"
	"github.com/sikfilm/site/internal/storage"
	"go.uber.org/zap"
)

const apiBasePath = "/api/v1"

// Server is the HTTP server for the site API.
type Server struct {
	repo    *content.Repository
	engine  *search.Engine
	counter storage.Counter // nil disables view and reaction endpoints
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
	now     func() time.Time
}

// NewServer creates a server with the given dependencies.
func NewServer(
	repo *content.Repository,
	engine *search.Engine,
	counter storage.Counter,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		repo:    repo,
		engine:  engine,
		counter: counter,
		config:  cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.config.Debug {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Handle("/metrics", metrics.Handler())

	r.Route(apiBasePath, func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", s.handleListPosts)
			r.Get("/slugs", s.handleListSlugs)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", s.handleGetPost)
				r.Post("/views", s.handleIncrementViews)
				r.Get("/reactions", s.handleGetReactions)
				r.Post("/reactions", s.handleAddReaction)
			})
		})
		r.Get("/search", s.handleSearch)
		r.Get("/settings", s.handleSettings)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
