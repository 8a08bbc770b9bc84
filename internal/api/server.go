// Package api exposes the document analyzer over HTTP: uploads are queued
// as analysis jobs, and finished artifacts can be searched and queried for
// section context.
package api

import (
	"log/slog"
	"net/http"

	"github.com/deduar/document-analizer/internal/config"
	"github.com/deduar/document-analizer/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for the analyzer.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        *pipeline.JobStore
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, store *pipeline.JobStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        store,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/analyze", s.handleAnalyze)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/sections/search", s.handleSectionSearch)
		r.Get("/api/sections/{sectionID}/context", s.handleSectionContext)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
