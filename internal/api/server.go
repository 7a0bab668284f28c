package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/wikidoc/internal/config"
	"github.com/dgallion1/wikidoc/internal/parser"
	"github.com/dgallion1/wikidoc/internal/pipeline"
	"github.com/dgallion1/wikidoc/internal/source"
)

// Server is the HTTP API server for wikidoc.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	parser       *parser.Parser
	fetcher      source.Fetcher
	stats        *pipeline.Stats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, p *parser.Parser, fetcher source.Fetcher, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		parser:       p,
		fetcher:      fetcher,
		stats:        orch.Stats(),
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

		r.Post("/api/parse", s.handleParse)
		r.Post("/api/summary", s.handleSummary)
		r.Post("/api/links", s.handleLinks)
		r.Post("/api/categories", s.handleCategories)
		r.Post("/api/infobox", s.handleInfobox)
		r.Post("/api/render", s.handleRender)

		r.Get("/api/page/{lang}/*", s.handlePage)

		r.Post("/api/batch", s.handleBatch)
		r.Get("/api/batch/{jobID}", s.handleBatchStatus)
		r.Get("/api/batch/{jobID}/results", s.handleBatchResults)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
