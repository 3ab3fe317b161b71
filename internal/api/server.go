// Package api serves build reports and compiled PDFs over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/texbuild/internal/config"
	"github.com/dgallion1/texbuild/internal/pipeline"
	"github.com/dgallion1/texbuild/internal/report"
)

// Server is the preview HTTP server started by --serve. It exposes the run
// report from the build that launched it and can rerun the pipeline on
// demand.
type Server struct {
	router chi.Router
	orch   *pipeline.Orchestrator
	log    *slog.Logger
	cfg    config.Config

	mu     sync.Mutex
	latest *report.Run

	// building admits one pipeline run at a time.
	building sync.Mutex
}

// NewServer creates and configures the preview server. initial is the run
// report produced before the server started; it may be nil when the initial
// discovery found no documents.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config, initial *report.Run) *Server {
	s := &Server{
		orch:   orch,
		log:    log,
		cfg:    cfg,
		latest: initial,
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

	r.Get("/health", s.handleHealth)
	r.Get("/pdf/*", s.handlePDF)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey))
		}

		r.Get("/api/report", s.handleReport)
		r.Get("/api/documents", s.handleDocuments)
		r.Post("/api/build", s.handleBuild)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// latestRun returns the most recent run report, if any.
func (s *Server) latestRun() *report.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Server) setLatest(run *report.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = run
}
