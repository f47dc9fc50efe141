package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docnav/internal/build"
	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/navigation"
	"github.com/dgallion1/docnav/internal/project"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docnav.
type Server struct {
	router       chi.Router
	orchestrator *build.Orchestrator
	nav          *navigation.Annotator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. Every completed build
// re-initializes nav with the built project.
func NewServer(orch *build.Orchestrator, nav *navigation.Annotator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		nav:          nav,
		log:          log,
		cfg:          cfg,
	}
	orch.OnComplete(s.publish)
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
	r.Handle("/site/*", http.StripPrefix("/site/", http.FileServer(http.Dir(s.cfg.OutDir))))

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/builds", s.handleBuild)
		r.Get("/api/builds/{jobID}/status", s.handleBuildStatus)
		r.Get("/api/stats", s.handleStats)

		r.Get("/api/navigation", s.handleNavigation)
		r.Post("/api/navigation/reload", s.handleReload)
	})

	s.router = r
}

func (s *Server) publish(p *project.Project) {
	if err := s.nav.Initialize(p); err != nil {
		s.log.Error("navigation refresh failed", "project", p.Name, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
