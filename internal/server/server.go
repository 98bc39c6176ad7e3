// Package server is the coach's HTTP surface: the roster API, the tabular
// endpoint, health, metrics and the MCP endpoint.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/studentup/internal/ingest/alpha"
	"github.com/claude/studentup/internal/report"
	"github.com/claude/studentup/internal/roster"
	"github.com/claude/studentup/internal/sheet"
)

// Deps are the optional collaborators of a Server. Nil fields disable the
// routes that need them.
type Deps struct {
	// Sheets hosts the tabular endpoint at /sheet and /exec.
	Sheets *sheet.Service
	// Importer accepts Alpha Progression exports.
	Importer *alpha.Importer
	// Reports renders PDF training reports.
	Reports *report.Renderer
	// MCP is the streamable HTTP MCP handler mounted at /mcp.
	MCP http.Handler
	// Registerer receives HTTP metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	// Gatherer is exposed at /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *roster.Store
	deps     Deps
	log      *slog.Logger
	apiKey   string
	validate *validator.Validate
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(store *roster.Store, deps Deps, apiKey string, log *slog.Logger) *Server {
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		store:    store,
		deps:     deps,
		log:      log,
		apiKey:   apiKey,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(RequestMetrics(s.deps.Registerer))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))

	s.router.Route("/api/v1", func(r chi.Router) {
		// Reads (no auth, tsnet handles access)
		r.Get("/categories", s.handleCategories)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/students", s.handleListStudents)
		r.Get("/students/{id}", s.handleGetStudent)
		r.Get("/students/{id}/sessions", s.handleListSessions)
		r.Get("/students/{id}/progress", s.handleProgress)
		r.Get("/sessions/{id}", s.handleGetSession)
		if s.deps.Reports != nil {
			r.Get("/students/{id}/report.pdf", s.handleReport)
		}

		// Mutations (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/students", s.handleCreateStudent)
			r.Put("/students/{id}/stats", s.handleUpdateStats)
			r.Delete("/students/{id}", s.handleDeleteStudent)
			r.Post("/students/{id}/sessions", s.handleLogSession)
			r.Put("/sessions/{id}", s.handleEditSession)
			r.Delete("/sessions/{id}", s.handleDeleteSession)
			if s.deps.Importer != nil {
				r.Post("/students/{id}/import/alpha", s.handleAlphaImport)
			}
		})
	})

	if s.deps.Sheets != nil {
		for _, path := range []string{"/sheet", "/exec"} {
			s.router.Get(path, s.handleSheetGet)
			s.router.Post(path, s.handleSheetPost)
		}
	}

	if s.deps.MCP != nil {
		s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", s.deps.MCP)
	}
}
