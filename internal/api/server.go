// Package api exposes the simulator over HTTP: config generation, seed
// sweeps, course persistence, per-frame target state, and the ballistics
// contract arithmetic.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rangeforge/marksim/internal/config"
	"github.com/rangeforge/marksim/internal/store"
	"github.com/rangeforge/marksim/internal/sweep"
)

// Server handles HTTP requests.
type Server struct {
	db        store.DB
	sweeper   *sweep.Sweeper
	bounds    config.GenerationConfig
	logger    *log.Logger
	startTime time.Time
}

// NewServer creates an API server over the given store and default
// generation bounds.
func NewServer(db store.DB, gen config.GenerationConfig) *Server {
	return &Server{
		db:        db,
		sweeper:   sweep.NewSweeper(),
		bounds:    gen,
		logger:    log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile),
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/health/live", s.handleHealth)
	r.Get("/health/ready", s.handleReadiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/sweep", s.handleSweep)
		r.Get("/sweeps/{id}", s.handleGetSweep)
		r.Post("/courses", s.handleCreateCourse)
		r.Get("/courses", s.handleListCourses)
		r.Get("/courses/{id}", s.handleGetCourse)
		r.Get("/targets/{id}/state", s.handleTargetState)
		r.Post("/impact", s.handleImpact)
	})

	return r
}

// corsMiddleware sets CORS headers so the browser renderer can call the
// API cross-origin, and short-circuits preflight requests.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverer converts panics into structured 500 responses instead of
// letting chi's default plain-text recoverer answer.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal,
					"internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string, context map[string]interface{}) {
	s.writeJSON(w, status, APIError{
		Type:      errType,
		Message:   message,
		Context:   context,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
