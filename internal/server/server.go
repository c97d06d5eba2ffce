// Package server exposes the dataset snapshot to the dashboard frontend:
// filter options, filtered rows, summary statistics, grouped aggregates,
// temporal series, band definitions, and CSV export.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"BioDash/internal/dataset"
)

// Server hosts the dashboard API.
type Server struct {
	manager *dataset.Manager
	http    *http.Server
}

// New creates a Server listening on addr.
func New(addr string, m *dataset.Manager) *Server {
	s := &Server{manager: m}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/options", s.handleOptions)
		r.Get("/records", s.handleRecords)
		r.Get("/stats", s.handleStats)
		r.Get("/bands", s.handleBands)
		r.Get("/aggregate", s.handleAggregate)
		r.Get("/timeseries", s.handleTimeSeries)
		r.Get("/export.csv", s.handleExport)
	})

	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler returns the router, used by tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
