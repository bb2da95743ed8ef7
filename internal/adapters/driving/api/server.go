// Package api serves recommendations and corpus ingestion over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/core/ports/driving"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// DefaultRequestsPerMinute is the per-IP request budget when none is configured.
const DefaultRequestsPerMinute = 60

// maxBodyBytes caps the size of a request payload.
const maxBodyBytes = 1 << 20

// ErrMissingRecommendationService is returned when the server is built
// without a recommendation service.
var ErrMissingRecommendationService = errors.New("api: recommendation service is required")

// Deps holds the services the HTTP API drives.
type Deps struct {
	// Recommendation serves POST /api/v1/recommendation (required).
	Recommendation driving.RecommendationService

	// Ingest and Corpus serve POST /api/v1/embeddings. When either is nil
	// the endpoint answers 503.
	Ingest driving.IngestService
	Corpus driven.CorpusSource

	// RequestsPerMinute is the per-IP rate limit. Zero uses the default.
	RequestsPerMinute int
}

// Server is the HTTP API.
type Server struct {
	deps    Deps
	handler http.Handler
}

// NewServer builds the router for the given services.
func NewServer(deps Deps) (*Server, error) {
	if deps.Recommendation == nil {
		return nil, ErrMissingRecommendationService
	}
	if deps.RequestsPerMinute <= 0 {
		deps.RequestsPerMinute = DefaultRequestsPerMinute
	}

	s := &Server{deps: deps}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.deps.RequestsPerMinute, time.Minute))
		r.Post("/recommendation", s.recommend)
		r.Post("/embeddings", s.embeddings)
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api: shutdown: %v", err)
		}
	}()

	logger.Info("api: listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("api: serve: %w", err)
	}
	return nil
}
