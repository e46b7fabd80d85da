// Package server exposes the analysis core over HTTP. Authentication is
// external; the caller's identity arrives in the X-API-User header.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/plagzap/plagzap/internal/batch"
	"github.com/plagzap/plagzap/internal/model"
)

// AnalysisService runs a single-document check. Implemented by
// analyze.Analyzer.
type AnalysisService interface {
	Analyze(ctx context.Context, userID, input string) (*model.AnalysisResult, error)
}

// BatchService accepts bulk submissions. Implemented by batch.Runner.
type BatchService interface {
	Submit(ownerID string, texts []string, filenames []string) (*model.Batch, error)
}

// Server is the HTTP API over the analysis core.
type Server struct {
	srv *http.Server
	log zerolog.Logger
}

// New builds the server with all routes mounted.
func New(cfg model.ServerConfig, analysis AnalysisService, batches BatchService, store batch.Store, log zerolog.Logger) *Server {
	h := &handler{
		analysis: analysis,
		batches:  batches,
		store:    store,
		log:      log,
	}

	r := chi.NewRouter()
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-API-User"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", h.analyze)
		r.Post("/batches", h.submitBatch)
		r.Get("/batches", h.listBatches)
		r.Get("/batches/{id}", h.batchStatus)
		r.Delete("/batches/{id}", h.deleteBatch)
	})

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run starts the server and blocks until it is shut down.
func (s *Server) Run() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("http listening")
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
