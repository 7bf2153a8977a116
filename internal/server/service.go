// Package server exposes the extraction pipeline over a JSON HTTP API. Every
// request gets fresh input values and its own pipeline run; nothing is
// shared between requests, so concurrent runs cannot contaminate each other.
package server

import (
	"log/slog"
	"net/http"

	"github.com/aworks-dev/bol-extractor/internal/profile"
	"github.com/aworks-dev/bol-extractor/internal/repository"
)

// Service wires the pipeline, the optional run-history store, and the HTTP
// surface together.
type Service struct {
	logger  *slog.Logger
	profile profile.Profile
	runs    repository.RunRepository // nil disables run history
}

func NewService(p profile.Profile, runs repository.RunRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, profile: p, runs: runs}
}

// Routes builds the request mux.
func (s *Service) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /runs/{id}/export.csv", s.handleExportRun)
	return s.withRequestLog(mux)
}
