// Package httpapi provides the HTTP surface of the refind server.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/poiesic/refind/rerank"
	"github.com/poiesic/refind/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the reranking pipeline and item storage to HTTP handlers.
type Server struct {
	items    storage.ItemRepository
	pipeline *rerank.Pipeline
	registry *prometheus.Registry
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRegistry exposes the given Prometheus registry on GET /metrics.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) error {
		s.registry = registry
		return nil
	}
}

// NewServer creates the HTTP server around the given repository and pipeline.
func NewServer(items storage.ItemRepository, pipeline *rerank.Pipeline, opts ...Option) (*Server, error) {
	if items == nil {
		return nil, ErrRepositoryRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}

	s := &Server{
		items:    items,
		pipeline: pipeline,
		logger:   slog.Default().With("component", "httpapi"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Routes builds the request multiplexer for the server.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /rerank", s.handleRerank)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /items", s.handleAddItems)
	mux.HandleFunc("GET /items", s.handleListItems)
	mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	mux.HandleFunc("DELETE /items/{id}", s.handleDeleteItem)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	if s.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return mux
}

// writeJSON encodes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

// errorResponse is the standard error body: {"error": "..."}.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError sends a JSON error body with the given status.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
