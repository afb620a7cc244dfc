// Package api - thin, deterministic HTTP layer.
// The API is only responsible for input ingestion, engine orchestration,
// and output serialization. It never performs selection logic.
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"h2-site-plan/core/engine"
	"h2-site-plan/internal/errors"
	"h2-site-plan/internal/logging"
)

// Server is the API server
type Server struct {
	engine  *engine.Engine
	mux     *http.ServeMux
	version string
}

// NewServer creates a new API server around an engine
func NewServer(eng *engine.Engine, version string) *Server {
	s := &Server{
		engine:  eng,
		mux:     http.NewServeMux(),
		version: version,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /optimize", s.handleOptimize)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// errorEnvelope is the uniform error response shape
type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// handleOptimize handles POST /optimize
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req engine.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, &errorEnvelope{Code: "INVALID_JSON", Message: err.Error()}, http.StatusBadRequest)
		return
	}
	if len(req.Sites) == 0 {
		s.writeError(w, &errorEnvelope{
			Code:    string(errors.TypeData),
			Message: "at least one candidate site is required",
			Field:   "sites",
		}, http.StatusBadRequest)
		return
	}

	result, err := s.engine.Optimize(r.Context(), &req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"version": s.version}, http.StatusOK)
}

// writeDomainError maps the error taxonomy onto HTTP statuses:
// caller mistakes (data, config) are 400s, everything else is a 500.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	envelope := &errorEnvelope{
		Code:    string(errors.TypeInternal),
		Message: err.Error(),
	}
	status := http.StatusInternalServerError

	if domainErr, ok := err.(*errors.Error); ok {
		envelope.Code = string(domainErr.Type)
		envelope.Message = domainErr.Message
		envelope.Field = domainErr.Field
		if domainErr.Type == errors.TypeData || domainErr.Type == errors.TypeConfig {
			status = http.StatusBadRequest
		}
	}
	s.writeError(w, envelope, status)
}

func (s *Server) writeError(w http.ResponseWriter, envelope *errorEnvelope, status int) {
	logging.Warn("request failed",
		zap.String("code", envelope.Code),
		zap.Int("status", status),
	)
	s.writeJSON(w, map[string]*errorEnvelope{"error": envelope}, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, payload interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
