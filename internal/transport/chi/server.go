// Package chi wires the search use cases to HTTP handlers on a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/interactly/searchd/internal/domain"
	healthuc "github.com/interactly/searchd/internal/usecase/health"
	searchuc "github.com/interactly/searchd/internal/usecase/search"
)

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeTeamIDCoercion   = "team_id_coercion_failed"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search API over HTTP.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	logLevel      http.Handler
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. logLevel serves the runtime
// log-level endpoint (zap's AtomicLevel handler).
func NewServer(search *searchuc.Service, health *healthuc.Service, logLevel http.Handler, logger *zap.Logger) *Server {
	s := &Server{
		search:   search,
		health:   health,
		logLevel: logLevel,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTeamIDCoercion, http.StatusBadRequest, codeTeamIDCoercion),
		sentinelHandler(domain.ErrInvalidLimit, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/v1/query", s.handleQuery)
	r.Get("/v1/categories", s.handleCategories)
	r.Get("/v1/schema", s.handleSchema)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if s.logLevel != nil {
		r.Get("/v1/log-level", s.logLevel.ServeHTTP)
		r.Put("/v1/log-level", s.logLevel.ServeHTTP)
	}
}

type queryRequest struct {
	TeamID     string   `json:"teamId"`
	Query      string   `json:"query"`
	Categories []string `json:"categories"`
	Limit      *int     `json:"limit"`
}

// handleQuery serves POST /v1/query.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.TeamID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "teamId is required")
		return
	}

	limit := 0
	if req.Limit != nil {
		limit = *req.Limit
	}

	resp, err := s.search.Search(r.Context(), domain.Request{
		TeamID:     req.TeamID,
		Query:      req.Query,
		Categories: req.Categories,
		Limit:      limit,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCategories serves GET /v1/categories.
func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Available search categories",
		"categories": s.search.Categories(),
	})
}

// handleSchema serves GET /v1/schema.
func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schemaDoc(s.search.Categories()))
}

// handleHealth serves GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTeamIDCoercion,
		domain.ErrInvalidLimit,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}
