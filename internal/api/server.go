// Package api exposes the dispatcher over HTTP/JSON.
package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"hermes/internal/domain"
	"hermes/internal/route"
)

// Processor runs one request through the dispatch core.
type Processor interface {
	Process(ctx context.Context, req *domain.AgentRequest) *domain.AgentResponse
}

// Server serves the REST surface. It always answers with a
// status-bearing body and never surfaces a raw internal fault.
type Server struct {
	app     Processor
	router  route.Router
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a Server. limit <= 0 disables rate limiting.
func New(app Processor, router route.Router, limit float64, burst int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var limiter *rate.Limiter
	if limit > 0 {
		limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
	return &Server{app: app, router: router, limiter: limiter, logger: logger}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.rateLimit)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
		r.Get("/agents", s.handleAgents)
	})
	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type askRequest struct {
	Text      string `json:"text"`
	RequestID string `json:"request_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var in askRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.logger.Debug("rejecting malformed ask body", "error", err)
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	if in.Text == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "text is required")
		return
	}

	req := domain.NewRequestWithID(in.RequestID, in.Text)
	req.UserID = in.UserID
	req.SessionID = in.SessionID

	resp := s.app.Process(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

type agentSummary struct {
	Name     string   `json:"name"`
	Summary  string   `json:"summary"`
	Examples []string `json:"examples,omitempty"`
}

func (s *Server) handleAgents(w http.ResponseWriter, _ *http.Request) {
	agents := s.router.Agents()
	out := make([]agentSummary, 0, len(agents))
	for _, a := range agents {
		d := a.Description()
		out = append(out, agentSummary{
			Name:     a.Name(),
			Summary:  d.Summary,
			Examples: d.Examples,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the given code and message.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
