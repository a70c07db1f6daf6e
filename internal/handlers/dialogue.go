// Package handlers exposes the dialogue engine over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"voicebot/internal/convo"
	"voicebot/internal/metrics"
	"voicebot/internal/session"
)

// Dialogue is the engine surface served over HTTP.
type Dialogue interface {
	StartFlow(ctx context.Context, sessionID string) (convo.Response, error)
	SubmitInput(ctx context.Context, sessionID, input string) (convo.Response, error)
}

// Pinger reports the health of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StartFlowRequest opens or restarts a conversation. An empty SessionID
// asks the server to allocate one.
type StartFlowRequest struct {
	SessionID string `json:"session_id"`
}

// UserInputRequest carries one caller utterance.
type UserInputRequest struct {
	SessionID string `json:"session_id"`
	UserInput string `json:"user_input"`
}

// TurnResponse is the engine response plus the session it belongs to.
type TurnResponse struct {
	SessionID string `json:"session_id"`
	convo.Response
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server routes HTTP requests to the dialogue engine.
type Server struct {
	dialogue Dialogue
	metrics  *metrics.Metrics
	checks   map[string]Pinger
	logger   *slog.Logger
}

// NewServer builds the HTTP surface. checks are pinged by /healthz.
func NewServer(dialogue Dialogue, m *metrics.Metrics, checks map[string]Pinger, logger *slog.Logger) *Server {
	return &Server{
		dialogue: dialogue,
		metrics:  m,
		checks:   checks,
		logger:   logger.With("component", "http"),
	}
}

// Routes returns the request multiplexer.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/start_flow", s.startFlowHandler)
	mux.HandleFunc("/submit_input", s.submitInputHandler)
	mux.HandleFunc("/healthz", s.healthHandler)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	return mux
}

func (s *Server) startFlowHandler(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}
	var req StartFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("start_flow: invalid json", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, errorResponse{Detail: "Invalid JSON format"})
		return
	}
	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		id = uuid.NewString()
	}

	resp, err := s.dialogue.StartFlow(r.Context(), id)
	if err != nil {
		s.writeError(w, "start_flow", id, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, TurnResponse{SessionID: id, Response: resp})
}

func (s *Server) submitInputHandler(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}
	var req UserInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("submit_input: invalid json", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, errorResponse{Detail: "Invalid JSON format"})
		return
	}
	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		writeJSONResponse(w, http.StatusBadRequest, errorResponse{Detail: "session_id is required"})
		return
	}

	resp, err := s.dialogue.SubmitInput(r.Context(), id, req.UserInput)
	if err != nil {
		s.writeError(w, "submit_input", id, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, TurnResponse{SessionID: id, Response: resp})
}

func (s *Server) writeError(w http.ResponseWriter, op, sessionID string, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeJSONResponse(w, http.StatusNotFound, errorResponse{Detail: "Session not found"})
	case errors.Is(err, convo.ErrRateLimited):
		writeJSONResponse(w, http.StatusTooManyRequests, errorResponse{Detail: "Too many requests"})
	case errors.Is(err, context.Canceled):
		writeJSONResponse(w, http.StatusServiceUnavailable, errorResponse{Detail: "Request cancelled"})
	default:
		s.logger.Error(op+" failed", "session_id", sessionID, "error", err)
		if s.metrics != nil {
			s.metrics.Errors.WithLabelValues("http").Inc()
		}
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for name, check := range s.checks {
		if check == nil {
			continue
		}
		if err := check.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", "dependency", name, "error", err)
			body["status"] = "degraded"
			body[name] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	writeJSONResponse(w, status, body)
}

func allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	w.WriteHeader(http.StatusMethodNotAllowed)
	return false
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, response any) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		data = []byte(`{"detail":"Internal server error"}`)
		statusCode = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
