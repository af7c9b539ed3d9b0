package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Responder answers one user message, possibly running tools along the way.
type Responder interface {
	Respond(ctx context.Context, handle, message string) (string, error)
}

// Server exposes the agent over HTTP.
type Server struct {
	httpServer *http.Server
	agent      Responder
	log        *logger.Logger
}

// Config carries HTTP server settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewServer builds the HTTP server and its routes.
func NewServer(cfg Config, agent Responder) *Server {
	s := &Server{
		agent: agent,
		log:   logger.Get().With("component", "api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/agent", s.handleAgent)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.recoverMiddleware(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Start serves until the listener closes.
func (s *Server) Start() error {
	s.log.Infow("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type agentRequest struct {
	Handle  string `json:"handle"`
	Message string `json:"message"`
}

type agentResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	start := time.Now()
	reply, err := s.agent.Respond(r.Context(), req.Handle, req.Message)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.log.Errorw("agent request failed", "handle", req.Handle, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "the assistant is unavailable, please retry"})
		return
	}

	s.log.Infow("agent request served",
		"handle", req.Handle, "duration", time.Since(start).String())
	writeJSON(w, http.StatusOK, agentResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recoverMiddleware keeps a panicking handler from killing the process.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Errorw("handler panicked", "path", r.URL.Path, "panic", rec)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
