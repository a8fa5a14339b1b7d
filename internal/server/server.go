// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server is the HTTP transport boundary. It decodes incoming
// submissions, verifies single-use tokens, invokes the analyzer, and
// encodes the response envelope. The boundary renders either a full
// aggregated response or a single error message — never partial results.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markzm/dealio/internal/analyze"
	"github.com/markzm/dealio/pkg/types"
)

// Analyzer is the aggregation pipeline invoked per submission.
type Analyzer interface {
	Analyze(ctx context.Context, url, rumor string) (*types.AggregatedResponse, error)
}

// Server serves the analysis API.
type Server struct {
	analyzer Analyzer
	tokens   *tokenStore
	limiter  *rateLimiter
	logger   *zap.Logger
	httpSrv  *http.Server
}

// New builds a Server from configuration.
func New(cfg types.ServerConfig, analyzer Analyzer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 10
	}

	s := &Server{
		analyzer: analyzer,
		tokens:   newTokenStore(cfg.TokenTTL),
		limiter:  newRateLimiter(rps, burst, logger),
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/token", s.handleToken)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", handleHealth)

	s.httpSrv = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.limiter.middleware(mux),
		// Worst-case request ≈ 15s fetch + 3 × 30s provider calls.
		WriteTimeout: 2 * time.Minute,
		ReadTimeout:  10 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", zap.String("addr", s.httpSrv.Addr))
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// envelope mirrors the success/data response shape the frontend consumes.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
}

// submitRequest is one inbound analysis submission.
type submitRequest struct {
	Token string `json:"token"`
	URL   string `json:"url"`
	Rumor string `json:"rumor"`
}

func (s *Server) handleToken(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"token": s.tokens.Issue()})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID))

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Data: errorBody{Message: "Invalid request body."}})
		return
	}

	// Token check runs before any core logic.
	if !s.tokens.Redeem(req.Token) {
		logger.Warn("token verification failed")
		writeJSON(w, http.StatusForbidden, envelope{Data: errorBody{Message: "Invalid token. Please refresh the page and try again."}})
		return
	}

	resp, err := s.analyzer.Analyze(r.Context(), req.URL, req.Rumor)
	if err != nil {
		var ue *analyze.UserError
		if errors.As(err, &ue) {
			logger.Info("analysis rejected", zap.String("message", ue.Message))
			writeJSON(w, http.StatusOK, envelope{Data: errorBody{Message: ue.Message}})
			return
		}
		logger.Error("analysis failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, envelope{Data: errorBody{Message: "Internal error."}})
		return
	}

	logger.Info("analysis served", zap.Int("articles", len(resp.Articles)))
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: resp})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
