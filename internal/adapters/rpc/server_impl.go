package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tbnb-faucet/go-gateway/internal/app/contracts"
	"tbnb-faucet/go-gateway/internal/platform/metrics"
)

const DefaultListenAddr = "0.0.0.0:8090"

// MCPVersion is the protocol revision this gateway speaks.
const MCPVersion = "2024-11-05"

type Server struct {
	httpServer *http.Server
	service    contracts.FaucetService
	limiter    *requestRateLimiter
}

func NewServerWithService(listenAddr string, svc contracts.FaucetService) *Server {
	if listenAddr == "" {
		listenAddr = DefaultListenAddr
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:              listenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		service: svc,
		limiter: newRequestRateLimiter(loadRateLimitConfig()),
	}
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/mcp/v1/tools", s.handleListTools)
	mux.HandleFunc("/mcp/v1/tools/call", s.handleToolCall)
	mux.HandleFunc("/requests", s.handleLegacyRequest)
	return s
}

func (s *Server) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.applyCORS(w, r) {
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":      "ok",
		"mcp_version": MCPVersion,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	metrics.Handler().ServeHTTP(w, r)
}

// applyCORS answers preflight for browser-hosted callers. The faucet surface
// is public, so any origin may call it.
func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
	return true
}

func (s *Server) allowRequest(w http.ResponseWriter, r *http.Request) bool {
	if s.limiter.allow(clientKey(r), time.Now()) {
		return true
	}
	http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	return false
}

// HandleListTools and friends expose the handlers for tests.
func (s *Server) HandleListTools(w http.ResponseWriter, r *http.Request) { s.handleListTools(w, r) }
func (s *Server) HandleToolCall(w http.ResponseWriter, r *http.Request)  { s.handleToolCall(w, r) }
func (s *Server) HandleLegacyRequest(w http.ResponseWriter, r *http.Request) {
	s.handleLegacyRequest(w, r)
}
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) { s.handleHealth(w, r) }
