package rpc

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"tbnb-faucet/go-gateway/internal/domains/payout"
	"tbnb-faucet/go-gateway/internal/platform/metrics"
	"tbnb-faucet/go-gateway/pkg/models"
)

// handleLegacyRequest serves the backward-compatible REST surface. Unlike
// the tool-call path, this surface reports business rejection as an HTTP
// error status: 403 for a denial, 500 for an execution failure. Existing
// callers depend on that contract.
func (s *Server) handleLegacyRequest(w http.ResponseWriter, r *http.Request) {
	if !s.applyCORS(w, r) {
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.allowRequest(w, r) {
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var req models.DisbursementRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	started := time.Now()
	outcome := s.service.Process(r.Context(), payout.Arguments{
		BuilderID:      req.BuilderID,
		WalletAddress:  req.WalletAddress,
		GithubUsername: req.GithubUsername,
		Channel:        req.Channel,
	})
	latency := time.Since(started).Milliseconds()

	switch outcome.Status {
	case payout.StatusApproved:
		slog.Default().Info("legacy request approved",
			"request_id", outcome.RequestID, "tx_hash", outcome.TxHash, "latency_ms", latency)
		writeJSON(w, outcome.Response())
		metrics.CountRPC("legacy_request", "approved")
	case payout.StatusRejected:
		slog.Default().Info("legacy request rejected", "reason", outcome.Reason, "latency_ms", latency)
		writeDetail(w, http.StatusForbidden, outcome.Reason)
		metrics.CountRPC("legacy_request", "rejected")
	default:
		slog.Default().Error("legacy request failed", "error", outcome.Err, "latency_ms", latency)
		writeDetail(w, http.StatusInternalServerError, outcome.Err.Error())
		metrics.CountRPC("legacy_request", "failed")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
