package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tbnb-faucet/go-gateway/internal/domains/payout"
	"tbnb-faucet/go-gateway/pkg/models"
)

func TestLegacyRequestApproved(t *testing.T) {
	svc := &mockFaucetService{
		processFn: func(_ context.Context, args payout.Arguments) payout.Outcome {
			return payout.Approved("req-9", "0xbeef", models.VerificationResult{Verified: true})
		},
	}
	s := newTestServer(t, svc)

	rec := postJSON(t, s.HandleLegacyRequest, "/requests",
		`{"builder_id":"discord-1","wallet_address":"0xABC","github_username":"alice","channel":"discord"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.DisbursementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "approved" || resp.TxHash != "0xbeef" || resp.RequestID != "req-9" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if svc.lastArgs.BuilderID != "discord-1" || svc.lastArgs.Channel != "discord" {
		t.Fatalf("request body not forwarded: %+v", svc.lastArgs)
	}
}

func TestLegacyRequestRejectionIsForbidden(t *testing.T) {
	svc := &mockFaucetService{
		processFn: func(context.Context, payout.Arguments) payout.Outcome {
			return payout.Rejected("Verification failed: rate limited")
		},
	}
	s := newTestServer(t, svc)

	rec := postJSON(t, s.HandleLegacyRequest, "/requests",
		`{"wallet_address":"0xABC","github_username":"alice"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("legacy surface must report rejection as 403, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["detail"] != "Verification failed: rate limited" {
		t.Fatalf("unexpected detail: %v", body)
	}
}

func TestLegacyRequestExecutionFailureIsServerError(t *testing.T) {
	svc := &mockFaucetService{
		processFn: func(context.Context, payout.Arguments) payout.Outcome {
			return payout.Failed(errors.New("payout failed: broadcast refused"))
		},
	}
	s := newTestServer(t, svc)

	rec := postJSON(t, s.HandleLegacyRequest, "/requests",
		`{"wallet_address":"0xABC","github_username":"alice"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestLegacyRequestMalformedBody(t *testing.T) {
	svc := &mockFaucetService{}
	s := newTestServer(t, svc)

	rec := postJSON(t, s.HandleLegacyRequest, "/requests", `{broken`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("malformed body must not reach the service")
	}
}

func TestLegacyRequestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &mockFaucetService{})

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	rec := httptest.NewRecorder()
	s.HandleLegacyRequest(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
