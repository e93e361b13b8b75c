// Package payout sequences verification and on-chain execution into one
// business transaction and classifies every failure mode.
package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tbnb-faucet/go-gateway/internal/domains/chain"
	"tbnb-faucet/go-gateway/internal/platform/metrics"
	"tbnb-faucet/go-gateway/pkg/models"
)

// Verifier is the eligibility authority boundary.
type Verifier interface {
	Verify(ctx context.Context, req models.DisbursementRequest) (models.VerificationResult, error)
	RecordPayout(ctx context.Context, githubUserID int64) error
}

// Sender executes one confirmed value transfer.
type Sender interface {
	Send(ctx context.Context, walletAddress string) (string, error)
}

// Arguments are the caller-supplied tool arguments before defaulting.
type Arguments struct {
	BuilderID      string `json:"builder_id"`
	WalletAddress  string `json:"wallet_address"`
	GithubUsername string `json:"github_username"`
	Channel        string `json:"channel"`
}

type Orchestrator struct {
	verifier Verifier
	sender   Sender
}

func NewOrchestrator(verifier Verifier, sender Sender) *Orchestrator {
	return &Orchestrator{verifier: verifier, sender: sender}
}

// Process runs one disbursement: default arguments, verify eligibility,
// execute the transfer, then record the payout best-effort. Verification
// rejections and validation problems come back as Rejected; anything that
// breaks after eligibility was confirmed comes back as Failed.
func (o *Orchestrator) Process(ctx context.Context, args Arguments) Outcome {
	req, rejection := buildRequest(args)
	if rejection != nil {
		return finish(*rejection)
	}

	verification, err := o.verifier.Verify(ctx, req)
	if err != nil {
		slog.Default().Error("verification unavailable", "builder_id", req.BuilderID, "error", err)
		return finish(Failed(fmt.Errorf("verification unavailable: %w", err)))
	}
	if !verification.Verified {
		reason := verification.Reason
		if reason == "" {
			reason = "Unknown verification failure"
		}
		return finish(Rejected("Verification failed: " + reason))
	}

	requestID := uuid.NewString()
	txHash, err := o.sender.Send(ctx, req.WalletAddress)
	if err != nil {
		if errors.Is(err, chain.ErrInvalidAddress) || errors.Is(err, chain.ErrInvalidAmount) {
			return finish(Rejected(err.Error()))
		}
		slog.Default().Error("payout execution failed", "request_id", requestID, "error", err)
		return finish(Failed(fmt.Errorf("payout failed: %w", err)))
	}

	// The transfer is final at this point; bookkeeping must not be able to
	// flip the outcome, and it should run even if the caller went away.
	if verification.GithubUserID != nil {
		recordCtx := context.WithoutCancel(ctx)
		if err := o.verifier.RecordPayout(recordCtx, *verification.GithubUserID); err != nil {
			slog.Default().Warn("failed to record payout",
				"request_id", requestID, "github_user_id", *verification.GithubUserID, "error", err)
			metrics.CountRecordFailure()
		}
	}

	slog.Default().Info("payout approved", "request_id", requestID, "tx_hash", txHash)
	return finish(Approved(requestID, txHash, verification))
}

// buildRequest applies defaults and fails fast on anything that should never
// reach the network: missing required fields and malformed destinations.
func buildRequest(args Arguments) (models.DisbursementRequest, *Outcome) {
	if args.WalletAddress == "" || args.GithubUsername == "" {
		rejection := Rejected("wallet_address and github_username are required")
		return models.DisbursementRequest{}, &rejection
	}
	if _, err := chain.ParseAddress(args.WalletAddress); err != nil {
		rejection := Rejected(err.Error())
		return models.DisbursementRequest{}, &rejection
	}
	builderID := args.BuilderID
	if builderID == "" {
		builderID = "user-" + uuid.NewString()[:8]
	}
	channel := args.Channel
	if channel == "" {
		channel = models.ChannelWeb
	}
	return models.DisbursementRequest{
		BuilderID:      builderID,
		WalletAddress:  args.WalletAddress,
		GithubUsername: args.GithubUsername,
		Channel:        channel,
	}, nil
}

func finish(outcome Outcome) Outcome {
	metrics.CountOutcome(string(outcome.Status))
	return outcome
}
