// Package contracts defines the boundary between the protocol gateway and
// the payout orchestrator, so transports can be tested against small fakes.
package contracts

import (
	"context"

	"tbnb-faucet/go-gateway/internal/domains/payout"
)

// FaucetService processes one disbursement request end to end.
type FaucetService interface {
	Process(ctx context.Context, args payout.Arguments) payout.Outcome
}
