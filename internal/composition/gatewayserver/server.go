// Package gatewayserver wires configuration, the treasury account, chain
// and verification clients, and the RPC transport into a runnable gateway.
package gatewayserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/ethclient"

	"tbnb-faucet/go-gateway/internal/adapters/rpc"
	"tbnb-faucet/go-gateway/internal/bootstrap/faucetconfig"
	"tbnb-faucet/go-gateway/internal/domains/chain"
	"tbnb-faucet/go-gateway/internal/domains/payout"
	"tbnb-faucet/go-gateway/internal/domains/treasury"
	"tbnb-faucet/go-gateway/internal/domains/verification"
)

// NewGatewayServer builds the full service stack. The chain id is fetched
// once here and trusted for the life of the process.
func NewGatewayServer(ctx context.Context, cfg faucetconfig.Config) (*rpc.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	secret, err := cfg.ResolveTreasurySecret()
	if err != nil {
		return nil, fmt.Errorf("resolve treasury secret: %w", err)
	}
	account, err := treasury.FromSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("derive treasury account: %w", err)
	}

	client, err := ethclient.DialContext(ctx, cfg.ChainRPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial chain rpc: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}

	engine := chain.NewEngine(client, account, chainID, chain.Config{
		PayoutAmount:   cfg.PayoutAmount,
		GasLimit:       cfg.PayoutGasLimit,
		ReceiptTimeout: cfg.ReceiptTimeout,
	})
	verifier := verification.NewClient(cfg.VerificationURL,
		verification.WithTimeouts(cfg.VerifyTimeout, cfg.RecordTimeout))
	orchestrator := payout.NewOrchestrator(verifier, engine)

	slog.Default().Info("gateway wired",
		"treasury_address", account.Address().Hex(),
		"chain_id", chainID.String(),
		"listen_addr", cfg.ListenAddr)

	return rpc.NewServerWithService(cfg.ListenAddr, orchestrator), nil
}
