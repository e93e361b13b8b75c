// Package chain builds, signs, broadcasts and confirms the single
// native-value transfer backing an approved payout.
package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"

	"tbnb-faucet/go-gateway/internal/domains/treasury"
	"tbnb-faucet/go-gateway/internal/platform/metrics"
)

var (
	ErrInvalidAddress = errors.New("destination address is invalid")
	ErrInvalidAmount  = errors.New("configured payout amount must be positive")
	ErrOnChainRevert  = errors.New("on-chain transfer failed")
	ErrReceiptTimeout = errors.New("timed out waiting for transaction receipt")
)

// Client is the narrow slice of the chain RPC surface the engine needs.
// *ethclient.Client satisfies it.
type Client interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type Config struct {
	// PayoutAmount is the fixed per-request amount in BNB, as a decimal
	// string. It is converted to wei on every Send so a bad value is caught
	// per call, not only at startup.
	PayoutAmount   string
	GasLimit       uint64
	ReceiptTimeout time.Duration
	PollInterval   time.Duration
}

const (
	DefaultGasLimit       = 21000
	DefaultReceiptTimeout = 2 * time.Minute
	defaultPollInterval   = 2 * time.Second
)

// Engine performs one confirmed value transfer per Send call. The mutex
// serializes read-nonce through broadcast so concurrent payouts cannot race
// on the treasury nonce.
type Engine struct {
	client  Client
	account *treasury.Account
	chainID *big.Int
	cfg     Config

	mu sync.Mutex
}

func NewEngine(client Client, account *treasury.Account, chainID *big.Int, cfg Config) *Engine {
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultGasLimit
	}
	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = DefaultReceiptTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Engine{client: client, account: account, chainID: chainID, cfg: cfg}
}

// Send transfers the configured amount to walletAddress and returns the
// transaction hash once a success receipt is observed. Any failure is
// terminal for this call; retrying is the caller's decision.
func (e *Engine) Send(ctx context.Context, walletAddress string) (string, error) {
	to, err := ParseAddress(walletAddress)
	if err != nil {
		return "", err
	}
	value, err := PayoutWei(e.cfg.PayoutAmount)
	if err != nil {
		return "", err
	}

	signed, err := e.broadcast(ctx, to, value)
	if err != nil {
		return "", err
	}
	txHash := signed.Hash()
	slog.Default().Info("payout broadcast",
		"tx_hash", txHash.Hex(), "to", to.Hex(), "nonce", signed.Nonce())

	receipt, err := e.waitReceipt(ctx, txHash)
	if err != nil {
		return "", err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		slog.Default().Error("payout reverted", "tx_hash", txHash.Hex())
		return "", ErrOnChainRevert
	}
	return txHash.Hex(), nil
}

// broadcast holds the engine mutex across nonce acquisition, signing and
// submission. Receipt waiting happens outside the lock.
func (e *Engine) broadcast(ctx context.Context, to common.Address, value *big.Int) (*types.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	started := time.Now()
	nonce, err := e.client.PendingNonceAt(ctx, e.account.Address())
	if err != nil {
		return nil, fmt.Errorf("read treasury nonce: %w", err)
	}
	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("read gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      e.cfg.GasLimit,
		GasPrice: gasPrice,
	})
	signed, err := e.account.SignTx(tx, e.chainID)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	if err := e.client.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("broadcast transaction: %w", err)
	}
	metrics.ObserveBroadcast(time.Since(started))
	return signed, nil
}

func (e *Engine) waitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, e.cfg.ReceiptTimeout)
	defer cancel()

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := e.client.TransactionReceipt(waitCtx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			if waitCtx.Err() != nil {
				return nil, fmt.Errorf("%w: %s", ErrReceiptTimeout, txHash.Hex())
			}
			return nil, fmt.Errorf("poll receipt: %w", err)
		}
		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: %s", ErrReceiptTimeout, txHash.Hex())
		case <-ticker.C:
		}
	}
}

// ParseAddress validates the destination and normalizes it to its canonical
// form. All-lowercase and all-uppercase inputs are accepted; a mixed-case
// input must carry a correct EIP-55 checksum.
func ParseAddress(raw string) (common.Address, error) {
	trimmed := strings.TrimSpace(raw)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	addr := common.HexToAddress(trimmed)
	hexPart := strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart) {
		if trimmed != addr.Hex() {
			return common.Address{}, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
		}
	}
	return addr, nil
}

// PayoutWei converts a decimal BNB amount into wei. The amount must be
// strictly positive and representable without sub-wei precision.
func PayoutWei(amount string) (*big.Int, error) {
	rat, ok := new(big.Rat).SetString(strings.TrimSpace(amount))
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, amount)
	}
	rat.Mul(rat, new(big.Rat).SetInt(big.NewInt(params.Ether)))
	if !rat.IsInt() {
		return nil, fmt.Errorf("%w: %q has sub-wei precision", ErrInvalidAmount, amount)
	}
	wei := rat.Num()
	if wei.Sign() <= 0 {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidAmount, amount)
	}
	return wei, nil
}
