package faucetconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tbnb-faucet/go-gateway/internal/securestore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromPathMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
gateway:
  listenAddress: "127.0.0.1:9999"
  chainRpcUrl: "https://bsc-testnet.example"
  payoutAmount: "0.5"
  receiptTimeout: 45s
`)
	cfg := LoadFromPath(path)

	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Fatalf("listen address not merged: %q", cfg.ListenAddr)
	}
	if cfg.ChainRPCURL != "https://bsc-testnet.example" {
		t.Fatalf("chain rpc not merged: %q", cfg.ChainRPCURL)
	}
	if cfg.PayoutAmount != "0.5" {
		t.Fatalf("amount not merged: %q", cfg.PayoutAmount)
	}
	if cfg.ReceiptTimeout != 45*time.Second {
		t.Fatalf("receipt timeout not merged: %v", cfg.ReceiptTimeout)
	}
	if cfg.PayoutGasLimit != 21000 {
		t.Fatalf("default gas limit lost: %d", cfg.PayoutGasLimit)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := writeConfig(t, `
gateway:
  payoutAmount: "0.5"
`)
	t.Setenv("DEFAULT_PAYOUT_AMOUNT", "0.1")
	t.Setenv("BSC_RPC_URL", "https://rpc.example")
	t.Setenv("TREASURY_PRIVATE_KEY", "deadbeef")

	cfg := LoadFromPath(path)
	if cfg.PayoutAmount != "0.1" {
		t.Fatalf("env override lost: %q", cfg.PayoutAmount)
	}
	if cfg.ChainRPCURL != "https://rpc.example" || cfg.TreasurySecret != "deadbeef" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestValidateRequiresChainAndSecret(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingChainRPC) {
		t.Fatalf("expected ErrMissingChainRPC, got %v", err)
	}
	cfg.ChainRPCURL = "https://rpc.example"
	if err := cfg.Validate(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	cfg.TreasurySecret = "deadbeef"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestResolveTreasurySecretPrefersSealedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treasury.secret")
	if err := securestore.WriteSecretFile(path, "hunter2", "sealed-secret"); err != nil {
		t.Fatalf("seal secret: %v", err)
	}
	cfg := DefaultConfig()
	cfg.TreasurySecret = "env-secret"
	cfg.TreasurySecretFile = path
	cfg.TreasurySecretPassphrase = "hunter2"

	secret, err := cfg.ResolveTreasurySecret()
	if err != nil {
		t.Fatalf("resolve secret: %v", err)
	}
	if secret != "sealed-secret" {
		t.Fatalf("expected sealed file to win, got %q", secret)
	}
}
