// Package faucetconfig loads gateway configuration from an optional YAML
// file with environment overrides. Everything is fixed at process start;
// there is no runtime reconfiguration.
package faucetconfig

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tbnb-faucet/go-gateway/internal/securestore"
)

type Config struct {
	ListenAddr               string
	VerificationURL          string
	ChainRPCURL              string
	TreasurySecret           string
	TreasurySecretFile       string
	TreasurySecretPassphrase string
	PayoutAmount             string
	PayoutGasLimit           uint64
	VerifyTimeout            time.Duration
	RecordTimeout            time.Duration
	ReceiptTimeout           time.Duration
}

type FileConfig struct {
	Gateway GatewayFileConfig `yaml:"gateway"`
}

type GatewayFileConfig struct {
	ListenAddress   string   `yaml:"listenAddress"`
	VerificationURL string   `yaml:"verificationUrl"`
	ChainRPCURL     string   `yaml:"chainRpcUrl"`
	PayoutAmount    string   `yaml:"payoutAmount"`
	PayoutGasLimit  uint64   `yaml:"payoutGasLimit"`
	VerifyTimeout   Duration `yaml:"verifyTimeout"`
	RecordTimeout   Duration `yaml:"recordTimeout"`
	ReceiptTimeout  Duration `yaml:"receiptTimeout"`
}

// Duration accepts Go duration strings ("45s", "2m") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

var (
	ErrMissingChainRPC = errors.New("chain RPC URL is required (BSC_RPC_URL)")
	ErrMissingSecret   = errors.New("treasury secret is required (TREASURY_PRIVATE_KEY or TREASURY_SECRET_FILE)")
)

func DefaultConfig() Config {
	return Config{
		ListenAddr:      "0.0.0.0:8090",
		VerificationURL: "http://localhost:8080/verify",
		PayoutAmount:    "0.3",
		PayoutGasLimit:  21000,
		VerifyTimeout:   30 * time.Second,
		RecordTimeout:   10 * time.Second,
		ReceiptTimeout:  2 * time.Minute,
	}
}

func LoadFromPath(configPath string) Config {
	cfg := DefaultConfig()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates, "configs/config.yaml")
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		merged := cfg
		Merge(&merged, parsed.Gateway)
		ApplyEnvOverrides(&merged)
		return merged
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

func Merge(dst *Config, src GatewayFileConfig) {
	if src.ListenAddress != "" {
		dst.ListenAddr = src.ListenAddress
	}
	if src.VerificationURL != "" {
		dst.VerificationURL = src.VerificationURL
	}
	if src.ChainRPCURL != "" {
		dst.ChainRPCURL = src.ChainRPCURL
	}
	if src.PayoutAmount != "" {
		dst.PayoutAmount = src.PayoutAmount
	}
	if src.PayoutGasLimit != 0 {
		dst.PayoutGasLimit = src.PayoutGasLimit
	}
	if src.VerifyTimeout != 0 {
		dst.VerifyTimeout = time.Duration(src.VerifyTimeout)
	}
	if src.RecordTimeout != 0 {
		dst.RecordTimeout = time.Duration(src.RecordTimeout)
	}
	if src.ReceiptTimeout != 0 {
		dst.ReceiptTimeout = time.Duration(src.ReceiptTimeout)
	}
}

func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("FAUCET_LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("VERIFICATION_SERVICE_URL")); v != "" {
		cfg.VerificationURL = v
	}
	if v := strings.TrimSpace(os.Getenv("BSC_RPC_URL")); v != "" {
		cfg.ChainRPCURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TREASURY_PRIVATE_KEY")); v != "" {
		cfg.TreasurySecret = v
	}
	if v := strings.TrimSpace(os.Getenv("TREASURY_SECRET_FILE")); v != "" {
		cfg.TreasurySecretFile = v
	}
	if v := os.Getenv("TREASURY_SECRET_PASSPHRASE"); v != "" {
		cfg.TreasurySecretPassphrase = v
	}
	if v := strings.TrimSpace(os.Getenv("DEFAULT_PAYOUT_AMOUNT")); v != "" {
		cfg.PayoutAmount = v
	}
	if v := strings.TrimSpace(os.Getenv("PAYOUT_GAS_LIMIT")); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			cfg.PayoutGasLimit = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("PAYOUT_RECEIPT_TIMEOUT")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			cfg.ReceiptTimeout = parsed
		}
	}
}

// Validate checks the startup requirements the original service enforced:
// a chain endpoint and some treasury secret source must be configured.
func (c Config) Validate() error {
	if c.ChainRPCURL == "" {
		return ErrMissingChainRPC
	}
	if c.TreasurySecret == "" && c.TreasurySecretFile == "" {
		return ErrMissingSecret
	}
	return nil
}

// ResolveTreasurySecret returns the secret material, reading and unsealing
// the secret file when one is configured. The file takes precedence over
// the bare environment value.
func (c Config) ResolveTreasurySecret() (string, error) {
	if c.TreasurySecretFile != "" {
		return securestore.ReadSecretFile(c.TreasurySecretFile, c.TreasurySecretPassphrase)
	}
	if c.TreasurySecret == "" {
		return "", ErrMissingSecret
	}
	return c.TreasurySecret, nil
}
