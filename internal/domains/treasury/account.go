// Package treasury derives the custodial payout account from the configured
// secret. The account is built once at startup and injected into the
// transaction engine; it is never rotated at runtime.
package treasury

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

var (
	ErrEmptySecret     = errors.New("treasury secret is empty")
	ErrInvalidMnemonic = errors.New("treasury secret is not a valid mnemonic")
	ErrInvalidKey      = errors.New("treasury secret is not a valid private key")
)

// derivationPath is the default external account path used by Ethereum
// wallets: m/44'/60'/0'/0/0.
var derivationPath = []uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 60,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

// Account holds the treasury address and its signing key.
type Account struct {
	address common.Address
	key     *ecdsa.PrivateKey
}

// FromSecret interprets the configured secret as either a BIP-39 mnemonic
// (twelve or more words, commas tolerated as separators) or a raw hex
// private key.
func FromSecret(secret string) (*Account, error) {
	normalized := strings.Join(strings.Fields(strings.ReplaceAll(secret, ",", " ")), " ")
	if normalized == "" {
		return nil, ErrEmptySecret
	}
	if len(strings.Fields(normalized)) >= 12 {
		return fromMnemonic(normalized)
	}
	return fromRawKey(normalized)
}

func fromMnemonic(mnemonic string) (*Account, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, "")
	node, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}
	for _, index := range derivationPath {
		node, err = node.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", index, err)
		}
	}
	childKey, err := node.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	key, err := crypto.ToECDSA(childKey.Serialize())
	if err != nil {
		return nil, fmt.Errorf("convert derived key: %w", err)
	}
	return newAccount(key), nil
}

func fromRawKey(raw string) (*Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return newAccount(key), nil
}

func newAccount(key *ecdsa.PrivateKey) *Account {
	return &Account{
		address: crypto.PubkeyToAddress(key.PublicKey),
		key:     key,
	}
}

// Address returns the treasury address funds are paid out from.
func (a *Account) Address() common.Address {
	return a.address
}

// SignTx signs a transaction for the given chain.
func (a *Account) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), a.key)
}
