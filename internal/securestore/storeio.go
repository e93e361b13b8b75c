package securestore

import (
	"os"
	"path/filepath"
	"strings"
)

// ReadSecretFile reads and decrypts a sealed treasury secret. Surrounding
// whitespace in the recovered secret is stripped so editors that append a
// trailing newline before sealing do not change the derived account.
func ReadSecretFile(path, passphrase string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	secret, err := Open(passphrase, raw)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

// WriteSecretFile seals the secret and writes it with owner-only permissions.
func WriteSecretFile(path, passphrase, secret string) error {
	sealed, err := Seal(passphrase, []byte(secret))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, sealed, 0o600)
}
