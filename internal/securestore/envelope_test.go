package securestore

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSealOpenRoundtrip(t *testing.T) {
	data, err := Seal("pass", []byte("0xdeadbeef"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	secret, err := Open("pass", data)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if string(secret) != "0xdeadbeef" {
		t.Fatalf("unexpected secret: %q", string(secret))
	}
}

func TestOpenWrongPassphrase(t *testing.T) {
	data, err := Seal("pass", []byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if _, err := Open("wrong", data); !errors.Is(err, ErrPassphrase) {
		t.Fatalf("expected ErrPassphrase, got %v", err)
	}
}

func TestOpenTamperedCiphertext(t *testing.T) {
	data, err := Seal("pass", []byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	data[len(data)-2] ^= 0xFF
	if _, err := Open("pass", data); !errors.Is(err, ErrPassphrase) && !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestOpenRejectsPlaintextFile(t *testing.T) {
	if _, err := Open("pass", []byte("just a mnemonic")); !errors.Is(err, ErrPlaintext) {
		t.Fatalf("expected ErrPlaintext, got %v", err)
	}
}

func TestSecretFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treasury.secret")
	if err := WriteSecretFile(path, "pass", "velvet canyon ...\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	secret, err := ReadSecretFile(path, "pass")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if secret != "velvet canyon ..." {
		t.Fatalf("unexpected secret: %q", secret)
	}
}
