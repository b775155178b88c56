package provider

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
)

func testAEADKey(t *testing.T) (*AEADProvider, *Key) {
	t.Helper()
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		t.Fatal(err)
	}
	p := NewAEADProvider()
	key, err := p.NewKey(KeyDescriptor{Active: true, Material: hex.EncodeToString(raw)})
	if err != nil {
		t.Fatalf("NewKey: %s", err)
	}
	return p, key
}

func TestAEADRoundTrip(t *testing.T) {
	p, key := testAEADKey(t)
	ctx := context.Background()

	result, err := p.Encrypt(ctx, key, CanaryValue)
	if err != nil {
		t.Fatalf("Encrypt: %s", err)
	}
	if len(result.Nonce) != 12 {
		t.Errorf("expected a 96-bit nonce, got %d bytes", len(result.Nonce))
	}

	plaintext, err := p.Decrypt(ctx, key, result.Ciphertext, result.Nonce)
	if err != nil {
		t.Fatalf("Decrypt: %s", err)
	}
	if plaintext != CanaryValue {
		t.Errorf("got plaintext %q, want %q", plaintext, CanaryValue)
	}
}

func TestAEADWrongKeyIsClassified(t *testing.T) {
	p, key := testAEADKey(t)
	_, otherKey := testAEADKey(t)
	ctx := context.Background()

	result, err := p.Encrypt(ctx, key, CanaryValue)
	if err != nil {
		t.Fatalf("Encrypt: %s", err)
	}

	_, err = p.Decrypt(ctx, otherKey, result.Ciphertext, result.Nonce)
	if err == nil {
		t.Fatal("expected decrypting with the wrong key to fail")
	}
	if !IsWrongKey(err) {
		t.Errorf("expected wrong-key classified error, got %v", err)
	}
}

func TestAEADNoncesAreUnique(t *testing.T) {
	p, key := testAEADKey(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		result, err := p.Encrypt(ctx, key, CanaryValue)
		if err != nil {
			t.Fatalf("Encrypt: %s", err)
		}
		nonce := string(result.Nonce)
		if seen[nonce] {
			t.Fatalf("nonce reused: %x", result.Nonce)
		}
		seen[nonce] = true
	}
}
