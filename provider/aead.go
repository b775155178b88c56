package provider

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// AEADProvider is the in-process encryption provider: authenticated
// encryption with associated data over raw key bytes, with a 96-bit
// nonce drawn from a cryptographically strong source for every call.
// KeyDescriptor.Material is a hex-encoded AES key.
type AEADProvider struct{}

func NewAEADProvider() *AEADProvider {
	return &AEADProvider{}
}

func (p *AEADProvider) NewKey(d KeyDescriptor) (*Key, error) {
	raw, err := hex.DecodeString(d.Material)
	if err != nil {
		return nil, fmt.Errorf("decoding hex key material: %w", err)
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, fmt.Errorf("constructing AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("constructing AES-GCM AEAD: %w", err)
	}
	return &Key{kind: KindInternal, ref: aead}, nil
}

func (p *AEADProvider) Encrypt(_ context.Context, key *Key, plaintext string) (EncryptionResult, error) {
	aead, ok := key.ref.(cipher.AEAD)
	if !ok {
		return EncryptionResult{}, fmt.Errorf("key is not an internal AEAD key")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return EncryptionResult{}, fmt.Errorf("generating nonce: %w", err)
	}
	ciphertext := aead.Seal(nil, nonce, []byte(plaintext), nil)
	return EncryptionResult{Ciphertext: ciphertext, Nonce: nonce}, nil
}

func (p *AEADProvider) Decrypt(_ context.Context, key *Key, ciphertext, nonce []byte) (string, error) {
	aead, ok := key.ref.(cipher.AEAD)
	if !ok {
		return "", fmt.Errorf("key is not an internal AEAD key")
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ClassifyDecryptError(SourceAEAD, err)
	}
	return string(plaintext), nil
}

var _ Provider = (*AEADProvider)(nil)
