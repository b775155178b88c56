// Package provider defines the encryption-provider abstraction (component
// A) shared by every concrete key backend: an in-process AEAD
// implementation, a PKCS#11-backed HSM, and a remote encryption service
// spoken over gRPC.
package provider

import "context"

// Kind identifies which concrete backend materialized a Key.
type Kind string

const (
	KindInternal Kind = "internal"
	KindHSM      Kind = "hsm"
	KindRemote   Kind = "remote"
)

// Key is an opaque handle to symmetric key material living inside some
// provider. Keys are immutable for their lifetime and compared by
// identity: the same configured key always yields the same *Key
// pointer for the life of a process.
type Key struct {
	kind Kind
	ref  any
}

func (k *Key) Kind() Kind { return k.kind }

// EncryptionResult is the opaque output of an Encrypt call. Callers
// persist (id, Ciphertext, Nonce) together as the on-disk form of an
// encrypted credential; the id comes from the canary mapper, not from
// this package.
type EncryptionResult struct {
	Ciphertext []byte
	Nonce      []byte
}

// KeyDescriptor is the configuration-level description of a key: which
// provider-specific opaque string names its material, and whether it's
// the one active key used for new encryptions.
type KeyDescriptor struct {
	Active   bool
	Material string
}

// CanaryValue is the fixed plaintext every CanaryRecord protects. It is
// ASCII, 12 bytes, with no trailing newline.
const CanaryValue = "HEALTH_CHECK"

// Provider is the unified contract over AEAD primitives or a remote RPC.
// NewKey materializes a configuration-level KeyDescriptor into a live
// Key; Encrypt/Decrypt operate on Keys already materialized this way.
type Provider interface {
	NewKey(d KeyDescriptor) (*Key, error)
	Encrypt(ctx context.Context, key *Key, plaintext string) (EncryptionResult, error)
	Decrypt(ctx context.Context, key *Key, ciphertext, nonce []byte) (string, error)
}
