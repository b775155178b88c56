// Package canarystore defines the persistence contract for
// CanaryRecords (component C) and a relational implementation of it.
// The canary mapper depends only on the Store interface; it never knows
// whether records live in MySQL, a test double, or anywhere else.
package canarystore

import (
	"context"

	"github.com/google/uuid"
)

// CanaryRecord is a persisted (encrypted_value, nonce) pair whose
// plaintext is always the fixed canary value. Its ID is assigned by the
// store on first save and never changes afterward.
type CanaryRecord struct {
	ID             uuid.UUID
	EncryptedValue []byte
	Nonce          []byte
}

// Store is the CRUD contract a concrete persistence layer must satisfy.
// FindAll's ordering is not guaranteed; Save returns the record with its
// ID populated.
type Store interface {
	FindAll(ctx context.Context) ([]CanaryRecord, error)
	Save(ctx context.Context, record CanaryRecord) (CanaryRecord, error)
}
