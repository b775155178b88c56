// Package canary implements the canary mapper (component D): the
// algorithm that binds configured keys to persisted canary ids at
// startup, mints new canaries for keys nobody has seen before, and
// exposes the resulting id-to-key mapping for the rest of the process's
// lifetime.
//
// Canaries permit key rotation without disturbing previously encrypted
// ciphertexts: each ciphertext persists with the id of the key that
// produced it, and that id is stable across restarts as long as the
// underlying key material is unchanged. The canary also detects key
// substitution: if an operator replaces the bytes behind an active key,
// no canary will decrypt, a new one is minted, and old ciphertexts
// become unreadable in a predictable, diagnosable way.
package canary

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cloudfoundry-incubator/credhub-core/berrors"
	"github.com/cloudfoundry-incubator/credhub-core/blog"
	"github.com/cloudfoundry-incubator/credhub-core/canarystore"
	"github.com/cloudfoundry-incubator/credhub-core/provider"
)

// KeySource is the narrow view of the key registry the mapper needs:
// the configured keys in order, and which one is active.
type KeySource interface {
	Keys() []*provider.Key
	ActiveKey() *provider.Key
}

// Mapper is the read-only, post-reconciliation view of which canary id
// is bound to which key. It's safe for concurrent readers without any
// locking: reconciliation runs once to completion before any Mapper is
// handed out.
type Mapper struct {
	bindings map[uuid.UUID]*provider.Key
	activeID uuid.UUID
}

// Reconcile runs the startup reconciliation algorithm once, synchronously.
// It fetches the configured keys and stored canaries, matches each key
// against an unconsumed canary in configured order, mints a fresh canary
// for the active key if none matched, and drops any other unmatched key
// from this run's registry entirely.
func Reconcile(
	ctx context.Context,
	keys KeySource,
	p provider.Provider,
	store canarystore.Store,
	log blog.Logger,
	metrics *mapperMetrics,
) (*Mapper, error) {
	configuredKeys := keys.Keys()
	activeKey := keys.ActiveKey()
	if len(configuredKeys) == 0 || activeKey == nil {
		return nil, berrors.NoActiveKeyf("provider yielded no keys, or no active key")
	}

	canaries, err := store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching canary records: %w", err)
	}

	consumed := make(map[uuid.UUID]bool, len(canaries))
	bindings := make(map[uuid.UUID]*provider.Key, len(configuredKeys))
	var activeID uuid.UUID
	var haveActiveID bool

	for _, key := range configuredKeys {
		matchedID, matched, err := matchCanary(ctx, p, key, canaries, consumed, log)
		if err != nil {
			return nil, err
		}

		if matched {
			bindings[matchedID] = key
			consumed[matchedID] = true
			metrics.observe("matched")
			if key == activeKey {
				activeID = matchedID
				haveActiveID = true
			}
			continue
		}

		if key != activeKey {
			// No canary for a retired key: leave it unbound and drop it
			// from the registry for this run.
			metrics.observe("dropped")
			continue
		}

		mintedID, err := mintCanary(ctx, p, store, key)
		if err != nil {
			return nil, err
		}
		bindings[mintedID] = key
		activeID = mintedID
		haveActiveID = true
		metrics.observe("minted")
	}

	if !haveActiveID {
		// Unreachable given the loop above always mints for the active
		// key on a miss, but defends against a future refactor breaking
		// that guarantee silently.
		return nil, berrors.NoActiveKeyf("no canary bound to the active key after reconciliation")
	}

	return &Mapper{bindings: bindings, activeID: activeID}, nil
}

// matchCanary tries every unconsumed canary against key, in store order,
// and returns the id of the first one whose decryption equals the canary
// value. A wrong-key-consistent failure or an unexpected (but
// successfully decrypted) plaintext both count as "no match, keep
// looking"; any other failure aborts reconciliation.
func matchCanary(
	ctx context.Context,
	p provider.Provider,
	key *provider.Key,
	canaries []canarystore.CanaryRecord,
	consumed map[uuid.UUID]bool,
	log blog.Logger,
) (uuid.UUID, bool, error) {
	for _, c := range canaries {
		if consumed[c.ID] {
			continue
		}
		plaintext, err := p.Decrypt(ctx, key, c.EncryptedValue, c.Nonce)
		if err != nil {
			if provider.IsWrongKey(err) {
				continue
			}
			return uuid.UUID{}, false, berrors.EncryptionInfrastructuref(err, "decrypting canary %s during reconciliation", c.ID)
		}
		if plaintext != provider.CanaryValue {
			// Open Question in the design notes: the original behavior on
			// a decrypt that succeeds but returns an unexpected plaintext
			// is to treat it as wrong-key without error. Logged here so
			// an operator can see the branch fired, per that note.
			log.AuditObject("canary decrypted to unexpected plaintext, treating as wrong-key", map[string]string{
				"canary_id": c.ID.String(),
			})
			continue
		}
		return c.ID, true, nil
	}
	return uuid.UUID{}, false, nil
}

// mintCanary encrypts the canary value with key and persists the result,
// for use when no stored canary matched it.
func mintCanary(ctx context.Context, p provider.Provider, store canarystore.Store, key *provider.Key) (uuid.UUID, error) {
	result, err := p.Encrypt(ctx, key, provider.CanaryValue)
	if err != nil {
		return uuid.UUID{}, berrors.EncryptionInfrastructuref(err, "encrypting new canary for active key")
	}
	saved, err := store.Save(ctx, canarystore.CanaryRecord{
		EncryptedValue: result.Ciphertext,
		Nonce:          result.Nonce,
	})
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("saving new canary: %w", err)
	}
	return saved.ID, nil
}

// EncryptionKeyMap returns the id-to-key mapping produced by
// reconciliation. It's a read-only snapshot; callers must not mutate it.
func (m *Mapper) EncryptionKeyMap() map[uuid.UUID]*provider.Key {
	out := make(map[uuid.UUID]*provider.Key, len(m.bindings))
	for id, key := range m.bindings {
		out[id] = key
	}
	return out
}

// ActiveUUID returns the id bound to the provider's active key.
func (m *Mapper) ActiveUUID() uuid.UUID {
	return m.activeID
}

// KeyFor resolves a canary id back to a key, or fails with UnknownCanary
// if nothing in the binding map matches — meaning the ciphertext it
// names belongs to a retired or missing key.
func (m *Mapper) KeyFor(id uuid.UUID) (*provider.Key, error) {
	key, ok := m.bindings[id]
	if !ok {
		return nil, berrors.UnknownCanaryf("no key bound to canary id %s", id)
	}
	return key, nil
}
