package canary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/cloudfoundry-incubator/credhub-core/berrors"
	"github.com/cloudfoundry-incubator/credhub-core/blog"
	"github.com/cloudfoundry-incubator/credhub-core/canarystore"
	"github.com/cloudfoundry-incubator/credhub-core/provider"
)

// fakeProvider is a deterministic stand-in for a real encryption
// provider: its "ciphertext" is literally "<key-label>|<plaintext>", so
// tests can set up exact match/mismatch scenarios without any real
// cryptography. A ciphertext of "FATAL" simulates an infrastructure
// failure that is never wrong-key-consistent.
type fakeProvider struct {
	labels map[*provider.Key]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{labels: map[*provider.Key]string{}}
}

func (p *fakeProvider) NewKey(d provider.KeyDescriptor) (*provider.Key, error) {
	key := &provider.Key{}
	p.labels[key] = d.Material
	return key, nil
}

func (p *fakeProvider) Encrypt(_ context.Context, key *provider.Key, plaintext string) (provider.EncryptionResult, error) {
	return provider.EncryptionResult{
		Ciphertext: []byte(p.labels[key] + "|" + plaintext),
		Nonce:      []byte("nonce-000000"),
	}, nil
}

func (p *fakeProvider) Decrypt(_ context.Context, key *provider.Key, ciphertext, _ []byte) (string, error) {
	if string(ciphertext) == "FATAL" {
		return "", errors.New("I don't know what 0x41 means and neither do you")
	}
	prefix := p.labels[key] + "|"
	s := string(ciphertext)
	if !strings.HasPrefix(s, prefix) {
		return "", provider.ClassifyDecryptError(provider.SourceAEAD, errors.New("cipher: message authentication failed"))
	}
	return strings.TrimPrefix(s, prefix), nil
}

type fakeKeySource struct {
	keys   []*provider.Key
	active *provider.Key
}

func (s fakeKeySource) Keys() []*provider.Key     { return s.keys }
func (s fakeKeySource) ActiveKey() *provider.Key { return s.active }

type fakeStore struct {
	records   []canarystore.CanaryRecord
	saveCalls int
}

func (s *fakeStore) FindAll(context.Context) ([]canarystore.CanaryRecord, error) {
	out := make([]canarystore.CanaryRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeStore) Save(_ context.Context, rec canarystore.CanaryRecord) (canarystore.CanaryRecord, error) {
	s.saveCalls++
	rec.ID = uuid.New()
	s.records = append(s.records, rec)
	return rec, nil
}

func canaryFor(label, plaintext string) canarystore.CanaryRecord {
	return canarystore.CanaryRecord{
		ID:             uuid.New(),
		EncryptedValue: []byte(label + "|" + plaintext),
		Nonce:          []byte("nonce-000000"),
	}
}

// S1: no active key at all.
func TestReconcileNoActiveKey(t *testing.T) {
	store := &fakeStore{}
	_, err := Reconcile(context.Background(), fakeKeySource{}, newFakeProvider(), store, blog.UseMock(), nil)
	if !errors.Is(err, berrors.NoActiveKeyError) {
		t.Fatalf("expected NoActiveKey, got %v", err)
	}
}

// S2: single active key, empty store.
func TestReconcileMintsCanaryForFreshActiveKey(t *testing.T) {
	p := newFakeProvider()
	active, err := p.NewKey(provider.KeyDescriptor{Active: true, Material: "active"})
	if err != nil {
		t.Fatal(err)
	}
	store := &fakeStore{}

	m, err := Reconcile(context.Background(), fakeKeySource{keys: []*provider.Key{active}, active: active}, p, store, blog.UseMock(), nil)
	if err != nil {
		t.Fatalf("Reconcile: %s", err)
	}
	if store.saveCalls != 1 {
		t.Errorf("expected exactly one save, got %d", store.saveCalls)
	}
	km := m.EncryptionKeyMap()
	if len(km) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(km))
	}
	if km[m.ActiveUUID()] != active {
		t.Error("active uuid should map to the active key")
	}
}

// S3: stale canary only — decrypts to wrong-key for the active key.
func TestReconcileMintsNewCanaryWhenOnlyStaleOneExists(t *testing.T) {
	p := newFakeProvider()
	active, _ := p.NewKey(provider.KeyDescriptor{Active: true, Material: "active"})
	stale := canaryFor("retired-key-never-configured", provider.CanaryValue)
	store := &fakeStore{records: []canarystore.CanaryRecord{stale}}

	m, err := Reconcile(context.Background(), fakeKeySource{keys: []*provider.Key{active}, active: active}, p, store, blog.UseMock(), nil)
	if err != nil {
		t.Fatalf("Reconcile: %s", err)
	}
	if store.saveCalls != 1 {
		t.Errorf("expected exactly one save, got %d", store.saveCalls)
	}
	if len(m.EncryptionKeyMap()) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(m.EncryptionKeyMap()))
	}
	// The stale canary must still be present, untouched.
	all, _ := store.FindAll(context.Background())
	var foundStale bool
	for _, r := range all {
		if r.ID == stale.ID {
			foundStale = true
		}
	}
	if !foundStale {
		t.Error("stale canary should be left untouched in the store")
	}
}

// S4: unknown decrypt error aborts startup.
func TestReconcileAbortsOnUnknownDecryptError(t *testing.T) {
	p := newFakeProvider()
	active, _ := p.NewKey(provider.KeyDescriptor{Active: true, Material: "active"})
	fatalCanary := canarystore.CanaryRecord{ID: uuid.New(), EncryptedValue: []byte("FATAL"), Nonce: []byte("nonce-000000")}
	store := &fakeStore{records: []canarystore.CanaryRecord{fatalCanary}}

	_, err := Reconcile(context.Background(), fakeKeySource{keys: []*provider.Key{active}, active: active}, p, store, blog.UseMock(), nil)
	if !errors.Is(err, berrors.EncryptionInfrastructureErr) {
		t.Fatalf("expected EncryptionInfrastructure, got %v", err)
	}
	if !strings.Contains(err.Error(), "0x41") {
		t.Errorf("expected the underlying cause to be present in the error, got %v", err)
	}
}

// S5: matching canary already in the store.
func TestReconcileUsesMatchingCanaryWithoutMinting(t *testing.T) {
	p := newFakeProvider()
	active, _ := p.NewKey(provider.KeyDescriptor{Active: true, Material: "active"})
	matching := canaryFor("active", provider.CanaryValue)
	store := &fakeStore{records: []canarystore.CanaryRecord{matching}}

	m, err := Reconcile(context.Background(), fakeKeySource{keys: []*provider.Key{active}, active: active}, p, store, blog.UseMock(), nil)
	if err != nil {
		t.Fatalf("Reconcile: %s", err)
	}
	if store.saveCalls != 0 {
		t.Errorf("expected zero saves, got %d", store.saveCalls)
	}
	if m.ActiveUUID() != matching.ID {
		t.Errorf("active uuid should be the matching canary's id")
	}
}

// S6: three keys, three matching canaries.
func TestReconcileThreeKeysThreeMatches(t *testing.T) {
	p := newFakeProvider()
	k1, _ := p.NewKey(provider.KeyDescriptor{Material: "k1"})
	kActive, _ := p.NewKey(provider.KeyDescriptor{Active: true, Material: "kActive"})
	k2, _ := p.NewKey(provider.KeyDescriptor{Material: "k2"})

	c1 := canaryFor("k1", provider.CanaryValue)
	cActive := canaryFor("kActive", provider.CanaryValue)
	c2 := canaryFor("k2", provider.CanaryValue)
	store := &fakeStore{records: []canarystore.CanaryRecord{c1, cActive, c2}}

	m, err := Reconcile(context.Background(), fakeKeySource{keys: []*provider.Key{k1, kActive, k2}, active: kActive}, p, store, blog.UseMock(), nil)
	if err != nil {
		t.Fatalf("Reconcile: %s", err)
	}
	if store.saveCalls != 0 {
		t.Errorf("expected zero saves, got %d", store.saveCalls)
	}
	km := m.EncryptionKeyMap()
	if len(km) != 3 {
		t.Fatalf("expected 3 bindings, got %d", len(km))
	}
	if km[c1.ID] != k1 || km[cActive.ID] != kActive || km[c2.ID] != k2 {
		t.Error("bindings do not match the expected key for each canary")
	}
	if m.ActiveUUID() != cActive.ID {
		t.Error("active uuid should be cActive's id")
	}
}

// S7: a configured, non-active key with no matching canary is dropped.
func TestReconcileDropsNonActiveKeyWithNoCanary(t *testing.T) {
	p := newFakeProvider()
	k1, _ := p.NewKey(provider.KeyDescriptor{Material: "k1"})
	kActive, _ := p.NewKey(provider.KeyDescriptor{Active: true, Material: "kActive"})
	k2, _ := p.NewKey(provider.KeyDescriptor{Material: "k2"})

	c1 := canaryFor("k1", provider.CanaryValue)
	cActive := canaryFor("kActive", provider.CanaryValue)
	store := &fakeStore{records: []canarystore.CanaryRecord{c1, cActive}}

	m, err := Reconcile(context.Background(), fakeKeySource{keys: []*provider.Key{k1, kActive, k2}, active: kActive}, p, store, blog.UseMock(), nil)
	if err != nil {
		t.Fatalf("Reconcile: %s", err)
	}
	if store.saveCalls != 0 {
		t.Errorf("expected zero saves for a dropped non-active key, got %d", store.saveCalls)
	}
	km := m.EncryptionKeyMap()
	if len(km) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(km))
	}
	for _, key := range km {
		if key == k2 {
			t.Fatal("k2 must not appear in the binding map")
		}
	}
}

func TestKeyForUnknownCanaryIsSurfaced(t *testing.T) {
	p := newFakeProvider()
	active, _ := p.NewKey(provider.KeyDescriptor{Active: true, Material: "active"})
	store := &fakeStore{}
	m, err := Reconcile(context.Background(), fakeKeySource{keys: []*provider.Key{active}, active: active}, p, store, blog.UseMock(), nil)
	if err != nil {
		t.Fatalf("Reconcile: %s", err)
	}

	_, err = m.KeyFor(uuid.New())
	if !errors.Is(err, berrors.UnknownCanaryError) {
		t.Fatalf("expected UnknownCanary, got %v", err)
	}
}

func TestReconcileLogsUnexpectedPlaintext(t *testing.T) {
	p := newFakeProvider()
	active, _ := p.NewKey(provider.KeyDescriptor{Active: true, Material: "active"})
	// Decrypts successfully under the fake scheme (same label prefix) but
	// to a plaintext other than the canary value.
	weird := canaryFor("active", "not the canary value")
	store := &fakeStore{records: []canarystore.CanaryRecord{weird}}
	mockLog := blog.UseMock()

	_, err := Reconcile(context.Background(), fakeKeySource{keys: []*provider.Key{active}, active: active}, p, store, mockLog, nil)
	if err != nil {
		t.Fatalf("Reconcile: %s", err)
	}
	if len(mockLog.GetAllMatching("unexpected plaintext")) == 0 {
		t.Error("expected the unexpected-plaintext branch to be logged")
	}
}
