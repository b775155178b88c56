package provider

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/miekg/pkcs11"
)

// hsmKeyRef names a key already loaded into the HSM by PKCS#11 object
// label; the provider looks the object handle up per-call rather than
// caching it, since HSM sessions can be recycled out from under a
// long-lived process.
type hsmKeyRef struct {
	label string
}

// HSMProvider is the PKCS#11-backed provider: a supplement to the base
// AEAD/remote pair, restoring the local hardware security module path
// the original CredHub system has alongside its internal and remote
// (DSM) providers. KeyDescriptor.Material is the PKCS#11 object label.
type HSMProvider struct {
	ctx     *pkcs11.Ctx
	session pkcs11.SessionHandle
}

// NewHSMProvider wraps an already-initialized, already-logged-in PKCS#11
// session. Session lifecycle (Initialize, OpenSession, Login) is the
// caller's concern, matching the spec's stance that provider
// construction is external wiring, not core behavior.
func NewHSMProvider(ctx *pkcs11.Ctx, session pkcs11.SessionHandle) *HSMProvider {
	return &HSMProvider{ctx: ctx, session: session}
}

func (p *HSMProvider) NewKey(d KeyDescriptor) (*Key, error) {
	if d.Material == "" {
		return nil, fmt.Errorf("HSM key descriptor requires an object label")
	}
	return &Key{kind: KindHSM, ref: hsmKeyRef{label: d.Material}}, nil
}

func (p *HSMProvider) findObject(label string) (pkcs11.ObjectHandle, error) {
	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_SECRET_KEY),
		pkcs11.NewAttribute(pkcs11.CKA_LABEL, label),
	}
	if err := p.ctx.FindObjectsInit(p.session, template); err != nil {
		return 0, fmt.Errorf("FindObjectsInit for label %q: %w", label, err)
	}
	defer p.ctx.FindObjectsFinal(p.session)

	handles, _, err := p.ctx.FindObjects(p.session, 1)
	if err != nil {
		return 0, fmt.Errorf("FindObjects for label %q: %w", label, err)
	}
	if len(handles) == 0 {
		return 0, fmt.Errorf("no HSM object with label %q", label)
	}
	return handles[0], nil
}

// aesGCMMechanism builds the CKM_AES_GCM parameters for the given nonce,
// with a 128-bit authentication tag, matching the mechanism most PKCS#11
// HSMs expose for AEAD.
func aesGCMMechanism(nonce []byte) *pkcs11.Mechanism {
	params := pkcs11.NewGCMParams(nonce, nil, 128)
	return pkcs11.NewMechanism(pkcs11.CKM_AES_GCM, params)
}

func (p *HSMProvider) Encrypt(_ context.Context, key *Key, plaintext string) (EncryptionResult, error) {
	ref, ok := key.ref.(hsmKeyRef)
	if !ok {
		return EncryptionResult{}, fmt.Errorf("key is not an HSM key")
	}
	handle, err := p.findObject(ref.label)
	if err != nil {
		return EncryptionResult{}, err
	}
	nonce := make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return EncryptionResult{}, fmt.Errorf("generating nonce: %w", err)
	}
	if err := p.ctx.EncryptInit(p.session, []*pkcs11.Mechanism{aesGCMMechanism(nonce)}, handle); err != nil {
		return EncryptionResult{}, fmt.Errorf("EncryptInit: %w", err)
	}
	ciphertext, err := p.ctx.Encrypt(p.session, []byte(plaintext))
	if err != nil {
		return EncryptionResult{}, fmt.Errorf("Encrypt: %w", err)
	}
	return EncryptionResult{Ciphertext: ciphertext, Nonce: nonce}, nil
}

func (p *HSMProvider) Decrypt(_ context.Context, key *Key, ciphertext, nonce []byte) (string, error) {
	ref, ok := key.ref.(hsmKeyRef)
	if !ok {
		return "", fmt.Errorf("key is not an HSM key")
	}
	handle, err := p.findObject(ref.label)
	if err != nil {
		return "", err
	}
	if err := p.ctx.DecryptInit(p.session, []*pkcs11.Mechanism{aesGCMMechanism(nonce)}, handle); err != nil {
		return "", fmt.Errorf("DecryptInit: %w", err)
	}
	plaintext, err := p.ctx.Decrypt(p.session, ciphertext)
	if err != nil {
		return "", ClassifyDecryptError(SourceHSM, wrapPKCS11DecryptError(err))
	}
	return string(plaintext), nil
}

// wrapPKCS11DecryptError reformats a pkcs11.Error the way the HSM's own
// client library phrases a C_Decrypt failure, since that's the exact
// substring the classifier (and the original CredHub system's test
// suite) recognizes as wrong-key.
func wrapPKCS11DecryptError(err error) error {
	if pkcs11Err, ok := err.(pkcs11.Error); ok {
		return fmt.Errorf("function 'C_Decrypt' returns 0x%x: %w", uint(pkcs11Err), err)
	}
	return err
}

var _ Provider = (*HSMProvider)(nil)
