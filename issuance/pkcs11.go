package issuance

import (
	"crypto"

	"github.com/letsencrypt/pkcs11key/v4"

	"github.com/cloudfoundry-incubator/credhub-core/berrors"
)

// NewHSMSigner builds a crypto.Signer backed by a CA private key that
// never leaves a PKCS#11 HSM, as an alternative to the plain software
// signer ParseCAMaterial builds from a PEM key. This is the CA-signing
// counterpart to provider.HSMProvider: that package wraps raw
// github.com/miekg/pkcs11 sessions for symmetric AEAD operations, while
// this wraps the same PKCS#11 module through pkcs11key's higher-level
// session/object management for the asymmetric Sign operation
// crypto/x509.CreateCertificate needs.
func NewHSMSigner(modulePath, tokenLabel, pin string, publicKey crypto.PublicKey) (crypto.Signer, error) {
	signer, err := pkcs11key.New(modulePath, tokenLabel, pin, publicKey)
	if err != nil {
		return nil, berrors.InvalidCaMaterialf(err, "opening PKCS#11 session for CA signing key")
	}
	return signer, nil
}

// NewHSMSignerPool is the same as NewHSMSigner but opens a pool of
// sessions, letting concurrent issuances use independent PKCS#11 sessions
// instead of serializing on one. Use this for a CA key that's expected to
// sign under concurrent callers.
func NewHSMSignerPool(size int, modulePath, tokenLabel, pin string, publicKey crypto.PublicKey) (crypto.Signer, error) {
	pool, err := pkcs11key.NewPool(size, modulePath, tokenLabel, pin, publicKey)
	if err != nil {
		return nil, berrors.InvalidCaMaterialf(err, "opening PKCS#11 session pool for CA signing key")
	}
	return pool, nil
}
