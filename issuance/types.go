// Package issuance implements the certificate generator (component F): two
// entry points, SelfSigned and SignedBy, that build a DER-encoded X.509
// certificate from a key pair, a set of parameters, and — for SignedBy — an
// issuing CA's credential. All crypto here is synchronous; the package
// performs no I/O of its own.
package issuance

import (
	"crypto"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"

	"github.com/jmhodges/clock"

	"github.com/cloudfoundry-incubator/credhub-core/berrors"
)

// CertificateParameters carries everything about the certificate being
// minted that isn't derived from the key pair or the issuer.
type CertificateParameters struct {
	Subject      pkix.Name
	DurationDays int
	IsCA         bool

	DNSNames    []string
	IPAddresses []net.IP

	KeyUsage    x509.KeyUsage
	ExtKeyUsage []x509.ExtKeyUsage
}

// KeyPair is the subject's key material: a signer (so self-signed
// certificates can sign with their own key) whose Public method supplies
// the subject public key embedded in the certificate.
type KeyPair struct {
	Signer crypto.Signer
}

// CAMaterial is a parsed issuing CA credential: the parts of its
// certificate that SignedBy needs (subject DN, serial, subject key
// identifier) and a signer built from its private key.
type CAMaterial struct {
	Subject      pkix.Name
	SerialNumber *big.Int
	SKI          []byte
	Signer       crypto.Signer
}

// ParseCAMaterial parses a PEM-encoded CA certificate and a PEM-encoded CA
// private key into a CAMaterial ready to pass to SignedBy. The certificate
// is read with zcrypto's permissive X.509 parser, which tolerates the
// field-encoding deviations common in older or self-built CAs that the
// standard library's strict parser rejects outright. The private key must
// be one of the traditional PKCS#1, SEC1, or PKCS#8 PEM encodings.
func ParseCAMaterial(certPEM, keyPEM string) (*CAMaterial, error) {
	subject, serial, ski, err := parsePermissiveCertificate(certPEM)
	if err != nil {
		return nil, berrors.InvalidCaMaterialf(err, "parsing CA certificate")
	}

	keyBlock, _ := pem.Decode([]byte(keyPEM))
	if keyBlock == nil {
		return nil, berrors.InvalidCaMaterialf(nil, "no PEM block found in CA private key")
	}
	signer, err := parsePrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, berrors.InvalidCaMaterialf(err, "parsing CA private key")
	}

	return &CAMaterial{Subject: subject, SerialNumber: serial, SKI: ski, Signer: signer}, nil
}

func parsePrivateKey(der []byte) (crypto.Signer, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, berrors.InvalidCaMaterialf(nil, "PKCS#8 key does not implement crypto.Signer")
	}
	return signer, nil
}

// clockNow is the indirection point for the injected time-provider
// collaborator; every caller reaches it through a clock.Clock.
func clockNow(clk clock.Clock) clock.Clock {
	if clk == nil {
		return clock.New()
	}
	return clk
}
