package issuance

import (
	"crypto/rand"
	"crypto/x509"
	"time"

	"github.com/jmhodges/clock"

	"github.com/cloudfoundry-incubator/credhub-core/berrors"
	"github.com/cloudfoundry-incubator/credhub-core/blog"
)

// Generator builds certificates with injected collaborators for the
// serial-number source and the clock, following the same
// collaborator-injection shape as the teacher's certificateAuthorityImpl.
// The zero value is usable: it falls back to RandomSerialSource and the
// system clock and skips advisory lint logging.
type Generator struct {
	Serial  SerialSource
	Clock   clock.Clock
	Metrics *SigningMetrics
	Log     blog.Logger
}

func (g *Generator) serial() SerialSource {
	if g.Serial == nil {
		return RandomSerialSource{}
	}
	return g.Serial
}

// SelfSigned builds a self-signed certificate: issuer and subject are both
// params.Subject, and the Authority Key Identifier equals the certificate's
// own Subject Key Identifier.
func (g *Generator) SelfSigned(keyPair KeyPair, params CertificateParameters) ([]byte, error) {
	serialNumber, err := g.serial().NextSerial()
	if err != nil {
		return nil, err
	}

	ski, err := computeSKI(keyPair.Signer.Public())
	if err != nil {
		return nil, berrors.SigningFailuref(err, "computing subject key identifier")
	}

	notBefore, notAfter := g.validity(params)

	exts, err := buildExtensions(ski, params, ski, params.Subject, serialNumber)
	if err != nil {
		return nil, berrors.SigningFailuref(err, "building certificate extensions")
	}

	template := &x509.Certificate{
		SerialNumber:    serialNumber,
		Subject:         params.Subject,
		NotBefore:       notBefore,
		NotAfter:        notAfter,
		PublicKey:       keyPair.Signer.Public(),
		ExtraExtensions: exts,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, keyPair.Signer.Public(), keyPair.Signer)
	if err != nil {
		g.Metrics.observe("signer_error")
		return nil, berrors.SigningFailuref(err, "signing self-signed certificate")
	}

	if err := g.lint(der); err != nil {
		return nil, err
	}

	g.Metrics.observe("signed")
	return der, nil
}

// SignedBy builds a certificate issued by ca: the Issuer distinguished name
// is ca's subject, and the Authority Key Identifier carries ca's Subject
// Key Identifier, DN, and serial number.
func (g *Generator) SignedBy(ca *CAMaterial, keyPair KeyPair, params CertificateParameters) ([]byte, error) {
	serialNumber, err := g.serial().NextSerial()
	if err != nil {
		return nil, err
	}

	ski, err := computeSKI(keyPair.Signer.Public())
	if err != nil {
		return nil, berrors.SigningFailuref(err, "computing subject key identifier")
	}

	notBefore, notAfter := g.validity(params)

	exts, err := buildExtensions(ski, params, ca.SKI, ca.Subject, ca.SerialNumber)
	if err != nil {
		return nil, berrors.SigningFailuref(err, "building certificate extensions")
	}

	template := &x509.Certificate{
		SerialNumber:    serialNumber,
		Subject:         params.Subject,
		NotBefore:       notBefore,
		NotAfter:        notAfter,
		PublicKey:       keyPair.Signer.Public(),
		ExtraExtensions: exts,
	}
	parent := &x509.Certificate{
		Subject:      ca.Subject,
		SerialNumber: ca.SerialNumber,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parent, keyPair.Signer.Public(), ca.Signer)
	if err != nil {
		g.Metrics.observe("signer_error")
		return nil, berrors.SigningFailuref(err, "signing certificate")
	}

	if err := g.lint(der); err != nil {
		return nil, err
	}

	g.Metrics.observe("signed")
	return der, nil
}

func (g *Generator) validity(params CertificateParameters) (notBefore, notAfter time.Time) {
	now := clockNow(g.Clock).Now()
	return now, now.AddDate(0, 0, params.DurationDays)
}

// lint runs the advisory zlint pass over a freshly signed certificate. A
// parse failure here means the certificate the generator just built is
// malformed and is surfaced as SigningFailure; Error/Fatal lint findings
// are not, since the default registry's WebPKI/BR/Mozilla/Apple lints
// assume a publicly trusted leaf this core's minimal certificates aren't
// required to satisfy. Findings are only logged, for operator visibility.
func (g *Generator) lint(der []byte) error {
	findings, err := lintCertificate(der)
	if err != nil {
		g.Metrics.observe("lint_parse_error")
		return err
	}
	if len(findings) > 0 {
		g.Metrics.observe("lint_findings")
		if g.Log != nil {
			g.Log.AuditObject("certificate issued with advisory lint findings", findings)
		}
	}
	return nil
}
