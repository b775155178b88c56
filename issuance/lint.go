package issuance

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"

	"github.com/zmap/zcrypto/x509"
	"github.com/zmap/zlint/v3"
	"github.com/zmap/zlint/v3/lint"

	"github.com/cloudfoundry-incubator/credhub-core/berrors"
)

// parsePermissiveCertificate reads a PEM-encoded certificate with zcrypto's
// permissive parser and returns the handful of fields SignedBy needs. Only
// the raw subject bytes are re-parsed with the standard library's pkix
// decoder, so this never depends on zcrypto's own Name representation.
func parsePermissiveCertificate(certPEM string) (pkix.Name, *big.Int, []byte, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return pkix.Name{}, nil, nil, errors.New("no PEM block found in CA certificate")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return pkix.Name{}, nil, nil, err
	}

	var rdn pkix.RDNSequence
	if _, err := asn1.Unmarshal(cert.RawSubject, &rdn); err != nil {
		return pkix.Name{}, nil, nil, fmt.Errorf("decoding CA subject: %w", err)
	}
	var subject pkix.Name
	subject.FillFromRDNSequence(&rdn)

	ski := cert.SubjectKeyId
	if len(ski) == 0 {
		ski, err = computeSKI(cert.PublicKey)
		if err != nil {
			return pkix.Name{}, nil, nil, fmt.Errorf("deriving SKI for a CA certificate that carries none: %w", err)
		}
	}

	return subject, cert.SerialNumber, ski, nil
}

// lintCertificate runs the default zlint registry against a freshly issued
// certificate and returns the names of any Error/Fatal findings, mirroring
// the teacher's lint-before-trust posture without the CT-log precertificate
// machinery that posture was originally built for — there is no separate
// precertificate here, so the real, final certificate is what gets linted.
//
// Findings are advisory, not fatal: the default registry layers in
// WebPKI/CA-Browser-Forum-BR, Mozilla, Apple, and EV lints that assume a
// publicly trusted, browser-facing leaf certificate. This core's
// spec-mandated minimal certificates legitimately trip some of those (a CA
// certificate with no Key Usage extension, no country or organization in
// its subject, and so on), and a self-imposed supplement must not reject
// input the certificate generator's own spec requires it to produce.
// Callers surface the findings for an operator to see, not as a signing
// failure.
func lintCertificate(der []byte) ([]string, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, berrors.SigningFailuref(err, "parsing issued certificate for linting")
	}

	registry := lint.GlobalRegistry()
	results := zlint.LintCertificateEx(cert, registry)
	if results == nil {
		return nil, nil
	}

	var findings []string
	for name, result := range results.Results {
		if result.Status == lint.Error || result.Status == lint.Fatal {
			findings = append(findings, fmt.Sprintf("%s: %s", name, result.Details))
		}
	}
	return findings, nil
}
