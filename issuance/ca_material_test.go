package issuance

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

func selfSignedTestCertPEM(t *testing.T) (string, string, *ecdsa.PrivateKey) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "test CA material"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		IsCA:         true,
		KeyUsage:     x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, priv.Public(), priv)
	if err != nil {
		t.Fatal(err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	return string(certPEM), string(keyPEM), priv
}

func TestParseCAMaterial(t *testing.T) {
	certPEM, keyPEM, _ := selfSignedTestCertPEM(t)

	ca, err := ParseCAMaterial(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("ParseCAMaterial: %s", err)
	}
	if ca.Subject.CommonName != "test CA material" {
		t.Errorf("got subject CN %q, want %q", ca.Subject.CommonName, "test CA material")
	}
	if ca.SerialNumber.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("got serial %v, want 42", ca.SerialNumber)
	}
	if len(ca.SKI) != 20 {
		t.Errorf("expected a derived 20-byte SKI, got %d bytes", len(ca.SKI))
	}
	if ca.Signer == nil {
		t.Fatal("expected a non-nil signer")
	}
}

func TestParseCAMaterialRejectsGarbage(t *testing.T) {
	_, err := ParseCAMaterial("not a pem", "also not a pem")
	if err == nil {
		t.Fatal("expected an error for unparseable CA material")
	}
}
