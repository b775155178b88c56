package issuance

import (
	"crypto"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"math/bits"
	"net"
)

var (
	oidExtensionSubjectKeyID     = asn1.ObjectIdentifier{2, 5, 29, 14}
	oidExtensionKeyUsage         = asn1.ObjectIdentifier{2, 5, 29, 15}
	oidExtensionSubjectAltName   = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidExtensionBasicConstraints = asn1.ObjectIdentifier{2, 5, 29, 19}
	oidExtensionExtKeyUsage      = asn1.ObjectIdentifier{2, 5, 29, 37}
	oidExtensionAuthorityKeyID   = asn1.ObjectIdentifier{2, 5, 29, 35}
)

// extKeyUsageOIDs maps the handful of x509.ExtKeyUsage values this core
// cares about to their well-known RFC 5280 / PKIX OIDs. x509 itself doesn't
// export this table.
var extKeyUsageOIDs = map[x509.ExtKeyUsage]asn1.ObjectIdentifier{
	x509.ExtKeyUsageServerAuth:      {1, 3, 6, 1, 5, 5, 7, 3, 1},
	x509.ExtKeyUsageClientAuth:      {1, 3, 6, 1, 5, 5, 7, 3, 2},
	x509.ExtKeyUsageCodeSigning:     {1, 3, 6, 1, 5, 5, 7, 3, 3},
	x509.ExtKeyUsageEmailProtection: {1, 3, 6, 1, 5, 5, 7, 3, 4},
	x509.ExtKeyUsageTimeStamping:    {1, 3, 6, 1, 5, 5, 7, 3, 8},
	x509.ExtKeyUsageOCSPSigning:     {1, 3, 6, 1, 5, 5, 7, 3, 9},
}

// computeSKI derives a Subject Key Identifier from pub using the
// "leftmost 160 bits of the SHA-256 hash of the subjectPublicKey BIT
// STRING" method from RFC 7093 §2, the same method generateSKID in the
// teacher's CA used (there built on SHA-256 rather than the older SHA-1
// form).
func computeSKI(pub crypto.PublicKey) ([]byte, error) {
	pkixBytes, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, err
	}
	var spki struct {
		Algo      pkix.AlgorithmIdentifier
		BitString asn1.BitString
	}
	if _, err := asn1.Unmarshal(pkixBytes, &spki); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(spki.BitString.Bytes)
	return sum[0:20:20], nil
}

func buildSKIExtension(ski []byte) (pkix.Extension, error) {
	val, err := asn1.Marshal(ski)
	if err != nil {
		return pkix.Extension{}, err
	}
	return pkix.Extension{Id: oidExtensionSubjectKeyID, Critical: false, Value: val}, nil
}

func buildSANExtension(dnsNames []string, ips []net.IP) (pkix.Extension, error) {
	var names []asn1.RawValue
	for _, name := range dnsNames {
		names = append(names, asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 2, Bytes: []byte(name)})
	}
	for _, ip := range ips {
		raw := ip.To4()
		if raw == nil {
			raw = ip.To16()
		}
		names = append(names, asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 7, Bytes: raw})
	}
	val, err := asn1.Marshal(names)
	if err != nil {
		return pkix.Extension{}, err
	}
	return pkix.Extension{Id: oidExtensionSubjectAltName, Critical: false, Value: val}, nil
}

// buildKeyUsageExtension mirrors the bit-string packing crypto/x509 itself
// uses: the KeyUsage bitmask is bit-reversed byte-by-byte because X.509
// BIT STRINGs number bits most-significant-first while Go's KeyUsage
// constants are ordinary little-endian bit flags.
func buildKeyUsageExtension(ku x509.KeyUsage) (pkix.Extension, error) {
	var packed [2]byte
	packed[0] = bits.Reverse8(byte(ku))
	packed[1] = bits.Reverse8(byte(ku >> 8))

	length := 1
	if packed[1] != 0 {
		length = 2
	}
	bitString := asn1.BitString{Bytes: packed[:length], BitLength: length * 8}

	val, err := asn1.Marshal(bitString)
	if err != nil {
		return pkix.Extension{}, err
	}
	return pkix.Extension{Id: oidExtensionKeyUsage, Critical: true, Value: val}, nil
}

func buildExtKeyUsageExtension(ekus []x509.ExtKeyUsage) (pkix.Extension, error) {
	oids := make([]asn1.ObjectIdentifier, 0, len(ekus))
	for _, eku := range ekus {
		oid, ok := extKeyUsageOIDs[eku]
		if !ok {
			continue
		}
		oids = append(oids, oid)
	}
	val, err := asn1.Marshal(oids)
	if err != nil {
		return pkix.Extension{}, err
	}
	return pkix.Extension{Id: oidExtensionExtKeyUsage, Critical: false, Value: val}, nil
}

// authorityKeyIdentifier is RFC 5280 §4.2.1.1's AuthorityKeyIdentifier
// SEQUENCE. This core always populates all three fields, carrying the
// issuer's DN and serial number alongside its key identifier.
type authorityKeyIdentifier struct {
	KeyIdentifier []byte          `asn1:"optional,tag:0"`
	CertIssuer    []asn1.RawValue `asn1:"optional,tag:1"`
	CertSerial    *big.Int        `asn1:"optional,tag:2"`
}

func buildAKIExtension(issuerSKI []byte, issuerName pkix.Name, issuerSerial *big.Int) (pkix.Extension, error) {
	nameDER, err := asn1.Marshal(issuerName.ToRDNSequence())
	if err != nil {
		return pkix.Extension{}, err
	}
	// GeneralName's directoryName choice ([4]) is EXPLICIT because Name is
	// itself a CHOICE type (X.680 rules forbid implicit tagging of a
	// CHOICE), so the inner bytes are the full Name SEQUENCE encoding.
	directoryName := asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 4, IsCompound: true, Bytes: nameDER}

	val, err := asn1.Marshal(authorityKeyIdentifier{
		KeyIdentifier: issuerSKI,
		CertIssuer:    []asn1.RawValue{directoryName},
		CertSerial:    issuerSerial,
	})
	if err != nil {
		return pkix.Extension{}, err
	}
	return pkix.Extension{Id: oidExtensionAuthorityKeyID, Critical: false, Value: val}, nil
}

type basicConstraints struct {
	IsCA bool `asn1:"optional"`
}

func buildBasicConstraintsExtension(isCA bool) (pkix.Extension, error) {
	val, err := asn1.Marshal(basicConstraints{IsCA: isCA})
	if err != nil {
		return pkix.Extension{}, err
	}
	return pkix.Extension{Id: oidExtensionBasicConstraints, Critical: true, Value: val}, nil
}

// buildExtensions assembles the certificate's extensions in the fixed
// order the generator guarantees: SKI, SAN (if any), Key Usage (if any),
// Extended Key Usage (if any), Authority Key Identifier (if the issuer's
// SKI is known), Basic Constraints (always last).
func buildExtensions(ski []byte, params CertificateParameters, issuerSKI []byte, issuerName pkix.Name, issuerSerial *big.Int) ([]pkix.Extension, error) {
	exts := make([]pkix.Extension, 0, 6)

	skiExt, err := buildSKIExtension(ski)
	if err != nil {
		return nil, err
	}
	exts = append(exts, skiExt)

	if len(params.DNSNames) > 0 || len(params.IPAddresses) > 0 {
		sanExt, err := buildSANExtension(params.DNSNames, params.IPAddresses)
		if err != nil {
			return nil, err
		}
		exts = append(exts, sanExt)
	}

	if params.KeyUsage != 0 {
		kuExt, err := buildKeyUsageExtension(params.KeyUsage)
		if err != nil {
			return nil, err
		}
		exts = append(exts, kuExt)
	}

	if len(params.ExtKeyUsage) > 0 {
		ekuExt, err := buildExtKeyUsageExtension(params.ExtKeyUsage)
		if err != nil {
			return nil, err
		}
		exts = append(exts, ekuExt)
	}

	if issuerSKI != nil {
		akiExt, err := buildAKIExtension(issuerSKI, issuerName, issuerSerial)
		if err != nil {
			return nil, err
		}
		exts = append(exts, akiExt)
	}

	bcExt, err := buildBasicConstraintsExtension(params.IsCA)
	if err != nil {
		return nil, err
	}
	exts = append(exts, bcExt)

	return exts, nil
}
