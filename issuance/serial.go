package issuance

import (
	"crypto/rand"
	"math/big"

	"github.com/cloudfoundry-incubator/credhub-core/berrors"
)

// SerialSource is the serial-number generator collaborator: callers that
// need deterministic or instance-tagged serials (as the teacher's CA does
// with its one-byte instance prefix) supply their own implementation.
type SerialSource interface {
	NextSerial() (*big.Int, error)
}

// RandomSerialSource is the default SerialSource: a cryptographically
// random positive integer with more than 64 bits of entropy, following the
// same construction as the teacher's generateSerialNumber but without an
// instance prefix, since this core has no notion of CA instances.
type RandomSerialSource struct{}

func (RandomSerialSource) NextSerial() (*big.Int, error) {
	const randBits = 136
	buf := make([]byte, randBits/8)
	if _, err := rand.Read(buf); err != nil {
		return nil, berrors.SigningFailuref(err, "generating serial number")
	}
	return new(big.Int).SetBytes(buf), nil
}
