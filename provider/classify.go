package provider

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorSource identifies which layer produced a decrypt failure, since
// the substrings that signal "wrong key" differ per transport.
type ErrorSource string

const (
	SourceAEAD   ErrorSource = "aead"
	SourceHSM    ErrorSource = "hsm"
	SourceRemote ErrorSource = "remote"
)

// hsmWrongKeySubstring is the PKCS#11 C_Decrypt return code an HSM
// reports when the session key doesn't match the ciphertext.
const hsmWrongKeySubstring = "function 'C_Decrypt' returns 0x40"

// remoteWrongKeyPrefix is the DSM error message prefix for the same
// condition, surfaced back over the remote encryption RPC.
const remoteWrongKeyPrefix = "Decrypt error: rv=48"

// aeadAuthFailureSubstring is the message crypto/cipher's GCM.Open
// returns on an authentication-tag mismatch.
const aeadAuthFailureSubstring = "message authentication failed"

// ErrWrongKey is the sentinel every provider wraps a decrypt failure in
// when that failure is consistent with "the presented key doesn't match
// this ciphertext" rather than a fatal infrastructure problem. Callers
// discriminate with errors.Is(err, ErrWrongKey).
var ErrWrongKey = errors.New("wrong-key-class decryption failure")

// ClassifyDecryptError is the pure function the design notes call for: it
// takes the source that produced a decrypt error and the error itself,
// and returns an error wrapping ErrWrongKey if the message pattern is
// consistent with a wrong key being presented, or the original error
// unchanged (still fatal) otherwise. It is a natural place to extend
// with more substrings as new HSM/DSM vendors are added, without
// touching the reconciliation algorithm that consumes it.
func ClassifyDecryptError(source ErrorSource, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrWrongKey) {
		return err
	}
	msg := err.Error()
	var wrongKey bool
	switch source {
	case SourceAEAD:
		wrongKey = strings.Contains(msg, aeadAuthFailureSubstring)
	case SourceHSM:
		wrongKey = strings.Contains(msg, hsmWrongKeySubstring)
	case SourceRemote:
		// The remote service may itself be fronting a PKCS#11 HSM, so a
		// DSM-style "rv=48" prefix and an HSM-style C_Decrypt substring
		// are both recognized over this transport.
		wrongKey = strings.HasPrefix(msg, remoteWrongKeyPrefix) || strings.Contains(msg, hsmWrongKeySubstring)
	}
	if wrongKey {
		return fmt.Errorf("%s: %w", msg, ErrWrongKey)
	}
	return err
}

// IsWrongKey reports whether err was classified as wrong-key-consistent
// by ClassifyDecryptError.
func IsWrongKey(err error) bool {
	return errors.Is(err, ErrWrongKey)
}
