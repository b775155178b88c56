// Package berrors provides the typed error kinds surfaced by the
// credential-management cryptographic core, so that callers can
// discriminate failure classes with errors.Is/errors.As instead of
// parsing messages.
package berrors

import "fmt"

// ErrorType is the kind of failure a CredHubError represents.
type ErrorType int

const (
	// NoActiveKey means the key registry's configuration has zero or
	// multiple active descriptors, or the provider yielded no keys at all.
	NoActiveKey ErrorType = iota + 1
	// EncryptionInfrastructure means a non-wrong-key failure was returned
	// by an encryption provider, either during canary reconciliation or
	// at runtime.
	EncryptionInfrastructure
	// UnknownCanary means a runtime lookup asked for a canary id that has
	// no binding, meaning the ciphertext it names belongs to a retired or
	// missing key.
	UnknownCanary
	// InvalidCaMaterial means a CA's PEM-encoded certificate or private
	// key could not be parsed.
	InvalidCaMaterial
	// SigningFailure means the content signer refused to sign, or the
	// certificate could not be assembled (serial number, key identifier,
	// extensions) or its signed DER could not be parsed for linting. Lint
	// findings themselves are advisory and never produce this error.
	SigningFailure
)

func (t ErrorType) String() string {
	switch t {
	case NoActiveKey:
		return "NoActiveKey"
	case EncryptionInfrastructure:
		return "EncryptionInfrastructure"
	case UnknownCanary:
		return "UnknownCanary"
	case InvalidCaMaterial:
		return "InvalidCaMaterial"
	case SigningFailure:
		return "SigningFailure"
	default:
		return "Unknown"
	}
}

// CredHubError is the concrete error type returned by this module. Use
// errors.Is against the sentinel constructors (NoActiveKeyError, etc.) or
// errors.As against *CredHubError to recover the Type and wrapped cause.
type CredHubError struct {
	Type   ErrorType
	Detail string
	Cause  error
}

func (e *CredHubError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Detail)
}

func (e *CredHubError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is(err, berrors.NoActiveKeyError) style comparisons by
// matching on Type alone, ignoring Detail and Cause.
func (e *CredHubError) Is(target error) bool {
	t, ok := target.(*CredHubError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newf(t ErrorType, format string, args ...interface{}) *CredHubError {
	return &CredHubError{Type: t, Detail: fmt.Sprintf(format, args...)}
}

func wrapf(t ErrorType, cause error, format string, args ...interface{}) *CredHubError {
	return &CredHubError{Type: t, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

// Sentinel values for use with errors.Is. Their Detail/Cause fields are
// empty; construct a real error with the *f constructors below and
// compare it against these with errors.Is.
var (
	NoActiveKeyError            = &CredHubError{Type: NoActiveKey}
	EncryptionInfrastructureErr = &CredHubError{Type: EncryptionInfrastructure}
	UnknownCanaryError          = &CredHubError{Type: UnknownCanary}
	InvalidCaMaterialError      = &CredHubError{Type: InvalidCaMaterial}
	SigningFailureError         = &CredHubError{Type: SigningFailure}
)

func NoActiveKeyf(format string, args ...interface{}) error {
	return newf(NoActiveKey, format, args...)
}

func EncryptionInfrastructuref(cause error, format string, args ...interface{}) error {
	return wrapf(EncryptionInfrastructure, cause, format, args...)
}

func UnknownCanaryf(format string, args ...interface{}) error {
	return newf(UnknownCanary, format, args...)
}

func InvalidCaMaterialf(cause error, format string, args ...interface{}) error {
	return wrapf(InvalidCaMaterial, cause, format, args...)
}

func SigningFailuref(cause error, format string, args ...interface{}) error {
	return wrapf(SigningFailure, cause, format, args...)
}
