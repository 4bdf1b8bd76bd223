package jose

import "fmt"

// SignatureVerificationErrorKind classifies the failure modes of signature
// verification so callers can tell a bad key from forged data.
type SignatureVerificationErrorKind int

const (
	// KindUnsupportedAlg means no backend handles the requested algorithm.
	KindUnsupportedAlg SignatureVerificationErrorKind = iota
	// KindKeyError means the public key could not be decoded or does not
	// match the requested algorithm.
	KindKeyError
	// KindInvalidSignature means the cryptographic check itself failed.
	KindInvalidSignature
	// KindInvalidInput means the verification input was malformed, for
	// example a signature of the wrong length.
	KindInvalidInput
)

// String returns the kind's identifier.
func (k SignatureVerificationErrorKind) String() string {
	switch k {
	case KindUnsupportedAlg:
		return "UnsupportedAlg"
	case KindKeyError:
		return "KeyError"
	case KindInvalidSignature:
		return "InvalidSignature"
	case KindInvalidInput:
		return "InvalidInput"
	default:
		return "Unknown"
	}
}

// SignatureVerificationError is the error returned by all verifier backends.
type SignatureVerificationError struct {
	Kind  SignatureVerificationErrorKind
	cause error
}

// NewSignatureVerificationError builds an error of the given kind.
func NewSignatureVerificationError(kind SignatureVerificationErrorKind, cause error) *SignatureVerificationError {
	return &SignatureVerificationError{Kind: kind, cause: cause}
}

func (e *SignatureVerificationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("signature verification failed (%s): %s", e.Kind, e.cause)
	}
	return fmt.Sprintf("signature verification failed (%s)", e.Kind)
}

// Unwrap exposes the underlying cause, if any.
func (e *SignatureVerificationError) Unwrap() error {
	return e.cause
}
