package jws

import "fmt"

// DecodeErrorKind classifies structural decoding failures, kept separate
// from signature verification failures so callers can tell a malformed token
// from a tampered one.
type DecodeErrorKind int

const (
	// DecodeInvalidFormat means the serialization structure is wrong, for
	// example a bad segment count.
	DecodeInvalidFormat DecodeErrorKind = iota
	// DecodeUnsupportedCritical means the protected header listed a crit
	// parameter outside the caller's allow-list.
	DecodeUnsupportedCritical
	// DecodeHeader means the protected header could not be decoded.
	DecodeHeader
	// DecodePayload means the payload segment could not be decoded.
	DecodePayload
	// DecodeSignature means the signature segment could not be decoded.
	DecodeSignature
)

// String returns the kind's identifier.
func (k DecodeErrorKind) String() string {
	switch k {
	case DecodeInvalidFormat:
		return "InvalidFormat"
	case DecodeUnsupportedCritical:
		return "UnsupportedCritical"
	case DecodeHeader:
		return "InvalidHeader"
	case DecodePayload:
		return "InvalidPayload"
	case DecodeSignature:
		return "InvalidSignatureEncoding"
	default:
		return "Unknown"
	}
}

// DecodeError is returned for all structural token failures.
type DecodeError struct {
	Kind  DecodeErrorKind
	cause error
}

func newDecodeError(kind DecodeErrorKind, cause error) *DecodeError {
	return &DecodeError{Kind: kind, cause: cause}
}

func (e *DecodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("failed to decode JWS (%s): %s", e.Kind, e.cause)
	}
	return fmt.Sprintf("failed to decode JWS (%s)", e.Kind)
}

// Unwrap exposes the underlying cause, if any.
func (e *DecodeError) Unwrap() error {
	return e.cause
}
