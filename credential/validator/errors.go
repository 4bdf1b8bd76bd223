package validator

import (
	"fmt"
	"strings"
)

// JwtValidationErrorKind tags the pipeline step or business rule a
// validation error came from.
type JwtValidationErrorKind int

const (
	// KindJwsDecoding covers malformed tokens: bad segments, bad base64,
	// malformed headers, unsupported critical parameters.
	KindJwsDecoding JwtValidationErrorKind = iota
	// KindMethodResolution covers failures to resolve a usable verification
	// method from the signer's document.
	KindMethodResolution
	// KindSignature covers cryptographic verification failures, including
	// key extraction and unsupported algorithms.
	KindSignature
	// KindCredentialStructure covers claim sets that do not decode into a
	// well-formed credential.
	KindCredentialStructure
	// KindPresentationStructure covers claim sets that do not decode into a
	// well-formed presentation.
	KindPresentationStructure
	// KindExpired reports a credential past its expiration instant.
	KindExpired
	// KindNotYetValid reports a credential before its validity start.
	KindNotYetValid
	// KindIssuanceDate reports an issuance date after the allowed latest
	// issuance instant.
	KindIssuanceDate
	// KindIssuerNotAllowed reports an issuer outside the trusted set.
	KindIssuerNotAllowed
	// KindSubjectHolderRelationship reports a presentation holder that is
	// not the subject of an embedded credential.
	KindSubjectHolderRelationship
	// KindDeactivatedDocument reports a signer document marked deactivated.
	KindDeactivatedDocument
	// KindRevoked reports a set revocation bit in the credential's status
	// list.
	KindRevoked
	// KindStatusResolution reports a status list that could not be resolved
	// or decoded. Distinct from KindRevoked: the revocation state is
	// unknown, not negative.
	KindStatusResolution
	// KindChallenge reports a nonce mismatch on a presentation.
	KindChallenge
)

func (k JwtValidationErrorKind) String() string {
	switch k {
	case KindJwsDecoding:
		return "jws decoding"
	case KindMethodResolution:
		return "method resolution"
	case KindSignature:
		return "signature verification"
	case KindCredentialStructure:
		return "credential structure"
	case KindPresentationStructure:
		return "presentation structure"
	case KindExpired:
		return "expired"
	case KindNotYetValid:
		return "not yet valid"
	case KindIssuanceDate:
		return "issuance date"
	case KindIssuerNotAllowed:
		return "issuer not allowed"
	case KindSubjectHolderRelationship:
		return "subject holder relationship"
	case KindDeactivatedDocument:
		return "deactivated document"
	case KindRevoked:
		return "revoked"
	case KindStatusResolution:
		return "status resolution"
	case KindChallenge:
		return "challenge"
	default:
		return "unknown"
	}
}

// JwtValidationError is one tagged failure from the validation pipeline.
type JwtValidationError struct {
	Kind  JwtValidationErrorKind
	Cause error
}

func newValidationError(kind JwtValidationErrorKind, cause error) *JwtValidationError {
	return &JwtValidationError{Kind: kind, Cause: cause}
}

func validationErrorf(kind JwtValidationErrorKind, format string, args ...interface{}) *JwtValidationError {
	return &JwtValidationError{Kind: kind, Cause: fmt.Errorf(format, args...)}
}

func (e *JwtValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *JwtValidationError) Unwrap() error {
	return e.Cause
}

// CompoundCredentialValidationError aggregates the business-rule failures of
// a single credential collected under AllErrors.
type CompoundCredentialValidationError struct {
	Errors []*JwtValidationError
}

func (e *CompoundCredentialValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("credential validation failed: %s", strings.Join(msgs, "; "))
}

// CredentialError pairs a failing embedded credential with its position in
// the presentation.
type CredentialError struct {
	Index int
	Err   error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential %d: %v", e.Index, e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// CompoundJwtPresentationValidationError aggregates presentation-level
// failures and one error per failing embedded credential, in input order.
// It is only ever returned non-empty.
type CompoundJwtPresentationValidationError struct {
	PresentationErrors []*JwtValidationError
	CredentialErrors   []*CredentialError
}

func (e *CompoundJwtPresentationValidationError) Error() string {
	msgs := make([]string, 0, len(e.PresentationErrors)+len(e.CredentialErrors))
	for _, err := range e.PresentationErrors {
		msgs = append(msgs, err.Error())
	}
	for _, err := range e.CredentialErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("presentation validation failed: %s", strings.Join(msgs, "; "))
}

func (e *CompoundJwtPresentationValidationError) isEmpty() bool {
	return len(e.PresentationErrors) == 0 && len(e.CredentialErrors) == 0
}
