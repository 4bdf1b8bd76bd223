package validator

import (
	"time"

	"github.com/attestia/go-identity-sdk/credential/status"
	"github.com/attestia/go-identity-sdk/diddoc"
)

// FailFast controls how many failures a validation run reports.
type FailFast int

const (
	// FirstError stops at the first failing step and returns one error.
	FirstError FailFast = iota
	// AllErrors continues through independent business rules and
	// accumulates every failure. Structural and signature failures still
	// short-circuit since nothing downstream is meaningful.
	AllErrors
)

// SubjectHolderRelationship is the policy tying a presentation's holder to
// the subjects of its embedded credentials.
type SubjectHolderRelationship int

const (
	// AlwaysSubject requires the holder to be a subject of every embedded
	// credential. This is the default.
	AlwaysSubject SubjectHolderRelationship = iota
	// Any accepts any holder.
	Any
)

// CredentialValidationOptions configures credential validation. The zero
// value checks expiration and validity start against the current time,
// resolves methods in any scope, and skips the revocation check.
type CredentialValidationOptions struct {
	// EarliestExpiryDate requires the credential to remain valid until at
	// least this instant. Nil checks against the time of validation.
	EarliestExpiryDate *time.Time

	// LatestIssuanceDate requires the credential's validity start to be at
	// or before this instant. Nil checks against the time of validation.
	LatestIssuanceDate *time.Time

	// AllowedIssuers, when non-empty, restricts the credential issuer to
	// the listed DIDs.
	AllowedIssuers []string

	// MethodScope restricts verification method resolution to a document
	// relationship. Nil resolves from the full verification method set.
	MethodScope *diddoc.MethodScope

	// MethodID pins verification to one method, overriding the token's kid.
	MethodID *diddoc.DIDUrl

	// Crits lists the critical header parameters the caller understands.
	Crits []string

	// StatusResolver enables the revocation check. Nil skips it.
	StatusResolver status.Resolver
}

// JwtPresentationOptions configures presentation validation. Embedded
// credentials are validated with CredentialOptions.
type JwtPresentationOptions struct {
	// Nonce, when set, must equal the presentation's nonce claim.
	Nonce *string

	// SubjectHolderRelationship defaults to AlwaysSubject.
	SubjectHolderRelationship SubjectHolderRelationship

	// AllowDeactivatedSubjectDocuments accepts credential subject
	// documents that are marked deactivated.
	AllowDeactivatedSubjectDocuments bool

	// MethodScope restricts holder method resolution. Nil resolves from
	// the full verification method set.
	MethodScope *diddoc.MethodScope

	// MethodID pins holder verification to one method.
	MethodID *diddoc.DIDUrl

	// Crits lists the critical header parameters the caller understands.
	Crits []string

	// CredentialOptions applies to each embedded credential.
	CredentialOptions CredentialValidationOptions
}

// JwpVerificationOptions configures JPT credential validation.
type JwpVerificationOptions struct {
	// Nonce, when set, must equal the presented nonce header parameter.
	Nonce *string

	// MethodScope restricts verification method resolution.
	MethodScope *diddoc.MethodScope

	// MethodID pins verification to one method, overriding the token's kid.
	MethodID *diddoc.DIDUrl
}
