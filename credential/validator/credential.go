// Package validator verifies credential and presentation tokens against the
// signer's DID document: structural decoding, verification method resolution,
// signature verification, claims decoding, business rules, and an optional
// revocation check, in that order.
package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attestia/go-identity-sdk/credential"
	"github.com/attestia/go-identity-sdk/credential/status"
	"github.com/attestia/go-identity-sdk/diddoc"
	"github.com/attestia/go-identity-sdk/jose/jws"
)

// JwtCredentialValidator validates credentials in JWT form.
type JwtCredentialValidator struct {
	verifier jws.Verifier
}

// NewJwtCredentialValidator creates a credential validator. A nil verifier
// selects the built-in algorithm set.
func NewJwtCredentialValidator(verifier jws.Verifier) *JwtCredentialValidator {
	if verifier == nil {
		verifier = jws.NewDefaultVerifier()
	}
	return &JwtCredentialValidator{verifier: verifier}
}

// Validate runs the full pipeline over a credential JWT signed by the given
// issuer document. Structural, method resolution, signature, and claims
// failures return one error and stop; business-rule failures follow the
// failFast policy, with AllErrors collecting every violation into a
// CompoundCredentialValidationError.
func (v *JwtCredentialValidator) Validate(ctx context.Context, token string, issuer *diddoc.Document,
	options CredentialValidationOptions, failFast FailFast) (*DecodedJwtCredential, error) {

	decoded, errs := v.validate(ctx, token, issuer, options, failFast)
	switch len(errs) {
	case 0:
		return decoded, nil
	case 1:
		return nil, errs[0]
	default:
		return nil, &CompoundCredentialValidationError{Errors: errs}
	}
}

// validate returns the decoded credential and every failure the failFast
// policy allowed it to collect. A nil decoded result means a short-circuiting
// step failed.
func (v *JwtCredentialValidator) validate(ctx context.Context, token string, issuer *diddoc.Document,
	options CredentialValidationOptions, failFast FailFast) (*DecodedJwtCredential, []*JwtValidationError) {

	decoded, verr := verifySignature(v.verifier, token, issuer, signatureOptions{
		crits:       options.Crits,
		methodScope: options.MethodScope,
		methodID:    options.MethodID,
	})
	if verr != nil {
		return nil, []*JwtValidationError{verr}
	}

	cred, customClaims, err := credential.FromJwtClaims(decoded.Payload)
	if err != nil {
		return nil, []*JwtValidationError{newValidationError(KindCredentialStructure, err)}
	}
	if verr := checkCredentialStructure(cred); verr != nil {
		return nil, []*JwtValidationError{verr}
	}

	var errs []*JwtValidationError
	record := func(verr *JwtValidationError) bool {
		errs = append(errs, verr)
		return failFast == FirstError
	}

	now := time.Now()
	if verr := checkExpiry(cred, now, options.EarliestExpiryDate); verr != nil && record(verr) {
		return nil, errs
	}
	if verr := checkIssuanceDate(cred, now, options.LatestIssuanceDate); verr != nil && record(verr) {
		return nil, errs
	}
	if verr := checkIssuer(cred, issuer, options.AllowedIssuers); verr != nil && record(verr) {
		return nil, errs
	}
	if options.StatusResolver != nil {
		if verr := checkStatus(ctx, options.StatusResolver, cred); verr != nil && record(verr) {
			return nil, errs
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &DecodedJwtCredential{
		Credential:   cred,
		Header:       decoded.ProtectedHeader,
		CustomClaims: customClaims,
	}, nil
}

func checkCredentialStructure(cred *credential.Credential) *JwtValidationError {
	if len(cred.Context) == 0 || cred.Context[0] != credential.BaseContext {
		return validationErrorf(KindCredentialStructure,
			"first @context entry must be %s", credential.BaseContext)
	}
	if !contains(cred.Types, credential.BaseType) {
		return validationErrorf(KindCredentialStructure, "type must include %s", credential.BaseType)
	}
	if cred.Issuer == "" {
		return validationErrorf(KindCredentialStructure, "credential has no issuer")
	}
	if len(cred.Subject) == 0 {
		return validationErrorf(KindCredentialStructure, "credential has no subject")
	}
	return nil
}

// checkExpiry enforces validUntil. The boundary is inclusive: a credential
// expiring exactly at the reference instant is still valid.
func checkExpiry(cred *credential.Credential, now time.Time, earliest *time.Time) *JwtValidationError {
	if cred.ValidUntil.IsZero() {
		return nil
	}
	reference := now
	if earliest != nil {
		reference = *earliest
	}
	if cred.ValidUntil.Before(reference) {
		return validationErrorf(KindExpired, "credential expired at %s", cred.ValidUntil.Format(time.RFC3339))
	}
	return nil
}

// checkIssuanceDate enforces validFrom. The boundary is inclusive: a
// credential becoming valid exactly at the reference instant is valid.
func checkIssuanceDate(cred *credential.Credential, now time.Time, latest *time.Time) *JwtValidationError {
	if cred.ValidFrom.IsZero() {
		return nil
	}
	reference := now
	if latest != nil {
		reference = *latest
	}
	if cred.ValidFrom.After(reference) {
		return validationErrorf(KindNotYetValid, "credential not valid until %s", cred.ValidFrom.Format(time.RFC3339))
	}
	return nil
}

func checkIssuer(cred *credential.Credential, issuer *diddoc.Document, allowed []string) *JwtValidationError {
	if cred.Issuer != issuer.ID {
		return validationErrorf(KindIssuerNotAllowed,
			"credential issuer %s does not match document %s", cred.Issuer, issuer.ID)
	}
	if len(allowed) == 0 {
		return nil
	}
	if !contains(allowed, cred.Issuer) {
		return validationErrorf(KindIssuerNotAllowed, "issuer %s is not in the allowed set", cred.Issuer)
	}
	return nil
}

// checkStatus distinguishes a set revocation bit (KindRevoked) from a status
// list that could not be resolved (KindStatusResolution).
func checkStatus(ctx context.Context, resolver status.Resolver, cred *credential.Credential) *JwtValidationError {
	err := status.CheckRevocation(ctx, resolver, cred)
	if err == nil {
		return nil
	}
	var revoked *status.RevokedError
	if errors.As(err, &revoked) {
		return newValidationError(KindRevoked, err)
	}
	return newValidationError(KindStatusResolution, err)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// signatureOptions is the subset of validation options the shared signature
// step needs.
type signatureOptions struct {
	crits            []string
	methodScope      *diddoc.MethodScope
	methodID         *diddoc.DIDUrl
	allowDeactivated bool
}

// verifySignature decodes the token, resolves the signing method from the
// signer's document, and verifies the signature.
func verifySignature(verifier jws.Verifier, token string, signer *diddoc.Document,
	opts signatureOptions) (*jws.Decoded, *JwtValidationError) {

	decoded, err := jws.Decode(token, jws.DecodeOptions{Crits: opts.crits})
	if err != nil {
		return nil, newValidationError(KindJwsDecoding, err)
	}

	if signer.Deactivated() && !opts.allowDeactivated {
		return nil, validationErrorf(KindDeactivatedDocument, "document %s is deactivated", signer.ID)
	}

	method, verr := resolveSigningMethod(decoded, signer, opts)
	if verr != nil {
		return nil, verr
	}

	key, err := method.Jwk()
	if err != nil {
		return nil, newValidationError(KindSignature,
			fmt.Errorf("failed to extract key from method %s: %w", method.ID, err))
	}

	if err := decoded.Verify(verifier, key); err != nil {
		return nil, newValidationError(KindSignature, err)
	}
	return decoded, nil
}

// resolveSigningMethod picks the verification method to check the token
// against: a pinned method ID, then the token's kid, then a unique method
// matching the token's algorithm.
func resolveSigningMethod(decoded *jws.Decoded, signer *diddoc.Document,
	opts signatureOptions) (*diddoc.VerificationMethod, *JwtValidationError) {

	scope := diddoc.ScopeVerificationMethod()
	if opts.methodScope != nil {
		scope = *opts.methodScope
	}

	query := decoded.ProtectedHeader.Kid
	if opts.methodID != nil {
		query = opts.methodID.String()
	}

	if query != "" {
		method, err := signer.ResolveMethod(query, scope)
		if err != nil {
			return nil, newValidationError(KindMethodResolution, err)
		}
		return method, nil
	}

	// No kid: the algorithm must identify exactly one method.
	candidates := signer.MethodsWithAlgorithm(decoded.ProtectedHeader.Alg, scope)
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, validationErrorf(KindMethodResolution,
			"no method in %s matches algorithm %s", signer.ID, decoded.ProtectedHeader.Alg)
	default:
		return nil, validationErrorf(KindMethodResolution,
			"%d methods in %s match algorithm %s, token needs a kid",
			len(candidates), signer.ID, decoded.ProtectedHeader.Alg)
	}
}
