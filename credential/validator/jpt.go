package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/attestia/go-identity-sdk/credential"
	"github.com/attestia/go-identity-sdk/diddoc"
	"github.com/attestia/go-identity-sdk/jose"
	"github.com/attestia/go-identity-sdk/jose/jwp"
)

// JptCredentialValidator validates credentials in issued JPT form, carrying a
// BBS+ proof instead of a JWS signature.
type JptCredentialValidator struct{}

// NewJptCredentialValidator creates a JPT credential validator.
func NewJptCredentialValidator() *JptCredentialValidator {
	return &JptCredentialValidator{}
}

// Validate parses and verifies an issued JPT against the issuer's document,
// then decodes and checks the disclosed claims the way the JWT pipeline
// does. All claims must be disclosed in issued form.
func (v *JptCredentialValidator) Validate(ctx context.Context, token string, issuer *diddoc.Document,
	options JwpVerificationOptions) (*DecodedJptCredential, error) {

	issued, err := jwp.Parse(token)
	if err != nil {
		return nil, newValidationError(KindJwsDecoding, err)
	}

	if issuer.Deactivated() {
		return nil, validationErrorf(KindDeactivatedDocument, "document %s is deactivated", issuer.ID)
	}

	if options.Nonce != nil {
		got, _ := issued.ProtectedHeader.Custom[jose.HeaderNonce].(string)
		if got != *options.Nonce {
			return nil, validationErrorf(KindChallenge, "nonce %q does not match the expected challenge", got)
		}
	}

	method, verr := resolveJptMethod(issued, issuer, options)
	if verr != nil {
		return nil, verr
	}
	key, err := method.Jwk()
	if err != nil {
		return nil, newValidationError(KindSignature,
			fmt.Errorf("failed to extract key from method %s: %w", method.ID, err))
	}
	if err := issued.Verify(key); err != nil {
		return nil, newValidationError(KindSignature, err)
	}

	claims, err := issued.Claims()
	if err != nil {
		return nil, newValidationError(KindCredentialStructure, err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return nil, newValidationError(KindCredentialStructure, err)
	}
	cred, customClaims, err := credential.FromJwtClaims(payload)
	if err != nil {
		return nil, newValidationError(KindCredentialStructure, err)
	}
	if verr := checkCredentialStructure(cred); verr != nil {
		return nil, verr
	}

	now := time.Now()
	if verr := checkExpiry(cred, now, nil); verr != nil {
		return nil, verr
	}
	if verr := checkIssuanceDate(cred, now, nil); verr != nil {
		return nil, verr
	}
	if verr := checkIssuer(cred, issuer, nil); verr != nil {
		return nil, verr
	}

	return &DecodedJptCredential{
		Credential:   cred,
		Header:       issued.ProtectedHeader,
		CustomClaims: customClaims,
	}, nil
}

func resolveJptMethod(issued *jwp.Issued, issuer *diddoc.Document,
	options JwpVerificationOptions) (*diddoc.VerificationMethod, *JwtValidationError) {

	scope := diddoc.ScopeVerificationMethod()
	if options.MethodScope != nil {
		scope = *options.MethodScope
	}

	query := issued.ProtectedHeader.Kid
	if options.MethodID != nil {
		query = options.MethodID.String()
	}
	if query == "" {
		return nil, validationErrorf(KindMethodResolution, "JPT has no kid and no method was pinned")
	}

	method, err := issuer.ResolveMethod(query, scope)
	if err != nil {
		return nil, newValidationError(KindMethodResolution, err)
	}
	return method, nil
}
