package validator

import (
	"context"

	"github.com/attestia/go-identity-sdk/credential"
	"github.com/attestia/go-identity-sdk/diddoc"
	"github.com/attestia/go-identity-sdk/jose/jws"
)

// JwtPresentationValidator validates presentations in JWT form together with
// the credentials they embed.
type JwtPresentationValidator struct {
	verifier      jws.Verifier
	credValidator *JwtCredentialValidator
}

// NewJwtPresentationValidator creates a presentation validator. A nil
// verifier selects the built-in algorithm set.
func NewJwtPresentationValidator(verifier jws.Verifier) *JwtPresentationValidator {
	if verifier == nil {
		verifier = jws.NewDefaultVerifier()
	}
	return &JwtPresentationValidator{
		verifier:      verifier,
		credValidator: NewJwtCredentialValidator(verifier),
	}
}

// Validate verifies a presentation JWT signed by the holder and validates
// every embedded credential against its issuer's document, matched by the
// credential's issuer DID. Under AllErrors every failing credential
// contributes exactly one sub-error, in input order; under FirstError the
// first failure returns without evaluating the rest.
func (v *JwtPresentationValidator) Validate(ctx context.Context, token string, holder *diddoc.Document,
	issuers []*diddoc.Document, options JwtPresentationOptions, failFast FailFast) (*DecodedJwtPresentation, error) {

	decoded, verr := verifySignature(v.verifier, token, holder, signatureOptions{
		crits:            options.Crits,
		methodScope:      options.MethodScope,
		methodID:         options.MethodID,
		allowDeactivated: options.AllowDeactivatedSubjectDocuments,
	})
	if verr != nil {
		return nil, verr
	}

	pres, customClaims, err := credential.PresentationFromJwtClaims(decoded.Payload)
	if err != nil {
		return nil, newValidationError(KindPresentationStructure, err)
	}
	if verr := checkPresentationStructure(pres, holder); verr != nil {
		return nil, verr
	}

	compound := &CompoundJwtPresentationValidationError{}

	if verr := checkNonce(customClaims, options.Nonce); verr != nil {
		if failFast == FirstError {
			return nil, verr
		}
		compound.PresentationErrors = append(compound.PresentationErrors, verr)
	}

	decodedCreds := make([]*DecodedJwtCredential, 0, len(pres.Credentials))
	for i, raw := range pres.Credentials {
		decodedCred, credErrs := v.validateEmbedded(ctx, raw, pres, issuers, options, failFast)
		if len(credErrs) > 0 {
			compound.CredentialErrors = append(compound.CredentialErrors, &CredentialError{
				Index: i,
				Err:   collapse(credErrs),
			})
			if failFast == FirstError {
				return nil, compound
			}
			continue
		}
		decodedCreds = append(decodedCreds, decodedCred)
	}

	if !compound.isEmpty() {
		return nil, compound
	}

	return &DecodedJwtPresentation{
		Presentation: pres,
		Header:       decoded.ProtectedHeader,
		CustomClaims: customClaims,
		Credentials:  decodedCreds,
	}, nil
}

// validateEmbedded validates one embedded credential: full credential
// pipeline against the matching issuer document, then the subject-holder
// policy.
func (v *JwtPresentationValidator) validateEmbedded(ctx context.Context, raw interface{},
	pres *credential.Presentation, issuers []*diddoc.Document,
	options JwtPresentationOptions, failFast FailFast) (*DecodedJwtCredential, []*JwtValidationError) {

	credToken, ok := raw.(string)
	if !ok {
		return nil, []*JwtValidationError{validationErrorf(KindCredentialStructure,
			"embedded credential is not a JWT string")}
	}

	issuerDoc, verr := v.findIssuerDocument(credToken, issuers)
	if verr != nil {
		return nil, []*JwtValidationError{verr}
	}

	decodedCred, errs := v.credValidator.validate(ctx, credToken, issuerDoc, options.CredentialOptions, failFast)
	if len(errs) > 0 && failFast == FirstError {
		return nil, errs
	}

	cred := decodedCred.credentialOrNil()
	if cred != nil && options.SubjectHolderRelationship == AlwaysSubject {
		if verr := checkSubjectHolder(cred, pres.Holder); verr != nil {
			errs = append(errs, verr)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return decodedCred, nil
}

// findIssuerDocument matches an embedded credential to the issuer document
// its iss claim names. The claims are read structurally here; the credential
// pipeline verifies them.
func (v *JwtPresentationValidator) findIssuerDocument(credToken string,
	issuers []*diddoc.Document) (*diddoc.Document, *JwtValidationError) {

	decoded, err := jws.Decode(credToken, jws.DecodeOptions{})
	if err != nil {
		return nil, newValidationError(KindJwsDecoding, err)
	}
	cred, _, err := credential.FromJwtClaims(decoded.Payload)
	if err != nil {
		return nil, newValidationError(KindCredentialStructure, err)
	}
	for _, doc := range issuers {
		if doc.ID == cred.Issuer {
			return doc, nil
		}
	}
	return nil, validationErrorf(KindIssuerNotAllowed,
		"no document supplied for issuer %s", cred.Issuer)
}

func checkPresentationStructure(pres *credential.Presentation, holder *diddoc.Document) *JwtValidationError {
	if len(pres.Context) == 0 || pres.Context[0] != credential.BaseContext {
		return validationErrorf(KindPresentationStructure,
			"first @context entry must be %s", credential.BaseContext)
	}
	if !contains(pres.Types, credential.BasePresentationType) {
		return validationErrorf(KindPresentationStructure,
			"type must include %s", credential.BasePresentationType)
	}
	if pres.Holder == "" {
		return validationErrorf(KindPresentationStructure, "presentation has no holder")
	}
	if pres.Holder != holder.ID {
		return validationErrorf(KindPresentationStructure,
			"presentation holder %s does not match document %s", pres.Holder, holder.ID)
	}
	return nil
}

func checkNonce(customClaims map[string]interface{}, want *string) *JwtValidationError {
	if want == nil {
		return nil
	}
	got, _ := customClaims["nonce"].(string)
	if got != *want {
		return validationErrorf(KindChallenge, "nonce %q does not match the expected challenge", got)
	}
	return nil
}

// checkSubjectHolder enforces the AlwaysSubject policy: the holder must be a
// subject of the credential.
func checkSubjectHolder(cred *credential.Credential, holder string) *JwtValidationError {
	for _, subject := range cred.Subject {
		if subject.ID == holder {
			return nil
		}
	}
	return validationErrorf(KindSubjectHolderRelationship,
		"holder %s is not a subject of the credential", holder)
}

// collapse turns a failure list into one error per failing credential.
func collapse(errs []*JwtValidationError) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return &CompoundCredentialValidationError{Errors: errs}
}

func (d *DecodedJwtCredential) credentialOrNil() *credential.Credential {
	if d == nil {
		return nil
	}
	return d.Credential
}
