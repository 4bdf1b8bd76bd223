package validator

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/go-identity-sdk/credential"
	"github.com/attestia/go-identity-sdk/credential/status"
	"github.com/attestia/go-identity-sdk/diddoc"
	"github.com/attestia/go-identity-sdk/jose"
	"github.com/attestia/go-identity-sdk/jose/jwk"
	"github.com/attestia/go-identity-sdk/jose/jws"
)

// actor is a DID plus the Ed25519 key its document lists.
type actor struct {
	did    string
	doc    *diddoc.Document
	signer jws.Signer
	kid    string
}

func newActor(t *testing.T, did string) *actor {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	key := jwk.FromEd25519(pub)
	key.Alg = string(jose.EdDSA)

	kid := did + "#key-1"
	return &actor{
		did: did,
		doc: &diddoc.Document{
			ID: did,
			VerificationMethod: []diddoc.VerificationMethod{{
				ID:           kid,
				Type:         "JsonWebKey",
				Controller:   did,
				PublicKeyJwk: key,
			}},
			Authentication:  []string{kid},
			AssertionMethod: []string{kid},
		},
		signer: jws.Ed25519Signer{Private: priv},
		kid:    kid,
	}
}

func (a *actor) signClaims(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	token, err := jws.Encode(a.signer, &jws.Header{Typ: jose.TypeJWT, Kid: a.kid}, payload, jws.EncodeOptions{})
	require.NoError(t, err)
	return token
}

func newCredential(issuer, subject string, validUntil time.Time) *credential.Credential {
	return &credential.Credential{
		Context:    []interface{}{credential.BaseContext},
		ID:         credential.NewID(),
		Types:      []string{credential.BaseType},
		Issuer:     issuer,
		ValidFrom:  time.Now().Add(-time.Hour).Truncate(time.Second),
		ValidUntil: validUntil.Truncate(time.Second),
		Subject:    []credential.Subject{{ID: subject, CustomFields: map[string]interface{}{}}},
	}
}

func signCredential(t *testing.T, issuer *actor, cred *credential.Credential) string {
	t.Helper()
	claims, err := cred.ToJwtClaims(nil)
	require.NoError(t, err)
	return issuer.signClaims(t, claims)
}

func signPresentation(t *testing.T, holder *actor, credTokens []string, nonce string) string {
	t.Helper()
	creds := make([]interface{}, len(credTokens))
	for i, token := range credTokens {
		creds[i] = token
	}
	pres := &credential.Presentation{
		Context:     []interface{}{credential.BaseContext},
		ID:          credential.NewID(),
		Types:       []string{credential.BasePresentationType},
		Holder:      holder.did,
		Credentials: creds,
	}
	var custom map[string]interface{}
	if nonce != "" {
		custom = map[string]interface{}{"nonce": nonce}
	}
	claims, err := pres.ToJwtClaims(custom)
	require.NoError(t, err)
	return holder.signClaims(t, claims)
}

func requireKind(t *testing.T, err error, kind JwtValidationErrorKind) {
	t.Helper()
	require.Error(t, err)
	var verr *JwtValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, kind, verr.Kind)
}

func TestValidateCredential(t *testing.T) {
	issuer := newActor(t, "did:example:issuer")
	holder := newActor(t, "did:example:holder")
	validator := NewJwtCredentialValidator(nil)
	ctx := context.Background()

	t.Run("valid credential", func(t *testing.T) {
		cred := newCredential(issuer.did, holder.did, time.Now().Add(time.Hour))
		token := signCredential(t, issuer, cred)

		decoded, err := validator.Validate(ctx, token, issuer.doc, CredentialValidationOptions{}, FirstError)
		require.NoError(t, err)
		assert.Equal(t, issuer.did, decoded.Credential.Issuer)
		assert.Equal(t, issuer.kid, decoded.Header.Kid)

		// Validation keeps no state between calls.
		_, err = validator.Validate(ctx, token, issuer.doc, CredentialValidationOptions{}, FirstError)
		require.NoError(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := validator.Validate(ctx, "not-a-jwt", issuer.doc, CredentialValidationOptions{}, FirstError)
		requireKind(t, err, KindJwsDecoding)
	})

	t.Run("expired credential", func(t *testing.T) {
		cred := newCredential(issuer.did, holder.did, time.Now().Add(-time.Minute))
		token := signCredential(t, issuer, cred)

		_, err := validator.Validate(ctx, token, issuer.doc, CredentialValidationOptions{}, FirstError)
		requireKind(t, err, KindExpired)
	})

	t.Run("expiry boundary is inclusive", func(t *testing.T) {
		validUntil := time.Now().Add(time.Hour).Truncate(time.Second)
		cred := newCredential(issuer.did, holder.did, validUntil)
		token := signCredential(t, issuer, cred)

		// Exactly at the boundary: still valid.
		exact := validUntil
		_, err := validator.Validate(ctx, token, issuer.doc,
			CredentialValidationOptions{EarliestExpiryDate: &exact}, FirstError)
		require.NoError(t, err)

		// One second past: expired.
		past := validUntil.Add(time.Second)
		_, err = validator.Validate(ctx, token, issuer.doc,
			CredentialValidationOptions{EarliestExpiryDate: &past}, FirstError)
		requireKind(t, err, KindExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		cred := newCredential(issuer.did, holder.did, time.Now().Add(2*time.Hour))
		cred.ValidFrom = time.Now().Add(time.Hour).Truncate(time.Second)
		token := signCredential(t, issuer, cred)

		_, err := validator.Validate(ctx, token, issuer.doc, CredentialValidationOptions{}, FirstError)
		requireKind(t, err, KindNotYetValid)
	})

	t.Run("signed by the wrong key", func(t *testing.T) {
		mallory := newActor(t, issuer.did)
		cred := newCredential(issuer.did, holder.did, time.Now().Add(time.Hour))
		token := signCredential(t, mallory, cred)

		_, err := validator.Validate(ctx, token, issuer.doc, CredentialValidationOptions{}, FirstError)
		requireKind(t, err, KindSignature)
	})

	t.Run("algorithm pinned by the key blocks confusion", func(t *testing.T) {
		pinned := newActor(t, "did:example:pinned")
		pinned.doc.VerificationMethod[0].PublicKeyJwk.Alg = string(jose.ES256)

		cred := newCredential(pinned.did, holder.did, time.Now().Add(time.Hour))
		token := signCredential(t, pinned, cred)

		_, err := validator.Validate(ctx, token, pinned.doc, CredentialValidationOptions{}, FirstError)
		requireKind(t, err, KindSignature)
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := newActor(t, issuer.did)
		other.kid = issuer.did + "#missing"
		cred := newCredential(issuer.did, holder.did, time.Now().Add(time.Hour))
		token := signCredential(t, other, cred)

		_, err := validator.Validate(ctx, token, issuer.doc, CredentialValidationOptions{}, FirstError)
		requireKind(t, err, KindMethodResolution)
	})

	t.Run("method scope restriction", func(t *testing.T) {
		scope := diddoc.ScopeRelationship(diddoc.KeyAgreement)
		cred := newCredential(issuer.did, holder.did, time.Now().Add(time.Hour))
		token := signCredential(t, issuer, cred)

		_, err := validator.Validate(ctx, token, issuer.doc,
			CredentialValidationOptions{MethodScope: &scope}, FirstError)
		requireKind(t, err, KindMethodResolution)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		cred := newCredential("did:example:someone-else", holder.did, time.Now().Add(time.Hour))
		token := signCredential(t, issuer, cred)

		_, err := validator.Validate(ctx, token, issuer.doc, CredentialValidationOptions{}, FirstError)
		requireKind(t, err, KindIssuerNotAllowed)
	})

	t.Run("deactivated issuer document", func(t *testing.T) {
		deactivated := newActor(t, "did:example:gone")
		deactivated.doc.Metadata = map[string]interface{}{"deactivated": true}
		cred := newCredential(deactivated.did, holder.did, time.Now().Add(time.Hour))
		token := signCredential(t, deactivated, cred)

		_, err := validator.Validate(ctx, token, deactivated.doc, CredentialValidationOptions{}, FirstError)
		requireKind(t, err, KindDeactivatedDocument)
	})

	t.Run("all errors accumulate", func(t *testing.T) {
		cred := newCredential("did:example:someone-else", holder.did, time.Now().Add(-time.Minute))
		token := signCredential(t, issuer, cred)

		_, err := validator.Validate(ctx, token, issuer.doc, CredentialValidationOptions{}, AllErrors)
		require.Error(t, err)
		var compound *CompoundCredentialValidationError
		require.ErrorAs(t, err, &compound)
		require.Len(t, compound.Errors, 2)
		assert.Equal(t, KindExpired, compound.Errors[0].Kind)
		assert.Equal(t, KindIssuerNotAllowed, compound.Errors[1].Kind)
	})
}

// fakeStatusResolver serves one in-memory status list, or fails.
type fakeStatusResolver struct {
	list *status.StatusList
	err  error
}

func (f *fakeStatusResolver) Resolve(ctx context.Context, url string) (*status.StatusList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func TestValidateCredentialStatus(t *testing.T) {
	issuer := newActor(t, "did:example:issuer")
	holder := newActor(t, "did:example:holder")
	validator := NewJwtCredentialValidator(nil)
	ctx := context.Background()

	withStatus := func(index int) string {
		cred := newCredential(issuer.did, holder.did, time.Now().Add(time.Hour))
		cred.Status = []credential.Status{{
			ID:                   fmt.Sprintf("https://example.com/status/1#%d", index),
			Type:                 status.StatusList2021Type,
			StatusPurpose:        status.PurposeRevocation,
			StatusListIndex:      fmt.Sprint(index),
			StatusListCredential: "https://example.com/status/1",
		}}
		return signCredential(t, issuer, cred)
	}

	bits := status.NewBitstring(0)
	require.NoError(t, bits.Set(7, true))
	resolver := &fakeStatusResolver{list: &status.StatusList{
		ID:      "https://example.com/status/1",
		Purpose: status.PurposeRevocation,
		Bits:    bits,
	}}

	t.Run("not revoked", func(t *testing.T) {
		_, err := validator.Validate(ctx, withStatus(6), issuer.doc,
			CredentialValidationOptions{StatusResolver: resolver}, FirstError)
		require.NoError(t, err)
	})

	t.Run("revoked", func(t *testing.T) {
		_, err := validator.Validate(ctx, withStatus(7), issuer.doc,
			CredentialValidationOptions{StatusResolver: resolver}, FirstError)
		requireKind(t, err, KindRevoked)
	})

	t.Run("resolution failure is distinct from revocation", func(t *testing.T) {
		failing := &fakeStatusResolver{err: fmt.Errorf("connection refused")}
		_, err := validator.Validate(ctx, withStatus(7), issuer.doc,
			CredentialValidationOptions{StatusResolver: failing}, FirstError)
		requireKind(t, err, KindStatusResolution)
	})

	t.Run("no resolver skips the check", func(t *testing.T) {
		_, err := validator.Validate(ctx, withStatus(7), issuer.doc,
			CredentialValidationOptions{}, FirstError)
		require.NoError(t, err)
	})
}

func TestValidatePresentation(t *testing.T) {
	issuer := newActor(t, "did:example:issuer")
	holder := newActor(t, "did:example:holder")
	validator := NewJwtPresentationValidator(nil)
	ctx := context.Background()
	issuers := []*diddoc.Document{issuer.doc}

	validToken := func() string {
		return signCredential(t, issuer, newCredential(issuer.did, holder.did, time.Now().Add(time.Hour)))
	}
	expiredToken := func() string {
		return signCredential(t, issuer, newCredential(issuer.did, holder.did, time.Now().Add(-time.Minute)))
	}

	t.Run("valid presentation", func(t *testing.T) {
		token := signPresentation(t, holder, []string{validToken(), validToken()}, "")

		decoded, err := validator.Validate(ctx, token, holder.doc, issuers, JwtPresentationOptions{}, FirstError)
		require.NoError(t, err)
		assert.Equal(t, holder.did, decoded.Presentation.Holder)
		assert.Len(t, decoded.Credentials, 2)
	})

	t.Run("three credentials one expired under AllErrors", func(t *testing.T) {
		token := signPresentation(t, holder, []string{validToken(), expiredToken(), validToken()}, "")

		_, err := validator.Validate(ctx, token, holder.doc, issuers, JwtPresentationOptions{}, AllErrors)
		require.Error(t, err)
		var compound *CompoundJwtPresentationValidationError
		require.ErrorAs(t, err, &compound)
		assert.Empty(t, compound.PresentationErrors)
		require.Len(t, compound.CredentialErrors, 1)
		assert.Equal(t, 1, compound.CredentialErrors[0].Index)
		requireKind(t, compound.CredentialErrors[0].Err, KindExpired)
	})

	t.Run("first error stops at the first failing credential", func(t *testing.T) {
		token := signPresentation(t, holder, []string{expiredToken(), expiredToken(), validToken()}, "")

		_, err := validator.Validate(ctx, token, holder.doc, issuers, JwtPresentationOptions{}, FirstError)
		require.Error(t, err)
		var compound *CompoundJwtPresentationValidationError
		require.ErrorAs(t, err, &compound)
		require.Len(t, compound.CredentialErrors, 1)
		assert.Equal(t, 0, compound.CredentialErrors[0].Index)
	})

	t.Run("nonce check", func(t *testing.T) {
		token := signPresentation(t, holder, []string{validToken()}, "challenge-123")

		want := "challenge-123"
		_, err := validator.Validate(ctx, token, holder.doc, issuers,
			JwtPresentationOptions{Nonce: &want}, FirstError)
		require.NoError(t, err)

		wrong := "other-challenge"
		_, err = validator.Validate(ctx, token, holder.doc, issuers,
			JwtPresentationOptions{Nonce: &wrong}, FirstError)
		requireKind(t, err, KindChallenge)
	})

	t.Run("holder must be the subject", func(t *testing.T) {
		stranger := signCredential(t, issuer,
			newCredential(issuer.did, "did:example:stranger", time.Now().Add(time.Hour)))
		token := signPresentation(t, holder, []string{stranger}, "")

		_, err := validator.Validate(ctx, token, holder.doc, issuers, JwtPresentationOptions{}, AllErrors)
		require.Error(t, err)
		var compound *CompoundJwtPresentationValidationError
		require.ErrorAs(t, err, &compound)
		require.Len(t, compound.CredentialErrors, 1)
		requireKind(t, compound.CredentialErrors[0].Err, KindSubjectHolderRelationship)

		// The Any policy accepts the same presentation.
		_, err = validator.Validate(ctx, token, holder.doc, issuers,
			JwtPresentationOptions{SubjectHolderRelationship: Any}, AllErrors)
		require.NoError(t, err)
	})

	t.Run("unknown issuer", func(t *testing.T) {
		rogue := newActor(t, "did:example:rogue")
		cred := signCredential(t, rogue, newCredential(rogue.did, holder.did, time.Now().Add(time.Hour)))
		token := signPresentation(t, holder, []string{cred}, "")

		_, err := validator.Validate(ctx, token, holder.doc, issuers, JwtPresentationOptions{}, AllErrors)
		require.Error(t, err)
		var compound *CompoundJwtPresentationValidationError
		require.ErrorAs(t, err, &compound)
		require.Len(t, compound.CredentialErrors, 1)
		requireKind(t, compound.CredentialErrors[0].Err, KindIssuerNotAllowed)
	})

	t.Run("presentation signed by the wrong key", func(t *testing.T) {
		mallory := newActor(t, holder.did)
		token := signPresentation(t, mallory, []string{validToken()}, "")

		_, err := validator.Validate(ctx, token, holder.doc, issuers, JwtPresentationOptions{}, FirstError)
		requireKind(t, err, KindSignature)
	})
}
