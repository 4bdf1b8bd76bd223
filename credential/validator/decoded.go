package validator

import (
	"github.com/attestia/go-identity-sdk/credential"
	"github.com/attestia/go-identity-sdk/jose/jws"
	"github.com/attestia/go-identity-sdk/jose/jwp"
)

// DecodedJwtCredential is the output of successful credential validation: the
// decoded credential, the verified protected header, and any claims outside
// the registered and vc sets.
type DecodedJwtCredential struct {
	Credential   *credential.Credential
	Header       *jws.Header
	CustomClaims map[string]interface{}
}

// DecodedJwtPresentation is the output of successful presentation validation.
// Credentials holds the validated embedded credentials in input order.
type DecodedJwtPresentation struct {
	Presentation *credential.Presentation
	Header       *jws.Header
	CustomClaims map[string]interface{}
	Credentials  []*DecodedJwtCredential
}

// DecodedJptCredential is the output of successful JPT credential validation.
type DecodedJptCredential struct {
	Credential   *credential.Credential
	Header       *jwp.Header
	CustomClaims map[string]interface{}
}
