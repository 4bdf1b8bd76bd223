package jws

import (
	"fmt"

	"github.com/attestia/go-identity-sdk/jose"
	"github.com/attestia/go-identity-sdk/jose/jwk"
)

// VerificationInput carries everything a backend needs to check one
// signature: the dispatched algorithm, the exact signing input bytes and the
// raw signature bytes.
type VerificationInput struct {
	Alg          jose.JwsAlgorithm
	SigningInput []byte
	Signature    []byte
}

// Verifier checks a signature against a public JWK. Implementations return
// nil on success or a *jose.SignatureVerificationError.
type Verifier interface {
	Verify(input VerificationInput, key *jwk.Jwk) error
}

// defaultVerifier dispatches to the concrete backend for each supported
// algorithm. The switch is exhaustive over jose's algorithm set; unknown
// algorithms yield UnsupportedAlg rather than a fallback path.
type defaultVerifier struct{}

// NewDefaultVerifier returns a Verifier covering EdDSA, ES256, ES256K and
// the ML-DSA algorithms.
func NewDefaultVerifier() Verifier {
	return defaultVerifier{}
}

func (defaultVerifier) Verify(input VerificationInput, key *jwk.Jwk) error {
	// The effective algorithm is the intersection of the header alg and the
	// key's alg hint: when the key pins an algorithm it must match, which
	// blocks algorithm-confusion substitutions.
	if key.Alg != "" && key.Alg != string(input.Alg) {
		return jose.NewSignatureVerificationError(jose.KindKeyError,
			fmt.Errorf("header algorithm %s does not match key algorithm %s", input.Alg, key.Alg))
	}

	switch input.Alg {
	case jose.EdDSA:
		return EdDSAVerifier{}.Verify(input, key)
	case jose.ES256:
		return ES256Verifier{}.Verify(input, key)
	case jose.ES256K:
		return ES256KVerifier{}.Verify(input, key)
	case jose.MLDSA44, jose.MLDSA65:
		return MLDSAVerifier{}.Verify(input, key)
	default:
		return jose.NewSignatureVerificationError(jose.KindUnsupportedAlg,
			fmt.Errorf("no backend for algorithm %q", input.Alg))
	}
}
