package jws

import (
	"fmt"

	"github.com/attestia/go-identity-sdk/jose"
	"github.com/attestia/go-identity-sdk/jose/jwk"
)

// ES256KVerifier checks ECDSA secp256k1 signatures with SHA-256 in the raw
// r || s JOSE encoding.
type ES256KVerifier struct{}

// Verify implements Verifier.
func (ES256KVerifier) Verify(input VerificationInput, key *jwk.Jwk) error {
	if input.Alg != jose.ES256K {
		return jose.NewSignatureVerificationError(jose.KindUnsupportedAlg,
			fmt.Errorf("ES256K backend got algorithm %q", input.Alg))
	}

	pub, err := key.Secp256k1PublicKey()
	if err != nil {
		return jose.NewSignatureVerificationError(jose.KindKeyError, err)
	}

	return verifyECDSARaw(pub, input.SigningInput, input.Signature)
}
