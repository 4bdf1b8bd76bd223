package jws

import (
	"fmt"

	"github.com/cloudflare/circl/sign/schemes"

	"github.com/attestia/go-identity-sdk/jose"
	"github.com/attestia/go-identity-sdk/jose/jwk"
)

// MLDSAVerifier checks ML-DSA (FIPS 204) signatures at the 44 and 65
// parameter sets.
type MLDSAVerifier struct{}

// Verify implements Verifier.
func (MLDSAVerifier) Verify(input VerificationInput, key *jwk.Jwk) error {
	scheme := schemes.ByName(string(input.Alg))
	if scheme == nil {
		return jose.NewSignatureVerificationError(jose.KindUnsupportedAlg,
			fmt.Errorf("ML-DSA backend got algorithm %q", input.Alg))
	}

	pubBytes, err := key.MLDSAPublicKeyBytes()
	if err != nil {
		return jose.NewSignatureVerificationError(jose.KindKeyError, err)
	}

	pub, err := scheme.UnmarshalBinaryPublicKey(pubBytes)
	if err != nil {
		return jose.NewSignatureVerificationError(jose.KindKeyError,
			fmt.Errorf("failed to unmarshal %s public key: %w", input.Alg, err))
	}

	if !scheme.Verify(pub, input.SigningInput, input.Signature, nil) {
		return jose.NewSignatureVerificationError(jose.KindInvalidSignature, nil)
	}
	return nil
}
