package jws

import (
	"crypto/ed25519"
	"fmt"

	"github.com/attestia/go-identity-sdk/jose"
	"github.com/attestia/go-identity-sdk/jose/jwk"
)

// EdDSAVerifier checks Ed25519 signatures (RFC 8037).
type EdDSAVerifier struct{}

// Verify implements Verifier.
func (EdDSAVerifier) Verify(input VerificationInput, key *jwk.Jwk) error {
	if input.Alg != jose.EdDSA {
		return jose.NewSignatureVerificationError(jose.KindUnsupportedAlg,
			fmt.Errorf("EdDSA backend got algorithm %q", input.Alg))
	}

	pub, err := key.Ed25519PublicKey()
	if err != nil {
		return jose.NewSignatureVerificationError(jose.KindKeyError, err)
	}

	if len(input.Signature) != ed25519.SignatureSize {
		return jose.NewSignatureVerificationError(jose.KindInvalidInput,
			fmt.Errorf("invalid Ed25519 signature length %d", len(input.Signature)))
	}

	if !ed25519.Verify(pub, input.SigningInput, input.Signature) {
		return jose.NewSignatureVerificationError(jose.KindInvalidSignature, nil)
	}
	return nil
}
