package jws

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/attestia/go-identity-sdk/jose"
	"github.com/attestia/go-identity-sdk/jose/jwk"
)

// ES256Verifier checks ECDSA P-256 signatures with SHA-256 in the raw
// r || s JOSE encoding.
type ES256Verifier struct{}

// Verify implements Verifier.
func (ES256Verifier) Verify(input VerificationInput, key *jwk.Jwk) error {
	if input.Alg != jose.ES256 {
		return jose.NewSignatureVerificationError(jose.KindUnsupportedAlg,
			fmt.Errorf("ES256 backend got algorithm %q", input.Alg))
	}

	pub, err := key.P256PublicKey()
	if err != nil {
		return jose.NewSignatureVerificationError(jose.KindKeyError, err)
	}

	return verifyECDSARaw(pub, input.SigningInput, input.Signature)
}

// verifyECDSARaw checks a 64-byte r || s signature over sha256(data).
func verifyECDSARaw(pub *ecdsa.PublicKey, data, signature []byte) error {
	if len(signature) != 64 {
		return jose.NewSignatureVerificationError(jose.KindInvalidInput,
			fmt.Errorf("invalid ECDSA signature length %d, want 64", len(signature)))
	}

	hash := sha256.Sum256(data)
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])

	if !ecdsa.Verify(pub, hash[:], r, s) {
		return jose.NewSignatureVerificationError(jose.KindInvalidSignature, nil)
	}
	return nil
}
