package jws

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/schemes"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/attestia/go-identity-sdk/jose"
)

// Signer produces raw signature bytes over a signing input. The encoder and
// the test suite use it; validation never does.
type Signer interface {
	Algorithm() jose.JwsAlgorithm
	Sign(data []byte) ([]byte, error)
}

// Ed25519Signer signs with an Ed25519 private key.
type Ed25519Signer struct {
	Private ed25519.PrivateKey
}

// Algorithm implements Signer.
func (Ed25519Signer) Algorithm() jose.JwsAlgorithm { return jose.EdDSA }

// Sign implements Signer.
func (s Ed25519Signer) Sign(data []byte) ([]byte, error) {
	if len(s.Private) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid Ed25519 private key length %d", len(s.Private))
	}
	return ed25519.Sign(s.Private, data), nil
}

// ES256Signer signs with a NIST P-256 key, producing the raw r || s JOSE
// signature encoding.
type ES256Signer struct {
	Private *ecdsa.PrivateKey
}

// Algorithm implements Signer.
func (ES256Signer) Algorithm() jose.JwsAlgorithm { return jose.ES256 }

// Sign implements Signer.
func (s ES256Signer) Sign(data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)

	r, sv, err := ecdsa.Sign(rand.Reader, s.Private, hash[:])
	if err != nil {
		return nil, fmt.Errorf("ecdsa: sign error: %w", err)
	}

	signature := make([]byte, 64)
	r.FillBytes(signature[:32])
	sv.FillBytes(signature[32:])
	return signature, nil
}

// ES256KSigner signs with a hex-encoded secp256k1 private key, producing the
// raw r || s JOSE signature encoding.
type ES256KSigner struct {
	PrivateHex string
}

// Algorithm implements Signer.
func (ES256KSigner) Algorithm() jose.JwsAlgorithm { return jose.ES256K }

// Sign implements Signer.
func (s ES256KSigner) Sign(data []byte) ([]byte, error) {
	privKey, err := ethcrypto.HexToECDSA(s.PrivateHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	hash := sha256.Sum256(data)
	sig, err := ethcrypto.Sign(hash[:], privKey)
	if err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}

	// Drop the recovery id, keeping r || s.
	return sig[:64], nil
}

// MLDSASigner signs with an ML-DSA private key at the given parameter set.
type MLDSASigner struct {
	Alg     jose.JwsAlgorithm
	Private sign.PrivateKey
}

// Algorithm implements Signer.
func (s MLDSASigner) Algorithm() jose.JwsAlgorithm { return s.Alg }

// Sign implements Signer.
func (s MLDSASigner) Sign(data []byte) ([]byte, error) {
	scheme := schemes.ByName(string(s.Alg))
	if scheme == nil {
		return nil, fmt.Errorf("unsupported ML-DSA parameter set %q", s.Alg)
	}
	return scheme.Sign(s.Private, data, nil), nil
}
