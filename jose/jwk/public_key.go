package jwk

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/attestia/go-identity-sdk/codec"
)

// Ed25519PublicKey extracts the Ed25519 public key from an OKP JWK.
func (j *Jwk) Ed25519PublicKey() (ed25519.PublicKey, error) {
	if j.Kty != KeyTypeOKP || EdCurve(j.Crv) != Ed25519 {
		return nil, fmt.Errorf("not an Ed25519 OKP key (kty=%s, crv=%s)", j.Kty, j.Crv)
	}

	x, err := codec.DecodeB64(j.X)
	if err != nil {
		return nil, fmt.Errorf("failed to decode x coordinate: %w", err)
	}
	if len(x) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid Ed25519 public key length: %d", len(x))
	}

	return ed25519.PublicKey(x), nil
}

// P256PublicKey extracts the NIST P-256 public key from an EC JWK.
func (j *Jwk) P256PublicKey() (*ecdsa.PublicKey, error) {
	if j.Kty != KeyTypeEC || EcCurve(j.Crv) != P256 {
		return nil, fmt.Errorf("not a P-256 EC key (kty=%s, crv=%s)", j.Kty, j.Crv)
	}

	x, y, err := j.coordinates()
	if err != nil {
		return nil, err
	}

	pub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}
	if !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return nil, fmt.Errorf("point is not on curve P-256")
	}
	return pub, nil
}

// Secp256k1PublicKey extracts the secp256k1 public key from an EC JWK.
func (j *Jwk) Secp256k1PublicKey() (*ecdsa.PublicKey, error) {
	if j.Kty != KeyTypeEC || EcCurve(j.Crv) != Secp256k1 {
		return nil, fmt.Errorf("not a secp256k1 EC key (kty=%s, crv=%s)", j.Kty, j.Crv)
	}

	x, y, err := j.coordinates()
	if err != nil {
		return nil, err
	}

	// Build the uncompressed SEC1 point and let the curve implementation
	// validate it.
	point := make([]byte, 65)
	point[0] = 0x04
	x.FillBytes(point[1:33])
	y.FillBytes(point[33:65])

	pub, err := secp256k1.ParsePubKey(point)
	if err != nil {
		return nil, fmt.Errorf("failed to parse secp256k1 point: %w", err)
	}
	return pub.ToECDSA(), nil
}

// BLSG2PublicKeyBytes extracts the compressed BLS12-381 G2 public key bytes
// from an EC JWK on the BLS12381G2 curve.
func (j *Jwk) BLSG2PublicKeyBytes() ([]byte, error) {
	if j.Kty != KeyTypeEC || EcCurve(j.Crv) != BLS12381G2 {
		return nil, fmt.Errorf("not a BLS12381G2 EC key (kty=%s, crv=%s)", j.Kty, j.Crv)
	}

	x, err := codec.DecodeB64(j.X)
	if err != nil {
		return nil, fmt.Errorf("failed to decode x coordinate: %w", err)
	}
	if len(x) != 96 {
		return nil, fmt.Errorf("invalid G2 public key length: %d", len(x))
	}
	return x, nil
}

// MLDSAPublicKeyBytes extracts the raw ML-DSA public key bytes from an AKP JWK.
func (j *Jwk) MLDSAPublicKeyBytes() ([]byte, error) {
	if j.Kty != KeyTypeAKP {
		return nil, fmt.Errorf("not an AKP key (kty=%s)", j.Kty)
	}

	pub, err := codec.DecodeB64(j.Pub)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pub parameter: %w", err)
	}
	return pub, nil
}

func (j *Jwk) coordinates() (*big.Int, *big.Int, error) {
	xBytes, err := codec.DecodeB64(j.X)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode x coordinate: %w", err)
	}
	yBytes, err := codec.DecodeB64(j.Y)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode y coordinate: %w", err)
	}
	return new(big.Int).SetBytes(xBytes), new(big.Int).SetBytes(yBytes), nil
}

// FromEd25519 builds a public OKP JWK from an Ed25519 public key.
func FromEd25519(pub ed25519.PublicKey) *Jwk {
	return &Jwk{
		Kty: KeyTypeOKP,
		Crv: string(Ed25519),
		Alg: "EdDSA",
		X:   codec.EncodeB64(pub),
	}
}

// FromP256 builds a public EC JWK from a NIST P-256 public key.
func FromP256(pub *ecdsa.PublicKey) *Jwk {
	return &Jwk{
		Kty: KeyTypeEC,
		Crv: string(P256),
		Alg: "ES256",
		X:   codec.EncodeB64(pub.X.FillBytes(make([]byte, 32))),
		Y:   codec.EncodeB64(pub.Y.FillBytes(make([]byte, 32))),
	}
}

// FromSecp256k1 builds a public EC JWK from a secp256k1 public key.
func FromSecp256k1(pub *ecdsa.PublicKey) *Jwk {
	return &Jwk{
		Kty: KeyTypeEC,
		Crv: string(Secp256k1),
		Alg: "ES256K",
		X:   codec.EncodeB64(pub.X.FillBytes(make([]byte, 32))),
		Y:   codec.EncodeB64(pub.Y.FillBytes(make([]byte, 32))),
	}
}

// FromBLSG2 builds a public EC JWK from compressed BLS12-381 G2 key bytes.
func FromBLSG2(pubBytes []byte) *Jwk {
	return &Jwk{
		Kty: KeyTypeEC,
		Crv: string(BLS12381G2),
		X:   codec.EncodeB64(pubBytes),
	}
}
