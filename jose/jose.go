// Package jose holds the JOSE constants shared by the jwk, jws and jwp
// subpackages: signature algorithm identifiers, proof algorithm identifiers
// and registered header parameter names.
package jose

import "fmt"

// JwsAlgorithm identifies a JWS signature algorithm.
type JwsAlgorithm string

// Supported JWS algorithms. The set is closed: adding an algorithm means
// adding a variant here plus a verifier backend, never a runtime fallback.
const (
	EdDSA   JwsAlgorithm = "EdDSA"
	ES256   JwsAlgorithm = "ES256"
	ES256K  JwsAlgorithm = "ES256K"
	MLDSA44 JwsAlgorithm = "ML-DSA-44"
	MLDSA65 JwsAlgorithm = "ML-DSA-65"
)

// ParseJwsAlgorithm maps an alg header value to a known JwsAlgorithm.
func ParseJwsAlgorithm(alg string) (JwsAlgorithm, error) {
	switch JwsAlgorithm(alg) {
	case EdDSA, ES256, ES256K, MLDSA44, MLDSA65:
		return JwsAlgorithm(alg), nil
	default:
		return "", fmt.Errorf("unrecognized JWS algorithm %q", alg)
	}
}

// ProofAlgorithm identifies a JSON Web Proof algorithm.
type ProofAlgorithm string

// Supported JWP proof algorithms.
const (
	// BBSBLS12381SHA256 is the BBS+ signature scheme over BLS12-381 G2.
	BBSBLS12381SHA256 ProofAlgorithm = "BBS-BLS12381-SHA-256"
)

// Registered header parameter names used across the package.
const (
	HeaderAlgorithm   = "alg"
	HeaderKeyID       = "kid"
	HeaderType        = "typ"
	HeaderContentType = "cty"
	HeaderCritical    = "crit"
	HeaderB64         = "b64"
	HeaderClaims      = "claims"
	HeaderNonce       = "nonce"
)

// TypeJWT is the conventional typ header value for credential JWTs.
const TypeJWT = "JWT"
