// Package jwk models JSON Web Keys and their conversion to native Go public
// keys for the verifier backends.
package jwk

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/attestia/go-identity-sdk/codec"
)

// Jwk is a JSON Web Key per RFC 7517. A Jwk is immutable once constructed;
// the setters exist for construction only and must not be called on keys
// shared across goroutines.
type Jwk struct {
	Kty KeyType `json:"kty"`
	Use string  `json:"use,omitempty"`
	Alg string  `json:"alg,omitempty"`
	Kid string  `json:"kid,omitempty"`
	Crv string  `json:"crv,omitempty"`

	// EC and OKP coordinates, base64url.
	X string `json:"x,omitempty"`
	Y string `json:"y,omitempty"`
	D string `json:"d,omitempty"`

	// RSA parameters, base64url.
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`

	// oct key material, base64url.
	K string `json:"k,omitempty"`

	// AKP public key, base64url (ML-DSA).
	Pub string `json:"pub,omitempty"`
}

// Parse decodes a JWK from its JSON representation and checks parameter
// consistency.
func Parse(data []byte) (*Jwk, error) {
	var key Jwk
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JWK: %w", err)
	}
	if err := key.Check(); err != nil {
		return nil, err
	}
	return &key, nil
}

// Check validates that the populated parameter set is consistent with kty.
func (j *Jwk) Check() error {
	switch j.Kty {
	case KeyTypeEC:
		if j.Crv == "" || j.X == "" {
			return fmt.Errorf("EC key requires crv and x parameters")
		}
		// BLS12381G2 public keys carry only the x coordinate.
		if EcCurve(j.Crv) != BLS12381G2 && j.Y == "" {
			return fmt.Errorf("EC key on curve %s requires the y parameter", j.Crv)
		}
	case KeyTypeOKP:
		if j.Crv == "" || j.X == "" {
			return fmt.Errorf("OKP key requires crv and x parameters")
		}
	case KeyTypeRSA:
		if j.N == "" || j.E == "" {
			return fmt.Errorf("RSA key requires n and e parameters")
		}
	case KeyTypeOct:
		if j.K == "" {
			return fmt.Errorf("oct key requires the k parameter")
		}
	case KeyTypeAKP:
		if j.Alg == "" || j.Pub == "" {
			return fmt.Errorf("AKP key requires alg and pub parameters")
		}
	case "":
		return fmt.Errorf("JWK kty parameter is missing")
	default:
		return fmt.Errorf("unsupported JWK key type %q", j.Kty)
	}
	return nil
}

// IsPublic reports whether the key carries no private parameters.
func (j *Jwk) IsPublic() bool {
	return j.D == ""
}

// Public returns a copy of the key with private parameters stripped.
func (j *Jwk) Public() *Jwk {
	pub := *j
	pub.D = ""
	return &pub
}

// Thumbprint computes the RFC 7638 SHA-256 thumbprint of the key, base64url
// encoded. Only the required members for the key type participate.
func (j *Jwk) Thumbprint() (string, error) {
	if err := j.Check(); err != nil {
		return "", err
	}

	var required map[string]interface{}
	switch j.Kty {
	case KeyTypeEC:
		required = map[string]interface{}{"crv": j.Crv, "kty": string(j.Kty), "x": j.X}
		if j.Y != "" {
			required["y"] = j.Y
		}
	case KeyTypeOKP:
		required = map[string]interface{}{"crv": j.Crv, "kty": string(j.Kty), "x": j.X}
	case KeyTypeRSA:
		required = map[string]interface{}{"e": j.E, "kty": string(j.Kty), "n": j.N}
	case KeyTypeOct:
		required = map[string]interface{}{"k": j.K, "kty": string(j.Kty)}
	case KeyTypeAKP:
		required = map[string]interface{}{"alg": j.Alg, "kty": string(j.Kty), "pub": j.Pub}
	}

	// encoding/json sorts map keys, which matches the lexicographic member
	// order RFC 7638 requires.
	canonical, err := json.Marshal(required)
	if err != nil {
		return "", fmt.Errorf("failed to marshal thumbprint members: %w", err)
	}

	digest := sha256.Sum256(canonical)
	return codec.EncodeB64(digest[:]), nil
}
