package diddoc

import (
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/attestia/go-identity-sdk/codec"
	"github.com/attestia/go-identity-sdk/jose/jwk"
)

// VerificationMethod is one public key entry of a DID document. Key material
// arrives as a JWK, a multibase string, base58 bytes or hex bytes depending
// on the method type; Jwk() normalizes all of them.
type VerificationMethod struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	Controller         string   `json:"controller"`
	PublicKeyJwk       *jwk.Jwk `json:"publicKeyJwk,omitempty"`
	PublicKeyMultibase string   `json:"publicKeyMultibase,omitempty"`
	PublicKeyBase58    string   `json:"publicKeyBase58,omitempty"`
	PublicKeyHex       string   `json:"publicKeyHex,omitempty"`
}

// Fragment returns the fragment part of the method id.
func (m *VerificationMethod) Fragment() string {
	_, fragment, _ := strings.Cut(m.ID, "#")
	return fragment
}

// KeyBytes returns the raw public key material, decoding whichever encoding
// the method carries. For JWK material the x coordinate (or pub parameter)
// is returned.
func (m *VerificationMethod) KeyBytes() ([]byte, error) {
	switch {
	case m.PublicKeyJwk != nil:
		param := m.PublicKeyJwk.X
		if param == "" {
			param = m.PublicKeyJwk.Pub
		}
		if param == "" {
			param = m.PublicKeyJwk.N
		}
		return codec.DecodeB64(param)
	case m.PublicKeyMultibase != "":
		return codec.DecodeMultibase(m.PublicKeyMultibase)
	case m.PublicKeyBase58 != "":
		return codec.DecodeB58(m.PublicKeyBase58)
	case m.PublicKeyHex != "":
		return codec.DecodeB16(strings.TrimPrefix(m.PublicKeyHex, "0x"))
	default:
		return nil, fmt.Errorf("verification method %q carries no key material", m.ID)
	}
}

// Jwk resolves the method's key material to a JWK, converting legacy byte
// encodings according to the method type.
func (m *VerificationMethod) Jwk() (*jwk.Jwk, error) {
	if m.PublicKeyJwk != nil {
		if err := m.PublicKeyJwk.Check(); err != nil {
			return nil, fmt.Errorf("verification method %q: %w", m.ID, err)
		}
		return m.PublicKeyJwk, nil
	}

	raw, err := m.KeyBytes()
	if err != nil {
		return nil, err
	}

	switch m.Type {
	case "Ed25519VerificationKey2018", "Ed25519VerificationKey2020":
		// Multicodec-wrapped ed25519 keys carry a two-byte 0xed01 prefix.
		if len(raw) == 34 && raw[0] == 0xed && raw[1] == 0x01 {
			raw = raw[2:]
		}
		if len(raw) != 32 {
			return nil, fmt.Errorf("verification method %q: invalid Ed25519 key length %d", m.ID, len(raw))
		}
		return jwk.FromEd25519(raw), nil
	case "EcdsaSecp256k1VerificationKey2019":
		pub, err := secp256k1FromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("verification method %q: %w", m.ID, err)
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("verification method %q has unsupported type %q", m.ID, m.Type)
	}
}

// secp256k1FromBytes accepts compressed (33 byte) or uncompressed (65 byte)
// SEC1 points.
func secp256k1FromBytes(raw []byte) (*jwk.Jwk, error) {
	switch {
	case len(raw) == 33 && (raw[0] == 0x02 || raw[0] == 0x03):
		pub, err := ethcrypto.DecompressPubkey(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress secp256k1 key: %w", err)
		}
		return jwk.FromSecp256k1(pub), nil
	case len(raw) == 65 && raw[0] == 0x04:
		pub, err := ethcrypto.UnmarshalPubkey(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse secp256k1 key: %w", err)
		}
		return jwk.FromSecp256k1(pub), nil
	default:
		return nil, fmt.Errorf("unsupported secp256k1 public key format (%d bytes)", len(raw))
	}
}
