package jwp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/kmscrypto/crypto/primitive/bbs12381g2pub"

	"github.com/attestia/go-identity-sdk/codec"
	"github.com/attestia/go-identity-sdk/jose"
	"github.com/attestia/go-identity-sdk/jose/jwk"
)

// Verify checks the BBS+ proof over the header and payloads against the
// issuer's BLS12381-G2 public key.
func (i *Issued) Verify(key *jwk.Jwk) error {
	if _, err := i.ProtectedHeader.Algorithm(); err != nil {
		return jose.NewSignatureVerificationError(jose.KindUnsupportedAlg, err)
	}

	pubKeyBytes, err := key.BLSG2PublicKeyBytes()
	if err != nil {
		return jose.NewSignatureVerificationError(jose.KindKeyError, err)
	}

	if err := bbs12381g2pub.New().Verify(i.messages(), i.Proof, pubKeyBytes); err != nil {
		return jose.NewSignatureVerificationError(jose.KindInvalidSignature, err)
	}
	return nil
}

// Encode builds and signs an issued-form JWP. Claim values are marshaled as
// JSON payloads in the order given by names; header.Alg and header.Claims are
// set from the signer inputs.
func Encode(header *Header, names []string, values map[string]interface{}, privKeyBytes []byte) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("at least one claim is required")
	}

	header.Alg = string(jose.BBSBLS12381SHA256)
	header.Claims = names

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("failed to marshal protected header: %w", err)
	}
	headerSeg := codec.EncodeB64(headerJSON)

	payloadSegs := make([]string, len(names))
	msgs := make([][]byte, 0, len(names)+1)
	msgs = append(msgs, []byte(headerSeg))
	for idx, name := range names {
		value, ok := values[name]
		if !ok {
			return "", fmt.Errorf("no value for claim %q", name)
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("failed to marshal claim %q: %w", name, err)
		}
		payloadSegs[idx] = codec.EncodeB64(payload)
		msgs = append(msgs, payload)
	}

	proof, err := bbs12381g2pub.New().Sign(msgs, privKeyBytes)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWP: %w", err)
	}

	return headerSeg + "." + strings.Join(payloadSegs, "~") + "." + codec.EncodeB64(proof), nil
}
