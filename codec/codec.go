// Package codec provides the byte-level encoding helpers shared by the JOSE,
// DID document and state metadata packages: base64url, base16, base58 and
// multibase, plus canonical JSON re-serialization.
package codec

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multibase"
)

// EncodeB64 encodes data as unpadded base64url per RFC 7515.
func EncodeB64(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeB64 decodes an unpadded base64url string.
func DecodeB64(data string) ([]byte, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64url: %w", err)
	}
	return decoded, nil
}

// EncodeB16 encodes data as lowercase hex.
func EncodeB16(data []byte) string {
	return hex.EncodeToString(data)
}

// DecodeB16 decodes a hex string.
func DecodeB16(data string) ([]byte, error) {
	decoded, err := hex.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base16: %w", err)
	}
	return decoded, nil
}

// EncodeB58 encodes data with the Bitcoin base58 alphabet.
func EncodeB58(data []byte) string {
	return base58.Encode(data)
}

// DecodeB58 decodes a base58btc string.
func DecodeB58(data string) ([]byte, error) {
	decoded, err := base58.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58: %w", err)
	}
	return decoded, nil
}

// DecodeMultibase decodes a multibase string as used by the
// publicKeyMultibase verification method property.
func DecodeMultibase(data string) ([]byte, error) {
	_, decoded, err := multibase.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode multibase: %w", err)
	}
	return decoded, nil
}

// CanonicalJSON re-serializes a JSON document with lexicographically sorted
// object keys and no insignificant whitespace. The output is stable for a
// given input document regardless of the original key order.
func CanonicalJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	// encoding/json sorts map keys on marshal, so one re-marshal pass
	// canonicalizes arbitrarily nested objects.
	canonical, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return canonical, nil
}

// SortedKeys returns the keys of a JSON object map in lexicographic order.
func SortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
