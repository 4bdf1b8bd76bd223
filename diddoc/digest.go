package diddoc

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// MethodDigestVersion is the current digest layout version. New layouts get
// new values; old values stay valid forever.
const MethodDigestVersion byte = 0

// MethodDigest is a versioned fast fingerprint binding a signature's kid to
// a specific verification method. It is a lookup aid built on a
// non-cryptographic hash; the security boundary is always the signature
// check itself. The digest must be recomputed whenever a method's key
// material changes.
type MethodDigest struct {
	Version byte
	Value   uint64
}

// NewMethodDigest fingerprints a verification method over its id fragment
// and raw key bytes.
func NewMethodDigest(method *VerificationMethod) (MethodDigest, error) {
	keyBytes, err := method.KeyBytes()
	if err != nil {
		return MethodDigest{}, fmt.Errorf("failed to extract key bytes: %w", err)
	}

	h := xxhash.New()
	h.Write([]byte(method.Fragment()))
	h.Write(keyBytes)

	return MethodDigest{Version: MethodDigestVersion, Value: h.Sum64()}, nil
}

// Pack serializes the digest as version byte plus little-endian value.
func (d MethodDigest) Pack() []byte {
	out := make([]byte, 9)
	out[0] = d.Version
	binary.LittleEndian.PutUint64(out[1:], d.Value)
	return out
}

// UnpackMethodDigest parses a packed digest, rejecting unknown versions.
func UnpackMethodDigest(data []byte) (MethodDigest, error) {
	if len(data) != 9 {
		return MethodDigest{}, fmt.Errorf("packed method digest must be 9 bytes, got %d", len(data))
	}
	if data[0] != MethodDigestVersion {
		return MethodDigest{}, fmt.Errorf("unsupported method digest version %d", data[0])
	}
	return MethodDigest{Version: data[0], Value: binary.LittleEndian.Uint64(data[1:])}, nil
}
