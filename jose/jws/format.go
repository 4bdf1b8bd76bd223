package jws

import (
	"fmt"
	"strings"
)

// Serialization identifies one of the three JWS serialization forms.
type Serialization int

const (
	// Compact is the three-segment dotted form.
	Compact Serialization = iota
	// General is the JSON form with a signatures array.
	General
	// Flattened is the JSON form with a single inlined signature.
	Flattened
)

// String returns the serialization's name.
func (s Serialization) String() string {
	switch s {
	case Compact:
		return "compact"
	case General:
		return "general"
	case Flattened:
		return "flattened"
	default:
		return "unknown"
	}
}

// jsonSignature is one entry of the general serialization's signatures array,
// also reused inline by the flattened form.
type jsonSignature struct {
	Protected string                 `json:"protected,omitempty"`
	Header    map[string]interface{} `json:"header,omitempty"`
	Signature string                 `json:"signature"`
}

// generalJSON is the general JWS JSON serialization envelope.
type generalJSON struct {
	Payload    string          `json:"payload"`
	Signatures []jsonSignature `json:"signatures"`
}

// flattenedJSON is the flattened JWS JSON serialization envelope.
type flattenedJSON struct {
	Payload   string                 `json:"payload"`
	Protected string                 `json:"protected,omitempty"`
	Header    map[string]interface{} `json:"header,omitempty"`
	Signature string                 `json:"signature"`
}

// DetectSerialization inspects a token and guesses its serialization form.
// JSON objects with a signatures member are general, other JSON objects are
// flattened, and everything else is treated as compact.
func DetectSerialization(token string) Serialization {
	trimmed := strings.TrimSpace(token)
	if !strings.HasPrefix(trimmed, "{") {
		return Compact
	}
	if strings.Contains(trimmed, `"signatures"`) {
		return General
	}
	return Flattened
}

// splitCompact splits a compact token into its three segments, failing when
// the segment count is wrong.
func splitCompact(token string) (header, payload, signature string, err error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return "", "", "", newDecodeError(DecodeInvalidFormat,
			fmt.Errorf("compact JWS requires 3 segments, got %d", len(segments)))
	}
	return segments[0], segments[1], segments[2], nil
}
