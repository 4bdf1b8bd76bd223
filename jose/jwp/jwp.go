// Package jwp implements the issued form of JSON Web Proofs: a protected
// header naming the claims, one payload per claim, and a BBS+ proof binding
// them together.
package jwp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/attestia/go-identity-sdk/codec"
	"github.com/attestia/go-identity-sdk/jose"
)

// Header is a JWP protected header. The claims parameter names each payload
// in order.
type Header struct {
	Alg    string
	Kid    string
	Typ    string
	Claims []string
	Custom map[string]interface{}
}

// Algorithm parses the alg parameter against the supported proof algorithms.
func (h *Header) Algorithm() (jose.ProofAlgorithm, error) {
	switch jose.ProofAlgorithm(h.Alg) {
	case jose.BBSBLS12381SHA256:
		return jose.ProofAlgorithm(h.Alg), nil
	case "":
		return "", fmt.Errorf("protected header is missing the alg parameter")
	default:
		return "", fmt.Errorf("unrecognized JWP algorithm %q", h.Alg)
	}
}

// MarshalJSON implements json.Marshaler.
func (h *Header) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(h.Custom)+4)
	for k, v := range h.Custom {
		m[k] = v
	}
	if h.Alg != "" {
		m[jose.HeaderAlgorithm] = h.Alg
	}
	if h.Kid != "" {
		m[jose.HeaderKeyID] = h.Kid
	}
	if h.Typ != "" {
		m[jose.HeaderType] = h.Typ
	}
	if len(h.Claims) > 0 {
		m[jose.HeaderClaims] = h.Claims
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Header) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to unmarshal JWP header: %w", err)
	}

	*h = Header{}
	for k, v := range m {
		switch k {
		case jose.HeaderAlgorithm:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("alg parameter must be a string")
			}
			h.Alg = s
		case jose.HeaderKeyID:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("kid parameter must be a string")
			}
			h.Kid = s
		case jose.HeaderType:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("typ parameter must be a string")
			}
			h.Typ = s
		case jose.HeaderClaims:
			entries, ok := v.([]interface{})
			if !ok {
				return fmt.Errorf("claims parameter must be an array")
			}
			for _, entry := range entries {
				name, ok := entry.(string)
				if !ok {
					return fmt.Errorf("claims entries must be strings")
				}
				h.Claims = append(h.Claims, name)
			}
		default:
			if h.Custom == nil {
				h.Custom = make(map[string]interface{})
			}
			h.Custom[k] = v
		}
	}
	return nil
}

// Issued is a parsed issued-form JWP. A nil payload entry means the claim
// was not disclosed.
type Issued struct {
	ProtectedHeader *Header
	Payloads        [][]byte
	Proof           []byte

	headerSegment string
}

// Parse splits and decodes an issued-form JWP:
// base64url(header).payload~payload~….base64url(proof), payloads base64url
// encoded and '~' separated, an empty segment marking a non-disclosed claim.
func Parse(token string) (*Issued, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("issued JWP requires 3 segments, got %d", len(segments))
	}

	headerBytes, err := codec.DecodeB64(segments[0])
	if err != nil {
		return nil, fmt.Errorf("invalid protected header: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("invalid protected header: %w", err)
	}
	if len(header.Claims) == 0 {
		return nil, fmt.Errorf("protected header has no claims parameter")
	}

	payloadSegs := strings.Split(segments[1], "~")
	if len(payloadSegs) != len(header.Claims) {
		return nil, fmt.Errorf("payload count %d does not match claims count %d",
			len(payloadSegs), len(header.Claims))
	}

	payloads := make([][]byte, len(payloadSegs))
	for i, seg := range payloadSegs {
		if seg == "" {
			continue
		}
		payloads[i], err = codec.DecodeB64(seg)
		if err != nil {
			return nil, fmt.Errorf("invalid payload %d: %w", i, err)
		}
	}

	proof, err := codec.DecodeB64(segments[2])
	if err != nil {
		return nil, fmt.Errorf("invalid proof: %w", err)
	}

	return &Issued{
		ProtectedHeader: &header,
		Payloads:        payloads,
		Proof:           proof,
		headerSegment:   segments[0],
	}, nil
}

// Claims pairs the header's claim names with their decoded JSON payload
// values, skipping non-disclosed entries.
func (i *Issued) Claims() (map[string]interface{}, error) {
	claims := make(map[string]interface{}, len(i.Payloads))
	for idx, payload := range i.Payloads {
		if payload == nil {
			continue
		}
		var value interface{}
		if err := json.Unmarshal(payload, &value); err != nil {
			return nil, fmt.Errorf("claim %q payload is not valid JSON: %w", i.ProtectedHeader.Claims[idx], err)
		}
		claims[i.ProtectedHeader.Claims[idx]] = value
	}
	return claims, nil
}

// messages returns the ordered BBS message vector: the protected header
// segment followed by each payload. Non-disclosed payloads contribute empty
// messages and cannot verify an issued-form proof.
func (i *Issued) messages() [][]byte {
	msgs := make([][]byte, 0, len(i.Payloads)+1)
	msgs = append(msgs, []byte(i.headerSegment))
	for _, payload := range i.Payloads {
		msgs = append(msgs, payload)
	}
	return msgs
}
