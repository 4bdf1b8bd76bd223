// Package jws implements the JSON Web Signature serializations (compact,
// general JSON, flattened JSON) with detached and unencoded payload support,
// plus signature verification dispatch over the supported algorithms.
package jws

import (
	"encoding/json"
	"fmt"

	"github.com/attestia/go-identity-sdk/jose"
)

// Header models a JOSE header. Registered parameters get typed fields;
// anything else lands in Custom so no information is lost on round-trip.
type Header struct {
	Alg  string
	Kid  string
	Typ  string
	Cty  string
	Crit []string
	// B64 is nil when absent, which RFC 7797 defines as true.
	B64    *bool
	Custom map[string]interface{}
}

// Algorithm parses the alg parameter. Verification is meaningless without
// it, so the empty value is an error.
func (h *Header) Algorithm() (jose.JwsAlgorithm, error) {
	if h.Alg == "" {
		return "", fmt.Errorf("protected header is missing the alg parameter")
	}
	return jose.ParseJwsAlgorithm(h.Alg)
}

// IsPayloadEncoded reports whether the payload is base64url encoded in the
// signing input (b64 absent or true).
func (h *Header) IsPayloadEncoded() bool {
	return h.B64 == nil || *h.B64
}

// MarshalJSON serializes registered parameters alongside custom ones.
func (h *Header) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(h.Custom)+6)
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
	if h.Cty != "" {
		m[jose.HeaderContentType] = h.Cty
	}
	if len(h.Crit) > 0 {
		m[jose.HeaderCritical] = h.Crit
	}
	if h.B64 != nil {
		m[jose.HeaderB64] = *h.B64
	}
	return json.Marshal(m)
}

// UnmarshalJSON plucks registered parameters and keeps the rest in Custom.
func (h *Header) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to unmarshal JOSE header: %w", err)
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
		case jose.HeaderContentType:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("cty parameter must be a string")
			}
			h.Cty = s
		case jose.HeaderCritical:
			entries, ok := v.([]interface{})
			if !ok || len(entries) == 0 {
				return fmt.Errorf("crit parameter must be a non-empty array")
			}
			for _, entry := range entries {
				name, ok := entry.(string)
				if !ok {
					return fmt.Errorf("crit entries must be strings")
				}
				h.Crit = append(h.Crit, name)
			}
		case jose.HeaderB64:
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("b64 parameter must be a boolean")
			}
			h.B64 = &b
		default:
			if h.Custom == nil {
				h.Custom = make(map[string]interface{})
			}
			h.Custom[k] = v
		}
	}
	return nil
}
