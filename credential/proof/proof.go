// Package proof adds and verifies embedded Data Integrity proofs using the
// ecdsa-rdfc-2019 cryptosuite: URDNA2015 canonicalization, SHA-256 digest,
// secp256k1 signature.
package proof

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/attestia/go-identity-sdk/credential/schema"
)

// TypeDataIntegrity is the proof type produced by this package.
const TypeDataIntegrity = "DataIntegrityProof"

// SuiteECDSARDFC2019 is the only cryptosuite this package implements.
const SuiteECDSARDFC2019 = "ecdsa-rdfc-2019"

// Proof is an embedded Data Integrity proof.
type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	Cryptosuite        string `json:"cryptosuite,omitempty"`
	ProofValue         string `json:"proofValue,omitempty"`
	Challenge          string `json:"challenge,omitempty"`
	Domain             string `json:"domain,omitempty"`
}

// signingDigest canonicalizes the document without its proof field and
// hashes the result.
func signingDigest(doc map[string]interface{}) ([]byte, error) {
	unsigned := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k != "proof" {
			unsigned[k] = v
		}
	}

	// Round-trip through JSON so typed values become plain JSON values
	// before canonicalization.
	encoded, err := json.Marshal(unsigned)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var plain map[string]interface{}
	if err := json.Unmarshal(encoded, &plain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	canonical, err := schema.Canonicalize(plain)
	if err != nil {
		return nil, err
	}
	digest := schema.Digest(canonical)
	return digest[:], nil
}

// extractProof pulls the proof out of a signed document, accepting both a
// single object and a one-element array.
func extractProof(doc map[string]interface{}) (*Proof, error) {
	raw, ok := doc["proof"]
	if !ok {
		return nil, fmt.Errorf("document has no proof")
	}
	if entries, ok := raw.([]interface{}); ok {
		if len(entries) != 1 {
			return nil, fmt.Errorf("expected exactly one proof, got %d", len(entries))
		}
		raw = entries[0]
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proof: %w", err)
	}
	var p Proof
	if err := json.Unmarshal(encoded, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal proof: %w", err)
	}
	return &p, nil
}

func newProof(verificationMethod, proofPurpose string) *Proof {
	return &Proof{
		Type:               TypeDataIntegrity,
		Created:            time.Now().UTC().Format(time.RFC3339),
		VerificationMethod: verificationMethod,
		ProofPurpose:       proofPurpose,
		Cryptosuite:        SuiteECDSARDFC2019,
	}
}
