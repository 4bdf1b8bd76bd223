package diddoc

import (
	"encoding/json"
	"fmt"
)

// Service is a service endpoint entry of a DID document.
type Service struct {
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	ServiceEndpoint interface{} `json:"serviceEndpoint"`
}

// Document is a DID document: the resolved, read-only view the validator
// looks signing keys up in. Relationships reference methods by id.
type Document struct {
	Context              []string               `json:"@context,omitempty"`
	ID                   string                 `json:"id"`
	Controller           string                 `json:"controller,omitempty"`
	VerificationMethod   []VerificationMethod   `json:"verificationMethod,omitempty"`
	Authentication       []string               `json:"authentication,omitempty"`
	AssertionMethod      []string               `json:"assertionMethod,omitempty"`
	KeyAgreement         []string               `json:"keyAgreement,omitempty"`
	CapabilityInvocation []string               `json:"capabilityInvocation,omitempty"`
	CapabilityDelegation []string               `json:"capabilityDelegation,omitempty"`
	Service              []Service              `json:"service,omitempty"`
	Metadata             map[string]interface{} `json:"didDocumentMetadata,omitempty"`
}

// ParseDocument decodes a DID document from JSON and checks its id.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DID document: %w", err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("DID document has no id")
	}
	return &doc, nil
}

// Deactivated reports whether the document metadata marks the DID as
// deactivated.
func (d *Document) Deactivated() bool {
	if d.Metadata == nil {
		return false
	}
	deactivated, ok := d.Metadata["deactivated"].(bool)
	return ok && deactivated
}

// ResolveMethod finds the verification method named by query, which may be a
// full DID URL or a bare fragment, restricted to the given scope. The sole
// lookup entry point used during validation.
func (d *Document) ResolveMethod(query string, scope MethodScope) (*VerificationMethod, error) {
	u, err := ParseDIDUrl(query)
	if err != nil {
		return nil, err
	}
	if u.Fragment == "" {
		return nil, fmt.Errorf("method query %q has no fragment", query)
	}
	if !u.IsRelative() && u.DID != d.ID {
		return nil, fmt.Errorf("method %q does not belong to document %q", query, d.ID)
	}

	for i := range d.VerificationMethod {
		method := &d.VerificationMethod[i]
		if !u.Matches(method.ID) {
			continue
		}
		if relationship, scoped := scope.Relationship(); scoped && !d.hasRelationship(method.ID, relationship) {
			return nil, fmt.Errorf("method %q is not referenced by %s", method.ID, relationship)
		}
		return method, nil
	}

	return nil, fmt.Errorf("method %q not found in document %q", query, d.ID)
}

// MethodsWithAlgorithm returns the methods whose JWK carries the given alg
// hint, used to resolve tokens that omit a kid.
func (d *Document) MethodsWithAlgorithm(alg string, scope MethodScope) []*VerificationMethod {
	var matches []*VerificationMethod
	for i := range d.VerificationMethod {
		method := &d.VerificationMethod[i]
		key, err := method.Jwk()
		if err != nil || key.Alg != alg {
			continue
		}
		if relationship, scoped := scope.Relationship(); scoped && !d.hasRelationship(method.ID, relationship) {
			continue
		}
		matches = append(matches, method)
	}
	return matches
}

func (d *Document) hasRelationship(methodID string, relationship MethodRelationship) bool {
	var refs []string
	switch relationship {
	case Authentication:
		refs = d.Authentication
	case AssertionMethod:
		refs = d.AssertionMethod
	case KeyAgreement:
		refs = d.KeyAgreement
	case CapabilityInvocation:
		refs = d.CapabilityInvocation
	case CapabilityDelegation:
		refs = d.CapabilityDelegation
	}

	for _, ref := range refs {
		u, err := ParseDIDUrl(ref)
		if err != nil {
			continue
		}
		if u.Matches(methodID) {
			return true
		}
	}
	return false
}
