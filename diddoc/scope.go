package diddoc

// MethodRelationship names a verification relationship of a DID document.
type MethodRelationship int

const (
	// Authentication methods prove control of the DID.
	Authentication MethodRelationship = iota
	// AssertionMethod methods sign claims such as credentials.
	AssertionMethod
	// KeyAgreement methods establish shared secrets.
	KeyAgreement
	// CapabilityInvocation methods invoke capabilities.
	CapabilityInvocation
	// CapabilityDelegation methods delegate capabilities.
	CapabilityDelegation
)

// String returns the relationship's document property name.
func (r MethodRelationship) String() string {
	switch r {
	case Authentication:
		return "authentication"
	case AssertionMethod:
		return "assertionMethod"
	case KeyAgreement:
		return "keyAgreement"
	case CapabilityInvocation:
		return "capabilityInvocation"
	case CapabilityDelegation:
		return "capabilityDelegation"
	default:
		return "unknown"
	}
}

// MethodScope restricts method lookup to the whole verificationMethod set or
// to one verification relationship.
type MethodScope struct {
	relationship *MethodRelationship
}

// ScopeVerificationMethod matches any method listed in the document.
func ScopeVerificationMethod() MethodScope {
	return MethodScope{}
}

// ScopeRelationship matches only methods referenced by the given
// relationship.
func ScopeRelationship(r MethodRelationship) MethodScope {
	return MethodScope{relationship: &r}
}

// Relationship returns the scoped relationship, if any.
func (s MethodScope) Relationship() (MethodRelationship, bool) {
	if s.relationship == nil {
		return 0, false
	}
	return *s.relationship, true
}
