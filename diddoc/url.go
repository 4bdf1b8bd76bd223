// Package diddoc models DID documents and their verification methods: the
// read-only view the credential validator resolves signing keys from.
package diddoc

import (
	"fmt"
	"strings"
)

// DIDUrl is a DID with an optional fragment, as used to name verification
// methods (did:example:123#key-1).
type DIDUrl struct {
	DID      string
	Fragment string
}

// ParseDIDUrl splits a DID URL into its DID and fragment parts.
func ParseDIDUrl(raw string) (DIDUrl, error) {
	if raw == "" {
		return DIDUrl{}, fmt.Errorf("DID URL is empty")
	}

	did, fragment, _ := strings.Cut(raw, "#")
	if did != "" && !strings.HasPrefix(did, "did:") {
		return DIDUrl{}, fmt.Errorf("invalid DID URL %q: must start with 'did:'", raw)
	}

	return DIDUrl{DID: did, Fragment: fragment}, nil
}

// String renders the DID URL back to its textual form.
func (u DIDUrl) String() string {
	if u.Fragment == "" {
		return u.DID
	}
	return u.DID + "#" + u.Fragment
}

// IsRelative reports whether the URL is a bare fragment reference.
func (u DIDUrl) IsRelative() bool {
	return u.DID == ""
}

// Matches reports whether the URL names the given method id, treating a bare
// fragment as relative to the id's DID.
func (u DIDUrl) Matches(methodID string) bool {
	if u.IsRelative() {
		_, fragment, ok := strings.Cut(methodID, "#")
		return ok && fragment == u.Fragment
	}
	return u.String() == methodID
}
