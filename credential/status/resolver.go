package status

import (
	"context"
	"fmt"
	"strconv"

	"github.com/attestia/go-identity-sdk/credential"
)

// Resolver fetches the status list a credentialStatus entry points to.
// Client is the HTTP implementation; tests and offline callers can supply
// their own.
type Resolver interface {
	Resolve(ctx context.Context, statusListCredentialURL string) (*StatusList, error)
}

// RevokedError reports that a credential's revocation bit is set. It is
// distinct from resolution failures, which surface as plain errors.
type RevokedError struct {
	StatusListCredential string
	Index                int
}

func (e *RevokedError) Error() string {
	return fmt.Sprintf("credential is revoked at index %d of %s", e.Index, e.StatusListCredential)
}

// CheckRevocation resolves each StatusList2021 revocation entry of the
// credential and checks its bit. It returns a *RevokedError when a bit is
// set, or a plain error when an entry is malformed or resolution fails.
// Entries with other types or purposes are skipped.
func CheckRevocation(ctx context.Context, resolver Resolver, cred *credential.Credential) error {
	for _, entry := range cred.Status {
		if entry.Type != StatusList2021Type || entry.StatusPurpose != PurposeRevocation {
			continue
		}

		index, err := strconv.Atoi(entry.StatusListIndex)
		if err != nil {
			return fmt.Errorf("statusListIndex %q is not an integer: %w", entry.StatusListIndex, err)
		}

		list, err := resolver.Resolve(ctx, entry.StatusListCredential)
		if err != nil {
			return fmt.Errorf("failed to resolve status list %s: %w", entry.StatusListCredential, err)
		}
		if list.Purpose != PurposeRevocation {
			return fmt.Errorf("status list %s has purpose %q, want %q",
				entry.StatusListCredential, list.Purpose, PurposeRevocation)
		}

		revoked, err := list.Bits.Get(index)
		if err != nil {
			return err
		}
		if revoked {
			return &RevokedError{StatusListCredential: entry.StatusListCredential, Index: index}
		}
	}
	return nil
}
