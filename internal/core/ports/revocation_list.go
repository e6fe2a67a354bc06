package ports

import "context"

// RevocationList tracks account identifiers whose outstanding bearer
// credentials must no longer be accepted, for example after the account is
// deleted. Entries only need to outlive the credential TTL.
type RevocationList interface {
	// Revoke marks every outstanding credential of the account as unusable.
	Revoke(ctx context.Context, accountID string) error

	// IsRevoked reports whether credentials for the account have been revoked.
	IsRevoked(ctx context.Context, accountID string) (bool, error)
}
