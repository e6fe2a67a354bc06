package ports

import (
	"context"

	"github.com/church-connect/admin-api/internal/core/domain"
)

// IdentityProvider wraps the external credential service: it stores password
// hashes, issues and verifies bearer credentials, and owns the Account
// records. The core never reads a password credential through this interface.
type IdentityProvider interface {
	// Authenticate checks an email/password pair and returns a signed bearer
	// credential plus the account. Returns domain.ErrInvalidCredential when
	// the pair does not match.
	Authenticate(ctx context.Context, email, password string) (string, *domain.Account, error)

	// VerifyCredential validates a bearer credential and yields the account
	// identifier it was issued for. Returns domain.ErrInvalidCredential for
	// malformed or expired credentials.
	VerifyCredential(ctx context.Context, credential string) (string, error)

	// CreateAccount registers a new account and returns it with its issued
	// identifier. Returns domain.ErrEmailExists on duplicate email.
	CreateAccount(ctx context.Context, email, password string) (*domain.Account, error)

	// UpdatePassword replaces the password credential of an existing account.
	// Returns domain.ErrAccountNotFound when the identifier is unknown.
	UpdatePassword(ctx context.Context, accountID, password string) error

	// DeleteAccount removes an account. Deleting an already-absent account is
	// not an error.
	DeleteAccount(ctx context.Context, accountID string) error

	// ListAccounts returns every account the provider knows about.
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
}
