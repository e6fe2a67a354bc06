package ports

import (
	"context"

	"github.com/church-connect/admin-api/internal/core/domain"
)

// RoleRepository is the key-value role store, keyed by account identifier.
type RoleRepository interface {
	// Find returns the role record for an account, or
	// domain.ErrAccountNotFound when no record exists.
	Find(ctx context.Context, accountID string) (*domain.RoleRecord, error)

	// Save creates or replaces the role record for an account.
	Save(ctx context.Context, record *domain.RoleRecord) error

	// Delete removes the role record for an account. Deleting an absent
	// record is not an error.
	Delete(ctx context.Context, accountID string) error

	// List returns all role records.
	List(ctx context.Context) ([]*domain.RoleRecord, error)
}
