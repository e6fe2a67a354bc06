package ports

import (
	"context"

	"github.com/church-connect/admin-api/internal/core/domain"
)

// CreateAccountInput carries the validated fields for a new staff account.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// AccountService implements the four role-gated account-management
// operations. Every method takes the already-resolved caller so that
// authorization happens exactly once, before any mutation.
type AccountService interface {
	Create(ctx context.Context, caller domain.CallerIdentity, input CreateAccountInput) (*domain.AccountSummary, error)
	ChangePassword(ctx context.Context, caller domain.CallerIdentity, targetID, password string) error
	Delete(ctx context.Context, caller domain.CallerIdentity, targetID string) error
	List(ctx context.Context, caller domain.CallerIdentity) ([]*domain.AccountSummary, error)
}
