package ports

import (
	"context"

	"github.com/church-connect/admin-api/internal/core/domain"
)

// AuthService exchanges an email/password pair for a bearer credential.
type AuthService interface {
	// Login returns a signed credential and the identity it resolves to.
	// The role comes from the role store; an account without a role record
	// logs in with role Unknown and can reach nothing privileged.
	Login(ctx context.Context, email, password string) (string, *domain.CallerIdentity, error)
}
