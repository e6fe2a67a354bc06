package ports

import (
	"context"

	"github.com/church-connect/admin-api/internal/core/domain"
)

// GuardService resolves a request's Authorization header into a
// CallerIdentity and decides whether a privileged operation may proceed.
type GuardService interface {
	// Authorize resolves the identity behind "Bearer <credential>". With
	// requireAdmin set, a resolved identity whose role is not Admin is
	// rejected with domain.ErrPermissionDenied.
	Authorize(ctx context.Context, authorizationHeader string, requireAdmin bool) (*domain.CallerIdentity, error)
}
