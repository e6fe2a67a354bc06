package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/church-connect/admin-api/internal/core/domain"
	"github.com/church-connect/admin-api/internal/core/ports"
)

// GuardService resolves bearer credentials into a CallerIdentity. The
// identity is computed fresh on every call and never cached: a role change or
// revocation takes effect on the very next request.
type GuardService struct {
	provider   ports.IdentityProvider
	roles      ports.RoleRepository
	revocation ports.RevocationList
	log        zerolog.Logger
}

func NewGuardService(
	provider ports.IdentityProvider,
	roles ports.RoleRepository,
	revocation ports.RevocationList,
	log zerolog.Logger,
) *GuardService {
	return &GuardService{
		provider:   provider,
		roles:      roles,
		revocation: revocation,
		log:        log,
	}
}

// Authorize extracts and verifies the credential from an Authorization
// header, resolves the caller's role, and enforces the admin requirement
// when asked. Verification completes before any caller attempts a mutation.
func (s *GuardService) Authorize(ctx context.Context, authorizationHeader string, requireAdmin bool) (*domain.CallerIdentity, error) {
	credential, err := extractBearer(authorizationHeader)
	if err != nil {
		return nil, err
	}

	accountID, err := s.provider.VerifyCredential(ctx, credential)
	if err != nil {
		return nil, domain.ErrInvalidCredential
	}

	revoked, err := s.revocation.IsRevoked(ctx, accountID)
	if err != nil {
		// Fail closed: without a revocation answer the credential cannot be
		// trusted.
		s.log.Error().Err(err).Str("account_id", accountID).Msg("revocation check failed")
		return nil, domain.ErrInvalidCredential
	}
	if revoked {
		return nil, domain.ErrInvalidCredential
	}

	identity := &domain.CallerIdentity{AccountID: accountID, Role: domain.RoleUnknown}

	record, err := s.roles.Find(ctx, accountID)
	switch {
	case err == nil:
		identity.Role = record.Role
		identity.Email = record.Email
	case errors.Is(err, domain.ErrAccountNotFound):
		// No role record: the account authenticates but holds no privilege.
	default:
		return nil, err
	}

	if requireAdmin && !identity.IsAdmin() {
		s.log.Warn().
			Str("account_id", identity.AccountID).
			Str("role", string(identity.Role)).
			Msg("privileged operation denied")
		return nil, domain.ErrPermissionDenied
	}

	return identity, nil
}

// extractBearer returns the credential following the "Bearer " scheme prefix.
func extractBearer(header string) (string, error) {
	if header == "" {
		return "", domain.ErrMissingCredential
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", domain.ErrMissingCredential
	}
	return parts[1], nil
}
