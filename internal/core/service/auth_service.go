package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/church-connect/admin-api/internal/core/domain"
	"github.com/church-connect/admin-api/internal/core/ports"
)

// AuthService implements login against the identity provider and resolves the
// role the new credential will carry.
type AuthService struct {
	provider ports.IdentityProvider
	roles    ports.RoleRepository
	log      zerolog.Logger
}

func NewAuthService(provider ports.IdentityProvider, roles ports.RoleRepository, log zerolog.Logger) *AuthService {
	return &AuthService{provider: provider, roles: roles, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.CallerIdentity, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredential
	}

	token, account, err := s.provider.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) || errors.Is(err, domain.ErrAccountNotFound) {
			// Unknown email and wrong password are indistinguishable to the
			// caller.
			return "", nil, domain.ErrInvalidCredential
		}
		return "", nil, fmt.Errorf("authenticate: %w", err)
	}

	identity := &domain.CallerIdentity{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      domain.RoleUnknown,
	}
	if record, err := s.roles.Find(ctx, account.ID); err == nil {
		identity.Role = record.Role
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return "", nil, fmt.Errorf("resolve role: %w", err)
	}

	s.log.Info().
		Str("account_id", identity.AccountID).
		Str("role", string(identity.Role)).
		Msg("login")

	return token, identity, nil
}
