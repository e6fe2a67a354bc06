package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"

	"github.com/rs/zerolog"

	"github.com/church-connect/admin-api/internal/api/metrics"
	"github.com/church-connect/admin-api/internal/core/domain"
	"github.com/church-connect/admin-api/internal/core/ports"
)

const minPasswordLength = 6

// AccountService implements the role-gated account-management operations over
// the identity provider and the role store. The two stores are independent
// and never mutated transactionally; each operation orders its writes so a
// half-finished run fails closed (see Delete) or leaves an unprivileged
// orphan (see Create).
type AccountService struct {
	provider   ports.IdentityProvider
	roles      ports.RoleRepository
	revocation ports.RevocationList
	log        zerolog.Logger
}

func NewAccountService(
	provider ports.IdentityProvider,
	roles ports.RoleRepository,
	revocation ports.RevocationList,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		provider:   provider,
		roles:      roles,
		revocation: revocation,
		log:        log,
	}
}

// Create registers a new staff account and writes its role record. Validation
// happens before the provider is touched, so a rejected request creates
// nothing. If the role-record write fails after the account was created, the
// account survives with role Unknown; this is reported upstream and left for
// the reconciliation listing rather than rolled back.
func (s *AccountService) Create(ctx context.Context, caller domain.CallerIdentity, input ports.CreateAccountInput) (*domain.AccountSummary, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	account, err := s.provider.CreateAccount(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	record := &domain.RoleRecord{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      input.Role,
		CreatedAt: account.CreatedAt,
	}
	if err := s.roles.Save(ctx, record); err != nil {
		// The account now exists without a role. It cannot authorize
		// anything, but it occupies the email until reconciled.
		s.log.Error().Err(err).
			Str("account_id", account.ID).
			Str("email", account.Email).
			Msg("role record write failed after account creation, orphan left for reconciliation")
		metrics.AccountOrphansTotal.Inc()
		return nil, fmt.Errorf("save role record: %w: %w", domain.ErrUpstream, err)
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("role", string(input.Role)).
		Str("created_by", caller.AccountID).
		Msg("account created")
	metrics.AccountOperationsTotal.WithLabelValues("create", "ok").Inc()

	return &domain.AccountSummary{
		ID:        account.ID,
		Email:     account.Email,
		Role:      input.Role,
		CreatedAt: account.CreatedAt,
	}, nil
}

// ChangePassword replaces the target account's password credential. Admins
// may change any password, including their own. The role store is not
// involved.
func (s *AccountService) ChangePassword(ctx context.Context, caller domain.CallerIdentity, targetID, password string) error {
	if !caller.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if targetID == "" {
		return fmt.Errorf("%w: target account id is required", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	if err := s.provider.UpdatePassword(ctx, targetID, password); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info().
		Str("account_id", targetID).
		Str("changed_by", caller.AccountID).
		Msg("password changed")
	metrics.AccountOperationsTotal.WithLabelValues("change_password", "ok").Inc()
	return nil
}

// Delete removes the target's role record, then its account. The role record
// goes first: if the provider delete fails midway the account is left
// unprivileged rather than privileged and orphaned. The operation is
// idempotent — deleting an already-absent account succeeds silently.
func (s *AccountService) Delete(ctx context.Context, caller domain.CallerIdentity, targetID string) error {
	if !caller.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if targetID == "" {
		return fmt.Errorf("%w: target account id is required", domain.ErrInvalidInput)
	}
	if targetID == caller.AccountID {
		return domain.ErrSelfDeletion
	}

	if err := s.roles.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete role record: %w", err)
	}

	if err := s.provider.DeleteAccount(ctx, targetID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	// Outstanding credentials stay syntactically valid until expiry; revoke
	// them so the deleted account cannot authenticate at all. Best effort:
	// the role record is already gone, so a surviving credential resolves to
	// role Unknown either way.
	if err := s.revocation.Revoke(ctx, targetID); err != nil {
		s.log.Warn().Err(err).Str("account_id", targetID).Msg("credential revocation failed")
	}

	s.log.Info().
		Str("account_id", targetID).
		Str("deleted_by", caller.AccountID).
		Msg("account deleted")
	metrics.AccountOperationsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

// List merges the role store with the provider's account listing. Accounts
// the provider reports without a role record appear with role Unknown — this
// doubles as the reconciliation view for orphans left by failed creates.
// Ordered by creation time descending; ties and zero times fall back to
// email ascending.
func (s *AccountService) List(ctx context.Context, caller domain.CallerIdentity) ([]*domain.AccountSummary, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}

	records, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list role records: %w", err)
	}

	byID := make(map[string]*domain.AccountSummary, len(records))
	for _, r := range records {
		byID[r.AccountID] = &domain.AccountSummary{
			ID:        r.AccountID,
			Email:     r.Email,
			Role:      r.Role,
			CreatedAt: r.CreatedAt,
		}
	}

	// Enrich with provider metadata when available; the listing still works
	// from role records alone if the provider errors.
	accounts, err := s.provider.ListAccounts(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("identity provider listing unavailable, serving role records only")
	} else {
		for _, a := range accounts {
			summary, ok := byID[a.ID]
			if !ok {
				summary = &domain.AccountSummary{ID: a.ID, Role: domain.RoleUnknown}
				byID[a.ID] = summary
			}
			summary.Email = a.Email
			summary.CreatedAt = a.CreatedAt
			if !a.LastLogin.IsZero() {
				last := a.LastLogin
				summary.LastLogin = &last
			}
		}
	}

	out := make([]*domain.AccountSummary, 0, len(byID))
	for _, summary := range byID {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].CreatedAt, out[j].CreatedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

func validateCreateInput(input ports.CreateAccountInput) error {
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return fmt.Errorf("%w: email is not valid", domain.ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	if input.Role != domain.RoleAdmin && input.Role != domain.RoleReception {
		return fmt.Errorf("%w: role must be %s or %s", domain.ErrInvalidInput, domain.RoleAdmin, domain.RoleReception)
	}
	return nil
}
