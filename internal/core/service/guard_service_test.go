package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/church-connect/admin-api/internal/core/domain"
)

type stubProvider struct {
	verifyFn func(credential string) (string, error)
}

func (p *stubProvider) Authenticate(_ context.Context, _, _ string) (string, *domain.Account, error) {
	return "", nil, errors.New("not implemented")
}

func (p *stubProvider) VerifyCredential(_ context.Context, credential string) (string, error) {
	return p.verifyFn(credential)
}

func (p *stubProvider) CreateAccount(_ context.Context, _, _ string) (*domain.Account, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProvider) UpdatePassword(_ context.Context, _, _ string) error {
	return errors.New("not implemented")
}

func (p *stubProvider) DeleteAccount(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

func (p *stubProvider) ListAccounts(_ context.Context) ([]*domain.Account, error) {
	return nil, errors.New("not implemented")
}

type stubRoleRepo struct {
	records map[string]*domain.RoleRecord
	findErr error
	saveErr error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{records: make(map[string]*domain.RoleRecord)}
}

func (r *stubRoleRepo) Find(_ context.Context, accountID string) (*domain.RoleRecord, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	record, ok := r.records[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *record
	return &clone, nil
}

func (r *stubRoleRepo) Save(_ context.Context, record *domain.RoleRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	clone := *record
	r.records[record.AccountID] = &clone
	return nil
}

func (r *stubRoleRepo) Delete(_ context.Context, accountID string) error {
	delete(r.records, accountID)
	return nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.RoleRecord, error) {
	out := make([]*domain.RoleRecord, 0, len(r.records))
	for _, record := range r.records {
		clone := *record
		out = append(out, &clone)
	}
	return out, nil
}

type stubRevocation struct {
	revoked  map[string]bool
	checkErr error
}

func newStubRevocation() *stubRevocation {
	return &stubRevocation{revoked: make(map[string]bool)}
}

func (l *stubRevocation) Revoke(_ context.Context, accountID string) error {
	l.revoked[accountID] = true
	return nil
}

func (l *stubRevocation) IsRevoked(_ context.Context, accountID string) (bool, error) {
	if l.checkErr != nil {
		return false, l.checkErr
	}
	return l.revoked[accountID], nil
}

func newGuard(provider *stubProvider, roles *stubRoleRepo, revocation *stubRevocation) *GuardService {
	return NewGuardService(provider, roles, revocation, zerolog.Nop())
}

func okProvider(accountID string) *stubProvider {
	return &stubProvider{verifyFn: func(credential string) (string, error) {
		if credential == "good-token" {
			return accountID, nil
		}
		return "", domain.ErrInvalidCredential
	}}
}

func TestGuard_MissingCredential(t *testing.T) {
	guard := newGuard(okProvider("u1"), newStubRoleRepo(), newStubRevocation())

	for _, header := range []string{"", "Bearer", "Bearer ", "Token abc", "good-token"} {
		if _, err := guard.Authorize(context.Background(), header, true); !errors.Is(err, domain.ErrMissingCredential) {
			t.Fatalf("header %q: expected ErrMissingCredential, got %v", header, err)
		}
	}
}

func TestGuard_InvalidCredential(t *testing.T) {
	guard := newGuard(okProvider("u1"), newStubRoleRepo(), newStubRevocation())

	if _, err := guard.Authorize(context.Background(), "Bearer bad-token", true); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestGuard_AdminAllowed(t *testing.T) {
	roles := newStubRoleRepo()
	roles.records["u1"] = &domain.RoleRecord{AccountID: "u1", Email: "a@church.org", Role: domain.RoleAdmin}
	guard := newGuard(okProvider("u1"), roles, newStubRevocation())

	identity, err := guard.Authorize(context.Background(), "Bearer good-token", true)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if identity.AccountID != "u1" || identity.Role != domain.RoleAdmin || identity.Email != "a@church.org" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestGuard_NonAdminDenied(t *testing.T) {
	roles := newStubRoleRepo()
	roles.records["u2"] = &domain.RoleRecord{AccountID: "u2", Role: domain.RoleReception}
	guard := newGuard(okProvider("u2"), roles, newStubRevocation())

	if _, err := guard.Authorize(context.Background(), "Bearer good-token", true); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestGuard_NonAdminAllowedInAnyMode(t *testing.T) {
	roles := newStubRoleRepo()
	roles.records["u2"] = &domain.RoleRecord{AccountID: "u2", Role: domain.RoleReception}
	guard := newGuard(okProvider("u2"), roles, newStubRevocation())

	identity, err := guard.Authorize(context.Background(), "Bearer good-token", false)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if identity.Role != domain.RoleReception {
		t.Fatalf("unexpected role: %s", identity.Role)
	}
}

func TestGuard_MissingRoleRecordIsUnknown(t *testing.T) {
	guard := newGuard(okProvider("u3"), newStubRoleRepo(), newStubRevocation())

	// Admin mode: Unknown is never privileged.
	if _, err := guard.Authorize(context.Background(), "Bearer good-token", true); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	// Any-authenticated mode: the identity resolves with role Unknown.
	identity, err := guard.Authorize(context.Background(), "Bearer good-token", false)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if identity.Role != domain.RoleUnknown {
		t.Fatalf("expected role Unknown, got %s", identity.Role)
	}
}

func TestGuard_RevokedCredentialRejected(t *testing.T) {
	roles := newStubRoleRepo()
	roles.records["u1"] = &domain.RoleRecord{AccountID: "u1", Role: domain.RoleAdmin}
	revocation := newStubRevocation()
	revocation.revoked["u1"] = true
	guard := newGuard(okProvider("u1"), roles, revocation)

	if _, err := guard.Authorize(context.Background(), "Bearer good-token", true); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for revoked account, got %v", err)
	}
}

func TestGuard_RevocationCheckFailureFailsClosed(t *testing.T) {
	roles := newStubRoleRepo()
	roles.records["u1"] = &domain.RoleRecord{AccountID: "u1", Role: domain.RoleAdmin}
	revocation := newStubRevocation()
	revocation.checkErr = errors.New("redis down")
	guard := newGuard(okProvider("u1"), roles, revocation)

	if _, err := guard.Authorize(context.Background(), "Bearer good-token", true); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential when revocation store is down, got %v", err)
	}
}
