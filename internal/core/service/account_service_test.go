package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/church-connect/admin-api/internal/core/domain"
	"github.com/church-connect/admin-api/internal/core/ports"
)

// fakeProvider is a stateful in-memory identity provider for service tests.
type fakeProvider struct {
	accounts  map[string]*domain.Account
	nextID    int
	createErr error
	deleteErr error
	calls     []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{accounts: make(map[string]*domain.Account)}
}

func (p *fakeProvider) add(email string, createdAt time.Time) string {
	p.nextID++
	id := fmt.Sprintf("acct-%d", p.nextID)
	p.accounts[id] = &domain.Account{ID: id, Email: email, CreatedAt: createdAt}
	return id
}

func (p *fakeProvider) Authenticate(_ context.Context, _, _ string) (string, *domain.Account, error) {
	return "", nil, errors.New("not implemented")
}

func (p *fakeProvider) VerifyCredential(_ context.Context, _ string) (string, error) {
	return "", errors.New("not implemented")
}

func (p *fakeProvider) CreateAccount(_ context.Context, email, _ string) (*domain.Account, error) {
	p.calls = append(p.calls, "create")
	if p.createErr != nil {
		return nil, p.createErr
	}
	for _, a := range p.accounts {
		if a.Email == email {
			return nil, domain.ErrEmailExists
		}
	}
	id := p.add(email, time.Now().UTC())
	clone := *p.accounts[id]
	return &clone, nil
}

func (p *fakeProvider) UpdatePassword(_ context.Context, accountID, _ string) error {
	p.calls = append(p.calls, "update_password")
	if _, ok := p.accounts[accountID]; !ok {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (p *fakeProvider) DeleteAccount(_ context.Context, accountID string) error {
	p.calls = append(p.calls, "delete")
	if p.deleteErr != nil {
		return p.deleteErr
	}
	// Absent accounts delete successfully.
	delete(p.accounts, accountID)
	return nil
}

func (p *fakeProvider) ListAccounts(_ context.Context) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(p.accounts))
	for _, a := range p.accounts {
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func adminCaller() domain.CallerIdentity {
	return domain.CallerIdentity{AccountID: "admin-1", Email: "admin@church.org", Role: domain.RoleAdmin}
}

func receptionCaller() domain.CallerIdentity {
	return domain.CallerIdentity{AccountID: "rec-1", Email: "rec@church.org", Role: domain.RoleReception}
}

func newAccountService(provider *fakeProvider, roles *stubRoleRepo, revocation *stubRevocation) *AccountService {
	return NewAccountService(provider, roles, revocation, zerolog.Nop())
}

func TestAccountService_Create_Success(t *testing.T) {
	provider := newFakeProvider()
	roles := newStubRoleRepo()
	svc := newAccountService(provider, roles, newStubRevocation())

	summary, err := svc.Create(context.Background(), adminCaller(), ports.CreateAccountInput{
		Email:    "maria@church.org",
		Password: "s3cret6",
		Role:     domain.RoleReception,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if summary.Email != "maria@church.org" || summary.Role != domain.RoleReception {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	record, ok := roles.records[summary.ID]
	if !ok {
		t.Fatalf("role record not written")
	}
	if record.Role != domain.RoleReception {
		t.Fatalf("unexpected role record: %+v", record)
	}
}

func TestAccountService_Create_NonAdminDenied(t *testing.T) {
	provider := newFakeProvider()
	roles := newStubRoleRepo()
	svc := newAccountService(provider, roles, newStubRevocation())

	_, err := svc.Create(context.Background(), receptionCaller(), ports.CreateAccountInput{
		Email:    "x@church.org",
		Password: "s3cret6",
		Role:     domain.RoleReception,
	})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if len(provider.calls) != 0 {
		t.Fatalf("provider touched on denied request: %v", provider.calls)
	}
	if len(roles.records) != 0 {
		t.Fatalf("role store mutated on denied request")
	}
}

func TestAccountService_Create_ShortPasswordRejectedBeforeProviderCall(t *testing.T) {
	provider := newFakeProvider()
	svc := newAccountService(provider, newStubRoleRepo(), newStubRevocation())

	_, err := svc.Create(context.Background(), adminCaller(), ports.CreateAccountInput{
		Email:    "x@church.org",
		Password: "12345",
		Role:     domain.RoleReception,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(provider.calls) != 0 {
		t.Fatalf("provider called despite invalid input: %v", provider.calls)
	}
}

func TestAccountService_Create_InvalidInputs(t *testing.T) {
	svc := newAccountService(newFakeProvider(), newStubRoleRepo(), newStubRevocation())

	cases := []ports.CreateAccountInput{
		{Email: "not-an-email", Password: "s3cret6", Role: domain.RoleReception},
		{Email: "x@church.org", Password: "s3cret6", Role: domain.RoleUnknown},
		{Email: "x@church.org", Password: "s3cret6", Role: domain.Role("Pastor")},
	}
	for _, input := range cases {
		if _, err := svc.Create(context.Background(), adminCaller(), input); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestAccountService_Create_DuplicateEmail(t *testing.T) {
	provider := newFakeProvider()
	provider.add("maria@church.org", time.Now().UTC())
	roles := newStubRoleRepo()
	svc := newAccountService(provider, roles, newStubRevocation())

	_, err := svc.Create(context.Background(), adminCaller(), ports.CreateAccountInput{
		Email:    "maria@church.org",
		Password: "s3cret6",
		Role:     domain.RoleReception,
	})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if len(roles.records) != 0 {
		t.Fatalf("role record created for duplicate email")
	}
}

func TestAccountService_Create_RoleWriteFailureLeavesOrphan(t *testing.T) {
	provider := newFakeProvider()
	roles := newStubRoleRepo()
	roles.saveErr = errors.New("role store down")
	svc := newAccountService(provider, roles, newStubRevocation())

	_, err := svc.Create(context.Background(), adminCaller(), ports.CreateAccountInput{
		Email:    "maria@church.org",
		Password: "s3cret6",
		Role:     domain.RoleReception,
	})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	// The account survives without a role: the documented inconsistency
	// window, visible through the reconciliation listing.
	if len(provider.accounts) != 1 {
		t.Fatalf("expected orphaned account to remain, got %d accounts", len(provider.accounts))
	}
}

func TestAccountService_Delete_SelfDeletionForbidden(t *testing.T) {
	provider := newFakeProvider()
	caller := adminCaller()
	provider.accounts[caller.AccountID] = &domain.Account{ID: caller.AccountID, Email: caller.Email}
	roles := newStubRoleRepo()
	roles.records[caller.AccountID] = &domain.RoleRecord{AccountID: caller.AccountID, Role: domain.RoleAdmin}
	svc := newAccountService(provider, roles, newStubRevocation())

	if err := svc.Delete(context.Background(), caller, caller.AccountID); !errors.Is(err, domain.ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
	if _, ok := roles.records[caller.AccountID]; !ok {
		t.Fatalf("role record removed on rejected self-deletion")
	}
	if len(provider.calls) != 0 {
		t.Fatalf("provider touched on rejected self-deletion: %v", provider.calls)
	}
}

func TestAccountService_Delete_Idempotent(t *testing.T) {
	provider := newFakeProvider()
	targetID := provider.add("old@church.org", time.Now().UTC())
	roles := newStubRoleRepo()
	roles.records[targetID] = &domain.RoleRecord{AccountID: targetID, Role: domain.RoleReception}
	revocation := newStubRevocation()
	svc := newAccountService(provider, roles, revocation)

	if err := svc.Delete(context.Background(), adminCaller(), targetID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if _, ok := roles.records[targetID]; ok {
		t.Fatalf("role record still present after delete")
	}
	if !revocation.revoked[targetID] {
		t.Fatalf("credentials not revoked after delete")
	}

	// Second delete of the same target also succeeds.
	if err := svc.Delete(context.Background(), adminCaller(), targetID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if _, ok := roles.records[targetID]; ok {
		t.Fatalf("role record reappeared")
	}
}

func TestAccountService_Delete_NonAdminDenied(t *testing.T) {
	provider := newFakeProvider()
	targetID := provider.add("old@church.org", time.Now().UTC())
	svc := newAccountService(provider, newStubRoleRepo(), newStubRevocation())

	if err := svc.Delete(context.Background(), receptionCaller(), targetID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, ok := provider.accounts[targetID]; !ok {
		t.Fatalf("account deleted by non-admin")
	}
}

func TestAccountService_ChangePassword_TargetNotFound(t *testing.T) {
	svc := newAccountService(newFakeProvider(), newStubRoleRepo(), newStubRevocation())

	err := svc.ChangePassword(context.Background(), adminCaller(), "no-such-id", "n3wpass")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_ChangePassword_Validation(t *testing.T) {
	provider := newFakeProvider()
	targetID := provider.add("maria@church.org", time.Now().UTC())
	svc := newAccountService(provider, newStubRoleRepo(), newStubRevocation())

	if err := svc.ChangePassword(context.Background(), adminCaller(), targetID, "short"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(provider.calls) != 0 {
		t.Fatalf("provider called despite weak password: %v", provider.calls)
	}

	if err := svc.ChangePassword(context.Background(), receptionCaller(), targetID, "n3wpass"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestAccountService_ChangePassword_AdminOwnAccountAllowed(t *testing.T) {
	provider := newFakeProvider()
	caller := adminCaller()
	provider.accounts[caller.AccountID] = &domain.Account{ID: caller.AccountID, Email: caller.Email}
	svc := newAccountService(provider, newStubRoleRepo(), newStubRevocation())

	if err := svc.ChangePassword(context.Background(), caller, caller.AccountID, "n3wpass"); err != nil {
		t.Fatalf("admin changing own password failed: %v", err)
	}
}

func TestAccountService_List_OrderingAndUnknownRole(t *testing.T) {
	provider := newFakeProvider()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := provider.add("oldest@church.org", base)
	newest := provider.add("newest@church.org", base.Add(48*time.Hour))
	orphan := provider.add("orphan@church.org", base.Add(24*time.Hour))

	roles := newStubRoleRepo()
	roles.records[oldest] = &domain.RoleRecord{AccountID: oldest, Email: "oldest@church.org", Role: domain.RoleAdmin, CreatedAt: base}
	roles.records[newest] = &domain.RoleRecord{AccountID: newest, Email: "newest@church.org", Role: domain.RoleReception, CreatedAt: base.Add(48 * time.Hour)}
	// No record for orphan.

	svc := newAccountService(provider, roles, newStubRevocation())

	out, err := svc.List(context.Background(), adminCaller())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(out))
	}
	if out[0].ID != newest || out[1].ID != orphan || out[2].ID != oldest {
		t.Fatalf("unexpected order: %s %s %s", out[0].ID, out[1].ID, out[2].ID)
	}
	if out[1].Role != domain.RoleUnknown {
		t.Fatalf("expected orphan role Unknown, got %s", out[1].Role)
	}
	if out[0].Role != domain.RoleReception || out[2].Role != domain.RoleAdmin {
		t.Fatalf("roles not preserved: %+v", out)
	}
}

func TestAccountService_List_NonAdminDenied(t *testing.T) {
	svc := newAccountService(newFakeProvider(), newStubRoleRepo(), newStubRevocation())

	if _, err := svc.List(context.Background(), receptionCaller()); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
