package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/church-connect/admin-api/internal/core/domain"
	"github.com/church-connect/admin-api/internal/infrastructure/identity"
)

func newLoginFixture(t *testing.T) (*AuthService, *stubRoleRepo, string) {
	t.Helper()
	store := newMemCredentialStore()
	provider := identity.NewProvider(store, "login-secret", time.Hour)
	roles := newStubRoleRepo()

	account, err := provider.CreateAccount(context.Background(), "carol@church.org", "s3cret6")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return NewAuthService(provider, roles, zerolog.Nop()), roles, account.ID
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, roles, accountID := newLoginFixture(t)
	roles.records[accountID] = &domain.RoleRecord{AccountID: accountID, Email: "carol@church.org", Role: domain.RoleAdmin}

	token, resolved, err := svc.Login(context.Background(), "carol@church.org", "s3cret6")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if resolved.AccountID != accountID || resolved.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", resolved)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _ := newLoginFixture(t)

	if _, _, err := svc.Login(context.Background(), "carol@church.org", "wrong"); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailIndistinguishable(t *testing.T) {
	svc, _, _ := newLoginFixture(t)

	if _, _, err := svc.Login(context.Background(), "nobody@church.org", "s3cret6"); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestAuthService_Login_MissingRoleRecordIsUnknown(t *testing.T) {
	svc, _, accountID := newLoginFixture(t)

	_, resolved, err := svc.Login(context.Background(), "carol@church.org", "s3cret6")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resolved.AccountID != accountID || resolved.Role != domain.RoleUnknown {
		t.Fatalf("expected role Unknown, got %+v", resolved)
	}
}
