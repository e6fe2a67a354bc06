// Package identity implements the identity-provider port: account records
// with bcrypt password hashes in MongoDB, bearer credentials as signed HS256
// JWTs. The provider handle is built exactly once per process (see Init);
// everything else in the process talks to it through the port interface.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/church-connect/admin-api/internal/core/domain"
)

// CredentialStore abstracts the account/hash persistence the provider needs.
// The Mongo implementation lives in infrastructure/db/mongo.
type CredentialStore interface {
	EnsureIndexes(ctx context.Context) error
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, accountID string) (*domain.Account, error)
	UpdatePasswordHash(ctx context.Context, accountID, hash string) error
	TouchLastLogin(ctx context.Context, accountID string, at time.Time) error
	Delete(ctx context.Context, accountID string) error
	List(ctx context.Context) ([]*domain.Account, error)
}

// Provider implements ports.IdentityProvider.
type Provider struct {
	store     CredentialStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewProvider builds a provider over the given credential store. Prefer Init
// from process entry points; NewProvider exists for tests and for callers
// that manage their own lifecycle.
func NewProvider(store CredentialStore, jwtSecret string, tokenTTL time.Duration) *Provider {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Provider{store: store, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

// Authenticate verifies an email/password pair and issues a bearer
// credential. The account's last-login timestamp is updated best-effort.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (string, *domain.Account, error) {
	account, err := p.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredential
		}
		return "", nil, fmt.Errorf("find account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredential
	}

	now := time.Now().UTC()
	if err := p.store.TouchLastLogin(ctx, account.ID, now); err == nil {
		account.LastLogin = now
	}

	token, err := p.signCredential(account.ID)
	if err != nil {
		return "", nil, fmt.Errorf("sign credential: %w", err)
	}
	return token, account, nil
}

// VerifyCredential validates the token signature, algorithm, and expiry, and
// returns the subject account identifier.
func (p *Provider) VerifyCredential(_ context.Context, credential string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return p.jwtSecret, nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidCredential
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrInvalidCredential
	}
	return sub, nil
}

func (p *Provider) CreateAccount(ctx context.Context, email, password string) (*domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	return p.store.Insert(ctx, account)
}

func (p *Provider) UpdatePassword(ctx context.Context, accountID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return p.store.UpdatePasswordHash(ctx, accountID, string(hash))
}

// DeleteAccount removes the account. Deleting an already-absent account
// succeeds — concurrent deletes of the same target are both safe.
func (p *Provider) DeleteAccount(ctx context.Context, accountID string) error {
	return p.store.Delete(ctx, accountID)
}

func (p *Provider) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return p.store.List(ctx)
}

func (p *Provider) FindAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return p.store.FindByID(ctx, accountID)
}

func (p *Provider) signCredential(accountID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"exp": now.Add(p.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(p.jwtSecret)
}
