package domain

import "time"

// Role is the closed set of staff roles. Anything outside the set collapses
// to RoleUnknown, which is never authorized for a privileged operation.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleReception Role = "Reception"
	RoleUnknown   Role = "Unknown"
)

// ParseRole maps a stored or submitted role string onto the closed set.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleReception:
		return RoleReception
	default:
		return RoleUnknown
	}
}

// Account is the authenticatable identity record held by the identity
// provider. The password credential never leaves the provider; only its
// bcrypt hash is stored.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// RoleRecord associates an account with its role in the role store. A missing
// record means the account exists but carries no authorization.
type RoleRecord struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// CallerIdentity is the account + role resolved from a request's bearer
// credential. It is derived fresh on every request and is valid only for the
// request that produced it.
type CallerIdentity struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// IsAdmin reports whether the caller may perform account-management mutations.
func (c CallerIdentity) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// AccountSummary is the merged view of an account and its role record,
// returned by the list operation. Role is RoleUnknown when the role store has
// no record for the account.
type AccountSummary struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}
