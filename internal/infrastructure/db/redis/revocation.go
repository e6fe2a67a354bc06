package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList marks deleted accounts so their outstanding bearer
// credentials stop working immediately instead of at token expiry.
// Key format: revoked:<account_id>
type RevocationList struct {
	client *redis.Client
	ttl    time.Duration
}

// defaultRevocationTTL should cover the longest credential TTL the identity
// provider issues; an entry only matters while a signed token could still be
// presented.
const defaultRevocationTTL = 48 * time.Hour

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client, ttl: defaultRevocationTTL}
}

// Revoke records that credentials for the account are no longer acceptable.
func (l *RevocationList) Revoke(ctx context.Context, accountID string) error {
	if err := l.client.Set(ctx, l.key(accountID), "1", l.ttl).Err(); err != nil {
		return fmt.Errorf("revoke credentials: %w", err)
	}
	return nil
}

// IsRevoked reports whether the account's credentials have been revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, accountID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(accountID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (l *RevocationList) key(accountID string) string {
	return "revoked:" + accountID
}
