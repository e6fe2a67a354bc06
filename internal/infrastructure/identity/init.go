package identity

import (
	"context"
	"sync"
	"time"
)

var (
	once        sync.Once
	handle      *Provider
	initErr     error
	initialized bool
)

// Init builds the process-wide provider handle exactly once and ensures the
// credential collection's indexes exist. Concurrent first calls are safe —
// only one performs the initialization, the rest observe its result
// (single-assignment guard via sync.Once).
func Init(ctx context.Context, store CredentialStore, jwtSecret string, tokenTTL time.Duration) (*Provider, error) {
	once.Do(func() {
		if err := store.EnsureIndexes(ctx); err != nil {
			initErr = err
			return
		}
		handle = NewProvider(store, jwtSecret, tokenTTL)
		initialized = true
	})
	return handle, initErr
}

// Get returns the provider handle. Panics if Init has not completed
// successfully — a misordered startup, not a runtime condition.
func Get() *Provider {
	if !initialized {
		panic("identity: Get() called before Init()")
	}
	return handle
}

// Reset tears down the handle so the next Init call rebuilds it.
// Intended for use in tests only.
func Reset() {
	once = sync.Once{}
	handle = nil
	initErr = nil
	initialized = false
}
