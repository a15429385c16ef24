package marketdesk

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/marketdesk/model"
)

// AccountCache is an in-memory cache of the account list with TTL.
type AccountCache struct {
	mu       sync.RWMutex
	accounts []model.Account
	fetched  time.Time
	ttl      time.Duration
	store    Store
}

// NewAccountCache creates an AccountCache backed by the given Store.
func NewAccountCache(s Store, ttl time.Duration) *AccountCache {
	return &AccountCache{store: s, ttl: ttl}
}

func (c *AccountCache) valid() bool {
	return c.accounts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *AccountCache) Invalidate() {
	c.mu.Lock()
	c.accounts = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached accounts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *AccountCache) ensureLoaded(ctx context.Context) ([]model.Account, error) {
	c.mu.RLock()
	if c.valid() {
		accounts := c.accounts
		c.mu.RUnlock()
		return accounts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.accounts, nil
	}
	accounts, err := c.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	c.accounts = accounts
	c.fetched = time.Now()
	return accounts, nil
}

// List returns every account, newest first. The slice is shared; callers must
// not modify it.
func (c *AccountCache) List(ctx context.Context) ([]model.Account, error) {
	return c.ensureLoaded(ctx)
}

// Get returns one account, from the cache when it is fresh.
func (c *AccountCache) Get(ctx context.Context, id string) (model.Account, error) {
	accounts, err := c.ensureLoaded(ctx)
	if err != nil {
		return model.Account{}, err
	}
	for _, a := range accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Account{}, ErrNotFound
}
