/*
cache.go - Write-through caching wrapper for the account store

PURPOSE:
  Account reads dominate the write path (every operation resolves its
  account), so the Service fronts the account store with an in-process
  mirror. The backing store stays the single source of truth: writes always
  reach it first, and a delete only evicts the cache entry if the backing
  delete reported success.

PRIMING:
  The mirror is populated lazily by one full scan of the backing store on
  first use. Priming runs under the cache mutex, so concurrent first reads
  prime exactly once. Clear resets the primed flag; the next access scans
  again.

SEE ALSO:
  - store.go: The AccountStore contract this wrapper implements
  - store/memory.go: The usual backing implementation
*/
package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// CachedAccountStore wraps an AccountStore with a lazily primed mirror.
// Implements AccountStore.
type CachedAccountStore struct {
	backing AccountStore

	mu     sync.RWMutex
	cache  map[uuid.UUID]Account
	primed bool
}

func NewCachedAccountStore(backing AccountStore) *CachedAccountStore {
	return &CachedAccountStore{
		backing: backing,
		cache:   make(map[uuid.UUID]Account),
	}
}

// primeLocked scans the backing store into the cache if it has not been done
// since construction or the last Clear. Caller must hold the write lock.
func (c *CachedAccountStore) primeLocked(ctx context.Context) error {
	if c.primed {
		return nil
	}
	accounts, err := c.backing.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		c.cache[account.ID] = account
	}
	c.primed = true
	return nil
}

// Save writes through: backing store first, then the cache entry.
func (c *CachedAccountStore) Save(ctx context.Context, account Account) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.primeLocked(ctx); err != nil {
		return err
	}
	if err := c.backing.Save(ctx, account); err != nil {
		return err
	}
	c.cache[account.ID] = account
	return nil
}

// FindByID is served entirely from the cache once primed.
func (c *CachedAccountStore) FindByID(ctx context.Context, id uuid.UUID) (Account, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.primeLocked(ctx); err != nil {
		return Account{}, false, err
	}
	account, ok := c.cache[id]
	return account, ok, nil
}

// FindAll is served entirely from the cache once primed.
func (c *CachedAccountStore) FindAll(ctx context.Context) ([]Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.primeLocked(ctx); err != nil {
		return nil, err
	}
	result := make([]Account, 0, len(c.cache))
	for _, account := range c.cache {
		result = append(result, account)
	}
	return result, nil
}

// DeleteByID deletes from the backing store first and only evicts the cache
// entry if the backing delete reported success. A failed delete must not
// diverge the cache from the store.
func (c *CachedAccountStore) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.primeLocked(ctx); err != nil {
		return false, err
	}
	deleted, err := c.backing.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		delete(c.cache, id)
	}
	return deleted, nil
}

// Clear empties both the backing store and the cache, and resets the primed
// flag so the next access scans again.
func (c *CachedAccountStore) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.backing.Clear(ctx); err != nil {
		return err
	}
	c.cache = make(map[uuid.UUID]Account)
	c.primed = false
	return nil
}

// Primed reports whether the cache has been populated. Exposed for tests.
func (c *CachedAccountStore) Primed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.primed
}
