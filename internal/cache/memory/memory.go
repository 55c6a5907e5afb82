// Package memory holds in-process caches backed by go-cache.
package memory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dtroode/approver/internal/model"
)

const cleanupInterval = time.Minute

var _ model.AccountDirectory = (*AccountCache)(nil)

// AccountCache caches account lookups of another directory. Misses are
// cached too so unknown users do not hit the store on every request.
type AccountCache struct {
	next model.AccountDirectory
	c    *gocache.Cache
}

type accountEntry struct {
	account model.Account
	found   bool
}

// NewAccountCache wraps next with a cache whose entries live for ttl.
func NewAccountCache(next model.AccountDirectory, ttl time.Duration) *AccountCache {
	return &AccountCache{next: next, c: gocache.New(ttl, cleanupInterval)}
}

// LookupAccount returns the cached account or asks the wrapped directory.
func (a *AccountCache) LookupAccount(ctx context.Context, userID string) (model.Account, error) {
	if v, ok := a.c.Get(userID); ok {
		e := v.(accountEntry)
		if !e.found {
			return model.Account{}, model.ErrNotFound
		}
		return e.account, nil
	}

	account, err := a.next.LookupAccount(ctx, userID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		a.c.SetDefault(userID, accountEntry{})
		return model.Account{}, err
	case err != nil:
		return model.Account{}, err
	}

	a.c.SetDefault(userID, accountEntry{account: account, found: true})
	return account, nil
}

// Invalidate drops the cached entry of userID.
func (a *AccountCache) Invalidate(userID string) {
	a.c.Delete(userID)
}

// SeenSet remembers keys for a limited time.
type SeenSet struct {
	c *gocache.Cache
}

// NewSeenSet creates a SeenSet whose keys expire after defaultTTL unless
// a TTL is given when marking them.
func NewSeenSet(defaultTTL time.Duration) *SeenSet {
	return &SeenSet{c: gocache.New(defaultTTL, cleanupInterval)}
}

// MarkIfNew records key and reports whether it was not already present.
// A non-positive ttl uses the default.
func (s *SeenSet) MarkIfNew(key string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	return s.c.Add(key, struct{}{}, ttl) == nil
}

// Seen reports whether key is present.
func (s *SeenSet) Seen(key string) bool {
	_, ok := s.c.Get(key)
	return ok
}
