package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/municipallabs/corecrm/internal/models"
)

const (
	principalCacheTTL  = 5 * time.Minute
	negativeCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("principal not found (cached)")

type cachedPrincipal struct {
	principal *models.Principal // nil marks a cached lookup failure
	fetchedAt time.Time
}

// ttl returns the appropriate TTL for this entry.
func (cp cachedPrincipal) ttl() time.Duration {
	if cp.principal == nil {
		return negativeCacheTTL
	}
	return principalCacheTTL
}

// hashKey returns a hex-encoded SHA-256 hash of the API key so raw keys
// are never stored in memory.
func hashKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:])
}

// CachedPrincipalLookup wraps a PrincipalLookup with a bounded in-memory
// cache. A cached role change takes up to the TTL to propagate; revoking a
// key entirely still works immediately at the brute-force layer.
type CachedPrincipalLookup struct {
	inner PrincipalLookup
	mu    sync.RWMutex
	cache map[string]cachedPrincipal
}

// NewCachedPrincipalLookup creates a caching wrapper around the given lookup.
// The provided context controls the lifetime of the background eviction goroutine.
func NewCachedPrincipalLookup(ctx context.Context, inner PrincipalLookup) *CachedPrincipalLookup {
	c := &CachedPrincipalLookup{
		inner: inner,
		cache: make(map[string]cachedPrincipal),
	}
	go c.evictLoop(ctx)
	return c
}

// evictLoop periodically removes expired entries from the cache.
func (c *CachedPrincipalLookup) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, v := range c.cache {
				if now.Sub(v.fetchedAt) >= v.ttl() {
					delete(c.cache, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

// GetPrincipalByAPIKey returns a cached principal or delegates to the inner
// lookup. Failed lookups are negatively cached for 30s to prevent
// brute-force DB hammering.
func (c *CachedPrincipalLookup) GetPrincipalByAPIKey(ctx context.Context, apiKey string) (*models.Principal, error) {
	hk := hashKey(apiKey)

	// Read path, RLock for concurrent cache hits.
	c.mu.RLock()
	entry, ok := c.cache[hk]
	if ok && time.Since(entry.fetchedAt) < entry.ttl() {
		c.mu.RUnlock()
		if entry.principal == nil {
			return nil, errCachedNotFound
		}
		p := *entry.principal
		return &p, nil
	}
	c.mu.RUnlock()

	// Cache miss or expired.
	principal, err := c.inner.GetPrincipalByAPIKey(ctx, apiKey)
	if err != nil {
		c.mu.Lock()
		c.cache[hk] = cachedPrincipal{fetchedAt: time.Now()}
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	if len(c.cache) >= maxCacheEntries {
		// Evict expired entries, then trim if still over limit.
		now := time.Now()
		for k, v := range c.cache {
			if now.Sub(v.fetchedAt) >= v.ttl() {
				delete(c.cache, k)
			}
		}
		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}
			delete(c.cache, k)
		}
	}
	stored := *principal
	c.cache[hk] = cachedPrincipal{principal: &stored, fetchedAt: time.Now()}
	c.mu.Unlock()

	return principal, nil
}
