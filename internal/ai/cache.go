package ai

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultCacheTTL = 24 * time.Hour

// Cache stores provider responses keyed by a hash of the prompt so that
// repeated identical requests do not consume provider quota.
type Cache struct {
	store *gocache.Cache
}

// NewCache returns a cache whose entries expire after ttl. A zero ttl uses
// the default of 24 hours.
func NewCache(ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{
		store: gocache.New(ttl, 10*time.Minute),
	}
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for a prompt, if present.
func (c *Cache) Get(prompt string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, found := c.store.Get(cacheKey(prompt))
	if !found {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set stores a response for a prompt with the cache's default expiration.
func (c *Cache) Set(prompt, response string) {
	if c == nil {
		return
	}
	c.store.Set(cacheKey(prompt), response, gocache.DefaultExpiration)
}

// Flush removes all entries.
func (c *Cache) Flush() {
	if c == nil {
		return
	}
	c.store.Flush()
}
