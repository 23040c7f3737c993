package caching

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is an in-memory memoization table with an optional TTL. It is owned
// by whoever creates it; there is no package-level instance.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewCache creates a Cache. A ttl of zero means entries never expire.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// Key joins parts and hashes them so callers can build keys from arbitrary
// strings (dataset fingerprints, options).
func Key(parts ...string) string {
	return ContentHash([]byte(strings.Join(parts, "\x00")))
}

// Get returns the stored value when present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false // Cache miss
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false // Cache miss (expired)
	}
	return e.value, true
}

// Set stores value under key.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
}

// GetOrCompute returns the cached value for key or computes and stores it.
// A nil Cache always computes.
func (c *Cache) GetOrCompute(key string, compute func() any) any {
	if c == nil {
		return compute()
	}
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.Set(key, v)
	return v
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
