package cache

import (
	"sync"
	"time"
)

type entry struct {
	b   []byte
	exp time.Time
}

// TTLCache is an in-process BytesCache. Expired entries are dropped
// lazily on read and swept in bulk when the map grows past sweepAt.
type TTLCache struct {
	mu      sync.RWMutex
	m       map[string]entry
	sweepAt int
}

var _ BytesCache = (*TTLCache)(nil)

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry), sweepAt: 4096}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.b, true, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	if len(c.m) >= c.sweepAt {
		c.sweepLocked()
	}
	c.m[key] = entry{b: value, exp: exp}
	c.mu.Unlock()
	return nil
}

func (c *TTLCache) Delete(key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return nil
}

// sweepLocked removes every expired entry. Caller holds the write lock.
func (c *TTLCache) sweepLocked() {
	now := time.Now()
	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
		}
	}
}
