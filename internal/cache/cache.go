// Package cache is the process-scoped key/value store shared by the region
// directory and the price service. Entries carry their own time-to-live, there
// is no size based eviction since the key space is bounded by the region taxonomy.
package cache

import (
	"bbm-backend/internal/assert"
	"bbm-backend/internal/chrono"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	KeySnapshot  = "snapshot"
	KeyProvinces = "provinces"
)

func RegenciesKey(provinceId string) string {
	return "regencies:" + provinceId
}

func DistrictsKey(regencyId string) string {
	return "districts:" + regencyId
}

// ErrUnexpectedType is returned by GetAs when the stored value isn't of the requested type.
var ErrUnexpectedType = errors.New("cache: unexpected value type")

type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Keys      int   `json:"keys"`
	KeySize   int   `json:"ksize"`
	Sets      int64 `json:"sets"`
	Evictions int64 `json:"evictions"`
}

type entry struct {
	value any
	// zero means the entry never expires
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type Cache struct {
	// guards check-then-remove sequences, the store has its own lock for single operations
	mutex sync.RWMutex
	store *expirable.LRU[string, entry]
	time  chrono.TimeAPI

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

func New(time chrono.TimeAPI) *Cache {
	assert.NotNil(time, "time")

	return &Cache{
		// size 0 = unbounded, ttl 0 = the store never expires entries by itself
		store: expirable.NewLRU[string, entry](0, nil, 0),
		time:  time,
	}
}

// Get returns the value stored under key, expired entries count as misses.
func (c *Cache) Get(key string) (any, bool) {
	c.mutex.RLock()
	e, ok := c.store.Peek(key)
	c.mutex.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	if e.expired(c.time.Now()) {
		c.removeIfExpired(key)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.value, true
}

func (c *Cache) removeIfExpired(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// re-check, the key may have been replaced since the read
	e, ok := c.store.Peek(key)
	if ok && e.expired(c.time.Now()) {
		c.store.Remove(key)
		c.evictions.Add(1)
	}
}

// Set replaces the whole value under key. A ttl <= 0 never expires.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.time.Now().Add(ttl)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.store.Add(key, e)
	c.sets.Add(1)
}

// Delete removes the given keys and returns how many were present.
func (c *Cache) Delete(keys ...string) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	removed := 0
	for _, key := range keys {
		if c.store.Remove(key) {
			removed++
		}
	}
	return removed
}

func (c *Cache) purgeExpired() {
	now := c.time.Now()

	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, key := range c.store.Keys() {
		e, ok := c.store.Peek(key)
		if ok && e.expired(now) {
			c.store.Remove(key)
			c.evictions.Add(1)
		}
	}
}

// Keys returns the live (unexpired) keys.
func (c *Cache) Keys() []string {
	c.purgeExpired()

	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.store.Keys()
}

func (c *Cache) Stats() Stats {
	keys := c.Keys()
	ksize := 0
	for _, k := range keys {
		ksize += len(k)
	}
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Keys:      len(keys),
		KeySize:   ksize,
		Sets:      c.sets.Load(),
		Evictions: c.evictions.Load(),
	}
}

// GetAs is Get with a type assertion, a value of the wrong type is reported as
// ErrUnexpectedType rather than a miss.
func GetAs[T any](c *Cache, key string) (T, bool, error) {
	var zero T
	value, ok := c.Get(key)
	if !ok {
		return zero, false, nil
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false, fmt.Errorf("%w: key %q holds %T", ErrUnexpectedType, key, value)
	}
	return typed, true, nil
}
