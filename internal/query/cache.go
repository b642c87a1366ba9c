// Package query caches the results of read requests by key and lets
// mutations invalidate them, in the style of a client-side request cache.
//
// Keys are tuples such as Key{"taskFull", 42}. Invalidate and Remove match
// by prefix, so Key{"taskFull"} covers every task detail.
package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cached query
type Key []any

// String renders the key; it doubles as the map key
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, "/")
}

// HasPrefix reports whether k starts with prefix
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if fmt.Sprint(k[i]) != fmt.Sprint(prefix[i]) {
			return false
		}
	}
	return true
}

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
	stale     bool
}

// Cache stores query results in memory
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	inflight  map[string]Key
	gens      map[string]uint64 // bumped by every invalidation touching a key
	group     singleflight.Group
	staleTime time.Duration
	now       func() time.Time
}

// NewCache creates a cache. staleTime <= 0 keeps values until invalidated.
func NewCache(staleTime time.Duration) *Cache {
	return &Cache{
		entries:   make(map[string]*entry),
		inflight:  make(map[string]Key),
		gens:      make(map[string]uint64),
		staleTime: staleTime,
		now:       time.Now,
	}
}

// Fetch returns the fresh cached value for key, or calls fn to load it.
// Concurrent fetches of the same key share one call.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.fresh(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	id := key.String()
	v, err, _ := c.group.Do(id, func() (any, error) {
		startGen := c.begin(key)
		value, err := fn(ctx)
		if err != nil {
			c.end(id)
			return nil, err
		}
		c.store(key, value, startGen)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate marks every entry under prefix stale. Fetches already in flight
// for those keys will store their result as stale.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
		}
	}
	c.bump(prefix)
}

// Remove drops every entry under prefix
func (c *Cache) Remove(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bump(prefix)
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, id)
		}
	}
}

// Clear drops everything
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bump(Key{})
	c.entries = make(map[string]*entry)
}

// bump must be called with mu held. It advances the generation of every
// known or in-flight key under prefix.
func (c *Cache) bump(prefix Key) {
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			c.gens[id]++
		}
	}
	for id, k := range c.inflight {
		if k.HasPrefix(prefix) {
			c.gens[id]++
		}
	}
}

func (c *Cache) fresh(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok || e.stale {
		return nil, false
	}
	if c.staleTime > 0 && c.now().Sub(e.fetchedAt) > c.staleTime {
		return nil, false
	}
	return e.value, true
}

// begin registers an in-flight fetch and returns the generation it started at
func (c *Cache) begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := key.String()
	c.inflight[id] = key
	return c.gens[id]
}

func (c *Cache) end(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, id)
}

func (c *Cache) store(key Key, value any, startGen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := key.String()
	delete(c.inflight, id)
	c.entries[id] = &entry{
		key:       key,
		value:     value,
		fetchedAt: c.now(),
		stale:     c.gens[id] != startGen,
	}
}
