package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kushalsai-01/gocache/internal/logflags"
)

// Config controls cache capacity and logging.
//
// Capacity must be positive; New rejects anything else. A nil Logger falls
// back to the "cache" layer logger when that layer is enabled through
// logflags.Setup; otherwise the cache does not log.
type Config struct {
	Capacity int
	Logger   *logrus.Entry
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Capacity  int
}

// Cache is a concurrency-safe, fixed-capacity LRU cache.
//
// A map gives O(1) key lookup and an arena-backed doubly linked list keeps
// recency order. Every public method holds mu for its whole
// lookup -> relink -> index update sequence, so operations are linearizable.
// Get counts as a write because it moves the entry to the front.
type Cache struct {
	mu sync.Mutex

	capacity int
	index    index
	list     *recencyList // head.next = most recently used, tail.prev = least

	hits      uint64
	misses    uint64
	evictions uint64

	// inserted is closed and cleared whenever a new key is inserted.
	// It is created lazily by GetWait.
	inserted chan struct{}

	log *logrus.Entry // nil disables logging
}

// New constructs a cache holding at most cfg.Capacity entries.
func New(cfg Config) (*Cache, error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidCapacity, cfg.Capacity)
	}
	logger := cfg.Logger
	if logger == nil && logflags.Cache() {
		logger = logflags.CacheLogger()
	}
	return &Cache{
		capacity: cfg.Capacity,
		index:    make(index, sizeHint(cfg.Capacity)),
		list:     newRecencyList(cfg.Capacity),
		log:      logger,
	}, nil
}

// Get returns the value stored for key and marks it most recently used.
// A miss has no side effect besides the miss counter.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Cache) getLocked(key string) (string, bool) {
	s, ok := c.index.lookup(key)
	if !ok {
		c.misses++
		return "", false
	}
	c.hits++
	c.list.moveToFront(s)
	return c.list.get(s).value, true
}

// Peek returns the value stored for key without touching recency order or
// the hit/miss counters.
func (c *Cache) Peek(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.index.lookup(key)
	if !ok {
		return "", false
	}
	return c.list.get(s).value, true
}

// Set stores value under key and marks it most recently used.
//
// Overwriting an existing key keeps its entry and does not change Len.
// Inserting a new key into a full cache first evicts the least recently
// used entry.
func (c *Cache) Set(key, value string) {
	evicted, ok := c.set(key, value)
	if ok && c.log != nil && c.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		// Logged after unlocking so the logger's lock is never taken under mu.
		c.log.WithField("key", evicted).Debug("evicted least recently used entry")
	}
}

func (c *Cache) set(key, value string) (evicted string, didEvict bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.index.lookup(key); ok {
		c.list.get(s).value = value
		c.list.moveToFront(s)
		return "", false
	}

	if len(c.index) >= c.capacity {
		evicted = c.evictLocked()
		didEvict = true
	}

	s := c.list.alloc(key, value)
	c.list.insertFront(s)
	c.index.insert(key, s)

	if c.inserted != nil {
		close(c.inserted)
		c.inserted = nil
	}
	return evicted, didEvict
}

// evictLocked drops the least recently used entry and returns its key.
func (c *Cache) evictLocked() string {
	s := c.list.back()
	if s == headSlot {
		panic(&InvariantError{
			Op:     "evict",
			Detail: fmt.Sprintf("recency list is empty but index holds %d of %d entries", len(c.index), c.capacity),
		})
	}
	key := c.list.get(s).key
	if got, ok := c.index.lookup(key); !ok || got != s {
		panic(&InvariantError{Op: "evict", Detail: fmt.Sprintf("index does not point at the tail entry for key %q", key)})
	}
	c.list.detach(s)
	c.index.remove(key)
	c.list.release(s)
	c.evictions++
	return key
}

// GetWait blocks until key is present and then behaves like Get. It
// returns ctx.Err() if ctx is done first.
func (c *Cache) GetWait(ctx context.Context, key string) (string, error) {
	for {
		c.mu.Lock()
		if _, ok := c.index.lookup(key); ok {
			v, _ := c.getLocked(key)
			c.mu.Unlock()
			return v, nil
		}
		if c.inserted == nil {
			c.inserted = make(chan struct{})
		}
		wake := c.inserted
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-wake:
		}
	}
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Cap returns the configured capacity.
func (c *Cache) Cap() int {
	return c.capacity
}

// Keys returns keys in MRU -> LRU order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.index))
	c.list.each(func(_ slot, e *entry) bool {
		out = append(out, e.key)
		return true
	})
	return out
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statsLocked()
}

func (c *Cache) statsLocked() Stats {
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       len(c.index),
		Capacity:  c.capacity,
	}
}

// String renders the contents as "(key,value) " pairs in MRU -> LRU order.
func (c *Cache) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sb strings.Builder
	c.list.each(func(_ slot, e *entry) bool {
		fmt.Fprintf(&sb, "(%s,%s) ", e.key, e.value)
		return true
	})
	return sb.String()
}
