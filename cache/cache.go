package cache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultTTL bounds how stale a cached entity may be before reads fall
// through to the store again.
const DefaultTTL = 30 * time.Minute

// Recorder receives cache outcome events. Implemented by pkg/metrics; a nil
// recorder disables reporting.
type Recorder interface {
	CacheHit(name string)
	CacheMiss(name string)
}

// entry pairs an entity snapshot with the instant it was written. The pair
// is stored as one map value so it stays atomic per key.
type entry[T any] struct {
	value     T
	writtenAt time.Time
}

// Cache is a concurrent TTL cache keyed by entity ID. One instance is
// shared by all callers of a repository; distinct keys never contend.
type Cache[T any] struct {
	name     string
	ttl      time.Duration
	entries  *xsync.MapOf[string, entry[T]]
	now      func() time.Time
	recorder Recorder
}

// Option customizes a Cache.
type Option[T any] func(*Cache[T])

// WithTTL overrides the default entry lifetime.
func WithTTL[T any](ttl time.Duration) Option[T] {
	return func(c *Cache[T]) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects a time source, used by tests to simulate expiry.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder[T any](r Recorder) Option[T] {
	return func(c *Cache[T]) { c.recorder = r }
}

// New builds a Cache. The name tags metrics so each repository's cache is
// distinguishable.
func New[T any](name string, opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		name:    name,
		ttl:     DefaultTTL,
		entries: xsync.NewMapOf[string, entry[T]](),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached entity when a fresh entry exists. An entry older
// than the TTL is treated as absent; it is left in place and will be
// overwritten by the next Put.
func (c *Cache[T]) Get(id string) (T, bool) {
	e, ok := c.entries.Load(id)
	if !ok || c.now().Sub(e.writtenAt) >= c.ttl {
		var zero T
		c.recordMiss()
		return zero, false
	}
	c.recordHit()
	return e.value, true
}

// Put stores the entity under id, resetting its write timestamp.
func (c *Cache[T]) Put(id string, value T) {
	c.entries.Store(id, entry[T]{value: value, writtenAt: c.now()})
}

// Invalidate removes the entry for id, if any.
func (c *Cache[T]) Invalidate(id string) {
	c.entries.Delete(id)
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	c.entries.Clear()
}

// Len reports how many entries physically exist, stale ones included.
func (c *Cache[T]) Len() int {
	return c.entries.Size()
}

func (c *Cache[T]) recordHit() {
	if c.recorder != nil {
		c.recorder.CacheHit(c.name)
	}
}

func (c *Cache[T]) recordMiss() {
	if c.recorder != nil {
		c.recorder.CacheMiss(c.name)
	}
}
