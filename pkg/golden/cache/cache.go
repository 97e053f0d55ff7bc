// Package cache is a bounded in-memory cache whose eviction order follows a
// score combining access frequency (Fibonacci weighted), recency and an
// exponential age decay with base φ.
//
// Entries expire once their age reaches MaxAge or their decay
// φ^(-age/MaxAge) drops below DecayThreshold. When the cache is full the
// entry with the lowest freshly computed score is evicted. Every
// (MaxAge/φ) a sweep on Set removes expired and low-scoring entries, at most
// a 1/φ share of the cache per sweep.
//
// A Cache may be backed by a store.Store; Persist and Load never fail the
// caller and report problems through the logger only.
package cache

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/cognicore/golden/pkg/golden/phi"
	"github.com/cognicore/golden/pkg/golden/store"
)

// Defaults for Options.
const (
	DefaultMaxAge = 24 * time.Hour
	DefaultName   = "cache"
)

var (
	DefaultMaxEntries     = int(math.Floor(phi.Phi * 100))
	DefaultDecayThreshold = phi.InvPhi
	DefaultGoldenWeight   = phi.Phi
)

// Options configures a Cache.
type Options struct {
	Name           string // snapshot name; also used in log lines
	MaxEntries     int
	MaxAge         time.Duration
	DecayThreshold float64
	GoldenWeight   float64
	Store          store.Store // nil disables persistence
	Logger         *slog.Logger
	Now            func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.MaxEntries <= 0 {
		o.MaxEntries = DefaultMaxEntries
	}
	if o.MaxAge <= 0 {
		o.MaxAge = DefaultMaxAge
	}
	if o.DecayThreshold <= 0 {
		o.DecayThreshold = DefaultDecayThreshold
	}
	if o.GoldenWeight <= 0 {
		o.GoldenWeight = DefaultGoldenWeight
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Entry is a cached value with its access statistics.
type Entry[T any] struct {
	Key         string
	Value       T
	CreatedAt   time.Time
	LastAccess  time.Time
	AccessCount int
	Score       float64
	Decay       float64

	seq uint64
}

// Cache is safe for concurrent use; every operation holds a single mutex.
type Cache[T any] struct {
	opts Options

	mu        sync.Mutex
	entries   map[string]*Entry[T]
	hits      int64
	misses    int64
	lastSweep time.Time
	seq       uint64
}

// New creates an empty cache.
func New[T any](opts Options) *Cache[T] {
	opts = opts.withDefaults()
	return &Cache[T]{
		opts:      opts,
		entries:   make(map[string]*Entry[T]),
		lastSweep: opts.Now(),
	}
}

// Name returns the cache name.
func (c *Cache[T]) Name() string { return c.opts.Name }

// MaxEntries returns the capacity.
func (c *Cache[T]) MaxEntries() int { return c.opts.MaxEntries }

// Get returns the value for key. Expired entries are removed and count as
// misses.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	now := c.opts.Now()
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.expired(e, now) {
		delete(c.entries, key)
		c.misses++
		return zero, false
	}

	e.AccessCount++
	e.LastAccess = now
	e.Score = c.score(e, now)
	c.hits++
	return e.Value, true
}

// Set stores value under key. Overwriting an entry counts as an access and
// restarts its age.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	if e, ok := c.entries[key]; ok {
		e.Value = value
		e.CreatedAt = now
		e.LastAccess = now
		e.AccessCount++
		e.Decay = 1
		e.Score = c.score(e, now)
	} else {
		if len(c.entries) >= c.opts.MaxEntries {
			c.evict(now)
		}
		c.seq++
		e := &Entry[T]{
			Key:         key,
			Value:       value,
			CreatedAt:   now,
			LastAccess:  now,
			AccessCount: 1,
			Decay:       1,
			seq:         c.seq,
		}
		e.Score = c.score(e, now)
		c.entries[key] = e
	}

	if now.Sub(c.lastSweep) > c.sweepInterval() {
		c.sweep(now)
		c.lastSweep = now
	}
}

// Has reports whether key holds an unexpired entry. It does not count as an
// access.
func (c *Cache[T]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return ok && !c.expired(e, c.opts.Now())
}

// Delete removes key and reports whether it was present.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear drops every entry and resets the hit counters.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry[T])
	c.hits, c.misses = 0, 0
	c.lastSweep = c.opts.Now()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[T]) sweepInterval() time.Duration {
	return time.Duration(float64(c.opts.MaxAge) / phi.Phi)
}

// expired refreshes e.Decay and reports whether e is past its lifetime.
func (c *Cache[T]) expired(e *Entry[T], now time.Time) bool {
	age := now.Sub(e.CreatedAt)
	if age >= c.opts.MaxAge {
		e.Decay = 0
		return true
	}
	e.Decay = math.Pow(phi.Phi, -float64(age)/float64(c.opts.MaxAge))
	return e.Decay < c.opts.DecayThreshold
}

func (c *Cache[T]) score(e *Entry[T], now time.Time) float64 {
	access := math.Min(1, phi.Fib(e.AccessCount)/(phi.Phi*100))
	since := float64(now.Sub(e.LastAccess))
	recency := 1 / (1 + since/(float64(c.opts.MaxAge)/phi.Phi))
	age := math.Max(0.1, e.Decay)
	return math.Min(1, access*recency*age*c.opts.GoldenWeight)
}

// refresh recomputes decay and score from the current clock.
func (c *Cache[T]) refresh(e *Entry[T], now time.Time) {
	c.expired(e, now)
	e.Score = c.score(e, now)
}

// evict removes the entry with the lowest current score, the oldest
// insertion on ties.
func (c *Cache[T]) evict(now time.Time) {
	var worst *Entry[T]
	for _, e := range c.entries {
		c.refresh(e, now)
		if worst == nil || e.Score < worst.Score || (e.Score == worst.Score && e.seq < worst.seq) {
			worst = e
		}
	}
	if worst != nil {
		delete(c.entries, worst.Key)
		c.opts.Logger.Debug("cache eviction", "cache", c.opts.Name, "key", worst.Key, "score", worst.Score)
	}
}

// sweep removes expired or low-scoring entries, oldest first, up to
// floor(len/φ) of them.
func (c *Cache[T]) sweep(now time.Time) {
	limit := int(math.Floor(float64(len(c.entries)) / phi.Phi))
	removed := 0
	for _, e := range c.ordered() {
		if removed >= limit {
			break
		}
		c.refresh(e, now)
		if c.expired(e, now) || e.Score < c.opts.DecayThreshold {
			delete(c.entries, e.Key)
			removed++
		}
	}
	if removed > 0 {
		c.opts.Logger.Debug("cache sweep", "cache", c.opts.Name, "removed", removed, "remaining", len(c.entries))
	}
}
