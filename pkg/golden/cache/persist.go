package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cognicore/golden/pkg/golden/internalerr"
	"github.com/cognicore/golden/pkg/golden/store"
)

// Persist writes a snapshot of the cache to the configured store. Failures
// are logged and otherwise ignored.
func (c *Cache[T]) Persist(ctx context.Context) {
	if c.opts.Store == nil {
		return
	}

	snap, err := c.snapshot()
	if err != nil {
		c.opts.Logger.Warn("cache persist failed", "cache", c.opts.Name, "error", err)
		return
	}
	if err := c.opts.Store.SaveSnapshot(ctx, snap); err != nil {
		c.opts.Logger.Warn("cache persist failed", "cache", c.opts.Name, "error", err)
		return
	}
	c.opts.Logger.Debug("cache persisted", "cache", c.opts.Name, "entries", len(snap.Entries))
}

func (c *Cache[T]) snapshot() (store.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := store.Snapshot{
		Name:      c.opts.Name,
		Entries:   make([]store.Record, 0, len(c.entries)),
		Hits:      c.hits,
		Misses:    c.misses,
		LastSweep: c.lastSweep,
		SavedAt:   c.opts.Now(),
	}
	for _, e := range c.ordered() {
		value, err := json.Marshal(e.Value)
		if err != nil {
			return store.Snapshot{}, err
		}
		snap.Entries = append(snap.Entries, store.Record{
			Key:         e.Key,
			Value:       value,
			CreatedAt:   e.CreatedAt,
			LastAccess:  e.LastAccess,
			AccessCount: e.AccessCount,
			Score:       e.Score,
			Decay:       e.Decay,
		})
	}
	return snap, nil
}

// Load replaces the cache contents with the stored snapshot, skipping
// entries that have expired or no longer decode. A missing or unreadable
// snapshot leaves the cache empty.
func (c *Cache[T]) Load(ctx context.Context) {
	if c.opts.Store == nil {
		return
	}

	snap, err := c.opts.Store.LoadSnapshot(ctx, c.opts.Name)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry[T])
	c.hits, c.misses = 0, 0
	c.seq = 0
	if err != nil {
		if !errors.Is(err, internalerr.ErrNotFound) {
			c.opts.Logger.Warn("cache load failed", "cache", c.opts.Name, "error", err)
		}
		return
	}

	now := c.opts.Now()
	skipped := 0
	for _, r := range snap.Entries {
		if len(c.entries) >= c.opts.MaxEntries {
			break
		}
		var value T
		if err := json.Unmarshal(r.Value, &value); err != nil {
			skipped++
			continue
		}
		c.seq++
		e := &Entry[T]{
			Key:         r.Key,
			Value:       value,
			CreatedAt:   r.CreatedAt,
			LastAccess:  r.LastAccess,
			AccessCount: r.AccessCount,
			Score:       r.Score,
			Decay:       r.Decay,
			seq:         c.seq,
		}
		if c.expired(e, now) {
			skipped++
			continue
		}
		c.entries[r.Key] = e
	}
	c.hits, c.misses = snap.Hits, snap.Misses
	if !snap.LastSweep.IsZero() {
		c.lastSweep = snap.LastSweep
	}
	c.opts.Logger.Debug("cache loaded", "cache", c.opts.Name, "entries", len(c.entries), "skipped", skipped)
}
