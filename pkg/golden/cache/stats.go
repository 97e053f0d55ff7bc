package cache

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/cognicore/golden/pkg/golden/phi"
)

// entryOverhead approximates per-entry bookkeeping in bytes.
const entryOverhead = 64

// Stats summarises the cache. Ratios are rounded to four decimals.
type Stats struct {
	Name         string        `json:"name"`
	TotalEntries int           `json:"total_entries"`
	MaxEntries   int           `json:"max_entries"`
	Hits         int64         `json:"hits"`
	Misses       int64         `json:"misses"`
	HitRate      float64       `json:"hit_rate"`
	AverageAge   time.Duration `json:"average_age"`
	AverageDecay float64       `json:"average_decay"`
	GoldenRatio  float64       `json:"golden_ratio"`
	MemoryUsage  int64         `json:"memory_usage"`
}

// RankedEntry is an entry summary returned by TopEntries.
type RankedEntry struct {
	Key   string        `json:"key"`
	Score float64       `json:"score"`
	Age   time.Duration `json:"age"`
}

// Stats refreshes every entry's decay and score and reports aggregates.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	st := Stats{
		Name:         c.opts.Name,
		TotalEntries: len(c.entries),
		MaxEntries:   c.opts.MaxEntries,
		Hits:         c.hits,
		Misses:       c.misses,
		AverageDecay: 1,
	}
	if total := c.hits + c.misses; total > 0 {
		st.HitRate = phi.Round4(float64(c.hits) / float64(total))
	}
	if len(c.entries) == 0 {
		return st
	}

	var age time.Duration
	var decay float64
	scores := make([]float64, 0, len(c.entries))
	for _, e := range c.entries {
		c.refresh(e, now)
		age += now.Sub(e.CreatedAt)
		decay += e.Decay
		scores = append(scores, e.Score)
		st.MemoryUsage += c.entrySize(e)
	}
	n := len(c.entries)
	st.AverageAge = (age / time.Duration(n)).Round(time.Millisecond)
	st.AverageDecay = phi.Round4(decay / float64(n))
	st.GoldenRatio = phi.Round4(distributionRatio(scores))
	return st
}

// TopEntries returns up to limit entries by descending current score. A
// non-positive limit selects 10.
func (c *Cache[T]) TopEntries(limit int) []RankedEntry {
	if limit <= 0 {
		limit = 10
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	entries := c.ordered()
	for _, e := range entries {
		c.refresh(e, now)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })

	out := make([]RankedEntry, 0, min(limit, len(entries)))
	for _, e := range entries[:min(limit, len(entries))] {
		out = append(out, RankedEntry{Key: e.Key, Score: e.Score, Age: now.Sub(e.CreatedAt)})
	}
	return out
}

// ordered returns the entries by insertion sequence.
func (c *Cache[T]) ordered() []*Entry[T] {
	out := make([]*Entry[T], 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (c *Cache[T]) entrySize(e *Entry[T]) int64 {
	size := int64(len(e.Key)) + entryOverhead
	if data, err := json.Marshal(e.Value); err == nil {
		size += int64(len(data))
	}
	return size
}

// distributionRatio is the mean alignment of consecutive score ratios with
// φ, scores sorted descending.
func distributionRatio(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	var total float64
	for i := 1; i < len(scores); i++ {
		if scores[i] > 0 {
			total += phi.Alignment(scores[i-1] / scores[i])
		}
	}
	return total / float64(len(scores)-1)
}
