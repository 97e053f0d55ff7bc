package golden

import (
	"context"

	"github.com/cognicore/golden/pkg/golden/cache"
	"github.com/cognicore/golden/pkg/golden/classify"
	"github.com/cognicore/golden/pkg/golden/keywords"
	"github.com/cognicore/golden/pkg/golden/patterns"
	"github.com/cognicore/golden/pkg/golden/segment"
)

// Caches holds one cache per analyzer. Nil fields disable caching for that
// analyzer.
type Caches struct {
	Sections       *cache.Cache[[]segment.Section]
	Keywords       *cache.Cache[[]keywords.Keyword]
	Patterns       *cache.Cache[[]patterns.Match]
	Classification *cache.Cache[classify.Result]
}

// NewCaches builds every analyzer cache from its preset. shared supplies
// Store, Logger and Now; per-cache overrides are keyed by cache name.
func NewCaches(shared cache.Options, overrides map[string]cache.Options) *Caches {
	opts := func(name string) cache.Options {
		o := overrides[name]
		o.Store, o.Logger, o.Now = shared.Store, shared.Logger, shared.Now
		return o
	}
	return &Caches{
		Sections:       cache.NewSectionCache[[]segment.Section](opts(cache.SectionsName)),
		Keywords:       cache.NewKeywordCache[[]keywords.Keyword](opts(cache.KeywordsName)),
		Patterns:       cache.NewPatternCache[[]patterns.Match](opts(cache.PatternsName)),
		Classification: cache.NewClassificationCache[classify.Result](opts(cache.ClassificationName)),
	}
}

func (c *Caches) sections() *cache.Cache[[]segment.Section] {
	if c == nil {
		return nil
	}
	return c.Sections
}

func (c *Caches) keywords() *cache.Cache[[]keywords.Keyword] {
	if c == nil {
		return nil
	}
	return c.Keywords
}

func (c *Caches) patterns() *cache.Cache[[]patterns.Match] {
	if c == nil {
		return nil
	}
	return c.Patterns
}

func (c *Caches) classification() *cache.Cache[classify.Result] {
	if c == nil {
		return nil
	}
	return c.Classification
}

// lifecycle is the type-independent part of a cache.
type lifecycle interface {
	Name() string
	Stats() cache.Stats
	Persist(ctx context.Context)
	Load(ctx context.Context)
	Clear()
}

func (c *Caches) all() []lifecycle {
	if c == nil {
		return nil
	}
	var out []lifecycle
	if c.Sections != nil {
		out = append(out, c.Sections)
	}
	if c.Keywords != nil {
		out = append(out, c.Keywords)
	}
	if c.Patterns != nil {
		out = append(out, c.Patterns)
	}
	if c.Classification != nil {
		out = append(out, c.Classification)
	}
	return out
}

// Stats reports the engine configuration and, when caching is enabled, the
// statistics of every cache.
type Stats struct {
	Caches  map[string]cache.Stats `json:"caches,omitempty"`
	Modules ModuleStats            `json:"modules"`
}

// ModuleStats lists the effective analyzer settings.
type ModuleStats struct {
	MaxSections   int  `json:"max_sections"`
	MaxKeywords   int  `json:"max_keywords"`
	MinWordLength int  `json:"min_word_length"`
	Stopwords     int  `json:"stopwords"`
	MaxPatterns   int  `json:"max_patterns"`
	PatternDepth  int  `json:"pattern_depth"`
	CustomRules   int  `json:"custom_rules"`
	CacheEnabled  bool `json:"cache_enabled"`
	LanguageCheck bool `json:"language_detection"`
}

// Stats returns the module configuration and cache statistics.
func (e *Engine) Stats() Stats {
	st := Stats{
		Modules: ModuleStats{
			MaxSections:   e.opts.MaxSections,
			MaxKeywords:   e.extractor.MaxKeywords(),
			MinWordLength: e.extractor.MinWordLength(),
			Stopwords:     e.extractor.Stopwords().Len(),
			MaxPatterns:   e.opts.MaxPatterns,
			PatternDepth:  e.matcher.MaxDepth(),
			CustomRules:   e.matcher.ExtraRules(),
			CacheEnabled:  len(e.caches.all()) > 0,
			LanguageCheck: e.opts.Detector != nil,
		},
	}
	if caches := e.caches.all(); len(caches) > 0 {
		st.Caches = make(map[string]cache.Stats, len(caches))
		for _, c := range caches {
			st.Caches[c.Name()] = c.Stats()
		}
	}
	return st
}

// LoadCaches restores every cache from its store.
func (e *Engine) LoadCaches(ctx context.Context) {
	for _, c := range e.caches.all() {
		c.Load(ctx)
	}
}

// PersistCaches writes every cache to its store.
func (e *Engine) PersistCaches(ctx context.Context) {
	for _, c := range e.caches.all() {
		c.Persist(ctx)
	}
}

// ClearCaches empties every cache.
func (e *Engine) ClearCaches() {
	for _, c := range e.caches.all() {
		c.Clear()
	}
}
