package cache

import (
	"math"
	"time"

	"github.com/cognicore/golden/pkg/golden/phi"
)

// Preset names, also used as snapshot names.
const (
	SectionsName       = "sections"
	KeywordsName       = "keywords"
	PatternsName       = "patterns"
	ClassificationName = "classification"
)

// Presets returns the per-analyzer defaults keyed by name.
func Presets() map[string]Options {
	return map[string]Options{
		SectionsName: {
			Name:           SectionsName,
			MaxEntries:     int(math.Floor(phi.Phi * 20)),
			MaxAge:         30 * time.Minute,
			DecayThreshold: 0.382,
			GoldenWeight:   phi.Phi * 1.2,
		},
		KeywordsName: {
			Name:           KeywordsName,
			MaxEntries:     int(math.Floor(phi.Phi * 50)),
			MaxAge:         2 * time.Hour,
			DecayThreshold: 0.5,
			GoldenWeight:   phi.Phi,
		},
		PatternsName: {
			Name:           PatternsName,
			MaxEntries:     int(math.Floor(phi.Phi * 30)),
			MaxAge:         time.Hour,
			DecayThreshold: 0.618,
			GoldenWeight:   phi.Phi * 0.8,
		},
		ClassificationName: {
			Name:           ClassificationName,
			MaxEntries:     int(math.Floor(phi.Phi * 50)),
			MaxAge:         2 * time.Hour,
			DecayThreshold: 0.5,
			GoldenWeight:   phi.Phi,
		},
	}
}

// NewPreset creates a cache from the named preset. Non-zero fields of
// override take precedence; Store, Logger and Now always come from override.
func NewPreset[T any](name string, override Options) *Cache[T] {
	opts := Presets()[name]
	if opts.Name == "" {
		opts.Name = name
	}
	if override.Name != "" {
		opts.Name = override.Name
	}
	if override.MaxEntries > 0 {
		opts.MaxEntries = override.MaxEntries
	}
	if override.MaxAge > 0 {
		opts.MaxAge = override.MaxAge
	}
	if override.DecayThreshold > 0 {
		opts.DecayThreshold = override.DecayThreshold
	}
	if override.GoldenWeight > 0 {
		opts.GoldenWeight = override.GoldenWeight
	}
	opts.Store = override.Store
	opts.Logger = override.Logger
	opts.Now = override.Now
	return New[T](opts)
}

// NewSectionCache creates the cache for segmentation results.
func NewSectionCache[T any](override Options) *Cache[T] {
	return NewPreset[T](SectionsName, override)
}

// NewKeywordCache creates the cache for keyword extraction results.
func NewKeywordCache[T any](override Options) *Cache[T] {
	return NewPreset[T](KeywordsName, override)
}

// NewPatternCache creates the cache for pattern matching results.
func NewPatternCache[T any](override Options) *Cache[T] {
	return NewPreset[T](PatternsName, override)
}

// NewClassificationCache creates the cache for classification results.
func NewClassificationCache[T any](override Options) *Cache[T] {
	return NewPreset[T](ClassificationName, override)
}
