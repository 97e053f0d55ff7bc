// Package config reads the YAML configuration of the golden engine and turns
// it into engine options and a snapshot store.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/golden/pkg/golden/cache"
	"github.com/cognicore/golden/pkg/golden/internalerr"
	"github.com/cognicore/golden/pkg/golden/patterns"
)

// Persistence drivers.
const (
	DriverNone   = ""
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// File is the on-disk configuration.
type File struct {
	Segmenter         Segmenter `yaml:"segmenter"`
	Keywords          Keywords  `yaml:"keywords"`
	Patterns          Patterns  `yaml:"patterns"`
	Cache             Cache     `yaml:"cache"`
	Persist           Persist   `yaml:"persist"`
	LanguageDetection bool      `yaml:"language_detection"`

	// dir is the directory of the file, used to resolve relative paths.
	dir string
}

// Segmenter configures section splitting.
type Segmenter struct {
	MaxSections int `yaml:"max_sections"`
}

// Keywords configures keyword extraction. Stoplist replaces the built-in
// stopwords; ExtraStopwords extends whichever list is in use.
type Keywords struct {
	MinWordLength  int      `yaml:"min_word_length"`
	MaxKeywords    int      `yaml:"max_keywords"`
	Stoplist       string   `yaml:"stoplist"`
	ExtraStopwords []string `yaml:"extra_stopwords"`
}

// Patterns configures the pattern matcher.
type Patterns struct {
	MaxDepth    int          `yaml:"max_depth"`
	MaxPatterns int          `yaml:"max_patterns"`
	Rules       []RuleConfig `yaml:"rules"`
}

// RuleConfig is a custom pattern rule. A zero weight selects the level
// default.
type RuleConfig struct {
	Level   int     `yaml:"level"`
	Pattern string  `yaml:"pattern"`
	Weight  float64 `yaml:"weight"`
	Label   string  `yaml:"label"`
}

// Cache configures the analyzer caches. Caching is on unless Enabled is
// explicitly false.
type Cache struct {
	Enabled        *bool       `yaml:"enabled"`
	Sections       CacheTuning `yaml:"sections"`
	Keywords       CacheTuning `yaml:"keywords"`
	Patterns       CacheTuning `yaml:"patterns"`
	Classification CacheTuning `yaml:"classification"`
}

// CacheTuning overrides a cache preset; zero fields keep the preset value.
type CacheTuning struct {
	MaxEntries     int           `yaml:"max_entries"`
	MaxAge         time.Duration `yaml:"max_age"`
	DecayThreshold float64       `yaml:"decay_threshold"`
	GoldenWeight   float64       `yaml:"golden_weight"`
}

// Persist selects where cache snapshots are kept.
type Persist struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LoadFile reads and validates a configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", path, err, internalerr.ErrInvalidConfig)
	}
	f.dir = filepath.Dir(path)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate reports the first invalid setting.
func (f *File) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf(format+": %w", append(args, internalerr.ErrInvalidConfig)...)
	}

	if f.Segmenter.MaxSections < 0 {
		return invalid("segmenter.max_sections %d", f.Segmenter.MaxSections)
	}
	if f.Keywords.MinWordLength < 0 || f.Keywords.MaxKeywords < 0 {
		return invalid("keywords limits must not be negative")
	}
	if f.Patterns.MaxDepth < 0 || f.Patterns.MaxDepth > patterns.MaxLevel {
		return invalid("patterns.max_depth %d outside 0..%d", f.Patterns.MaxDepth, patterns.MaxLevel)
	}
	if f.Patterns.MaxPatterns < 0 {
		return invalid("patterns.max_patterns %d", f.Patterns.MaxPatterns)
	}
	if _, err := f.Rules(); err != nil {
		return err
	}
	for name, t := range f.Cache.tunings() {
		if t.MaxEntries < 0 || t.MaxAge < 0 || t.DecayThreshold < 0 || t.DecayThreshold > 1 || t.GoldenWeight < 0 {
			return invalid("cache.%s out of range", name)
		}
	}

	switch f.Persist.Driver {
	case DriverNone, DriverMemory:
	case DriverFile, DriverSQLite:
		if f.Persist.Path == "" {
			return invalid("persist.path required for driver %q", f.Persist.Driver)
		}
	default:
		return invalid("unknown persist driver %q", f.Persist.Driver)
	}
	return nil
}

// Rules compiles the custom pattern rules.
func (f *File) Rules() ([]patterns.Rule, error) {
	rules := make([]patterns.Rule, 0, len(f.Patterns.Rules))
	for i, rc := range f.Patterns.Rules {
		r, err := patterns.NewRule(rc.Level, rc.Pattern, rc.Weight, rc.Label)
		if err != nil {
			return nil, fmt.Errorf("patterns.rules[%d]: %v: %w", i, err, internalerr.ErrInvalidConfig)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// CacheEnabled reports whether analyzer caches should be built.
func (f *File) CacheEnabled() bool {
	return f.Cache.Enabled == nil || *f.Cache.Enabled
}

// resolve makes path relative to the configuration file's directory.
func (f *File) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || f.dir == "" {
		return path
	}
	return filepath.Join(f.dir, path)
}

func (c Cache) tunings() map[string]CacheTuning {
	return map[string]CacheTuning{
		cache.SectionsName:       c.Sections,
		cache.KeywordsName:       c.Keywords,
		cache.PatternsName:       c.Patterns,
		cache.ClassificationName: c.Classification,
	}
}

// Overrides converts the tunings into cache options keyed by cache name.
func (c Cache) Overrides() map[string]cache.Options {
	out := make(map[string]cache.Options, 4)
	for name, t := range c.tunings() {
		out[name] = cache.Options{
			MaxEntries:     t.MaxEntries,
			MaxAge:         t.MaxAge,
			DecayThreshold: t.DecayThreshold,
			GoldenWeight:   t.GoldenWeight,
		}
	}
	return out
}

// Stoplist is a stopword list file.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", path, err, internalerr.ErrInvalidConfig)
	}
	return &sl, nil
}
