package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cognicore/golden/pkg/golden"
	"github.com/cognicore/golden/pkg/golden/cache"
	"github.com/cognicore/golden/pkg/golden/keywords"
	"github.com/cognicore/golden/pkg/golden/lang"
	"github.com/cognicore/golden/pkg/golden/store"
	"github.com/cognicore/golden/pkg/golden/store/file"
	"github.com/cognicore/golden/pkg/golden/store/memstore"
	"github.com/cognicore/golden/pkg/golden/store/sqlite"
)

// Loader loads the configuration file and constructs engine components.
type Loader struct {
	ConfigPath string // empty selects the defaults
	Logger     *slog.Logger
	NoCache    bool
}

// Components holds everything needed to build an Engine.
type Components struct {
	Options golden.Options
	Store   store.Store // nil when persistence is off
	Config  *File
}

// Close releases the snapshot store.
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// Load reads the configuration and returns initialized components.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f := &File{}
	if l.ConfigPath != "" {
		loaded, err := LoadFile(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		f = loaded
	}

	stops, err := f.stopwords()
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}
	rules, err := f.Rules()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	comp := &Components{
		Config: f,
		Options: golden.Options{
			MaxSections:   f.Segmenter.MaxSections,
			MaxKeywords:   f.Keywords.MaxKeywords,
			MinWordLength: f.Keywords.MinWordLength,
			Stopwords:     stops,
			MaxPatterns:   f.Patterns.MaxPatterns,
			PatternDepth:  f.Patterns.MaxDepth,
			PatternRules:  rules,
			Logger:        logger,
		},
	}
	if f.LanguageDetection {
		comp.Options.Detector = lang.NewDetector()
	}

	if l.NoCache || !f.CacheEnabled() {
		logger.Debug("analyzer caches disabled")
		return comp, nil
	}

	st, err := openStore(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	comp.Store = st
	comp.Options.Caches = golden.NewCaches(cache.Options{Store: st, Logger: logger}, f.Cache.Overrides())
	logger.Debug("analyzer caches enabled", "driver", f.Persist.Driver, "path", f.Persist.Path)
	return comp, nil
}

func (f *File) stopwords() (*keywords.Manager, error) {
	var stops *keywords.Manager
	if f.Keywords.Stoplist != "" {
		sl, err := LoadStoplist(f.resolve(f.Keywords.Stoplist))
		if err != nil {
			return nil, err
		}
		stops = keywords.NewManager(sl.Terms)
	} else {
		stops = keywords.NewDefaultManager()
	}
	stops.Add(f.Keywords.ExtraStopwords...)
	return stops, nil
}

func openStore(ctx context.Context, f *File) (store.Store, error) {
	switch f.Persist.Driver {
	case DriverFile:
		return file.Open(f.resolve(f.Persist.Path))
	case DriverSQLite:
		return sqlite.OpenSQLite(ctx, f.resolve(f.Persist.Path))
	case DriverMemory:
		return memstore.New(), nil
	default:
		return nil, nil
	}
}
