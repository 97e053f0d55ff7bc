package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/golden/pkg/golden"
	"github.com/cognicore/golden/pkg/golden/internalerr"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoaderDefaults(t *testing.T) {
	loader := Loader{Logger: quiet}
	comp, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	defer comp.Close()

	if comp.Options.Stopwords == nil || !comp.Options.Stopwords.IsStop("the") {
		t.Error("Should use the built-in stopwords")
	}
	if comp.Options.Caches == nil {
		t.Error("Caches should be enabled by default")
	}
	if comp.Store != nil {
		t.Error("No store without a persist driver")
	}
	if comp.Options.Detector != nil {
		t.Error("Language detection should be off by default")
	}
}

func TestLoaderNoCache(t *testing.T) {
	loader := Loader{Logger: quiet, NoCache: true}
	comp, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if comp.Options.Caches != nil {
		t.Error("NoCache should disable caches")
	}

	path := writeFile(t, t.TempDir(), "golden.yaml", "cache:\n  enabled: false\n")
	comp, err = (&Loader{ConfigPath: path, Logger: quiet}).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if comp.Options.Caches != nil {
		t.Error("cache.enabled=false should disable caches")
	}
}

func TestLoaderNonExistentConfig(t *testing.T) {
	loader := Loader{ConfigPath: "/nonexistent/golden.yaml", Logger: quiet}
	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("Should error on nonexistent config")
	}
}

func TestLoaderNonExistentStoplist(t *testing.T) {
	path := writeFile(t, t.TempDir(), "golden.yaml", "keywords:\n  stoplist: missing.yaml\n")
	loader := Loader{ConfigPath: path, Logger: quiet}
	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("Should error on nonexistent stoplist")
	}
}

func TestLoaderInvalidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "golden.yaml", "persist:\n  driver: redis\n")
	_, err := (&Loader{ConfigPath: path, Logger: quiet}).Load(context.Background())
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoaderValidFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "stoplist.yaml", "terms:\n  - machine\n")
	path := writeFile(t, dir, "golden.yaml", fullConfig)

	comp, err := (&Loader{ConfigPath: path, Logger: quiet}).Load(ctx)
	if err != nil {
		t.Fatalf("Valid files should load: %v", err)
	}
	defer comp.Close()

	stops := comp.Options.Stopwords
	if !stops.IsStop("machine") || !stops.IsStop("dataset") {
		t.Error("Stoplist and extra stopwords should be applied")
	}
	if stops.IsStop("the") {
		t.Error("A stoplist file should replace the built-in list")
	}
	if len(comp.Options.PatternRules) != 1 {
		t.Errorf("Expected 1 custom rule, got %d", len(comp.Options.PatternRules))
	}
	if comp.Options.Detector == nil {
		t.Error("Language detection should be enabled")
	}
	if comp.Store == nil {
		t.Fatal("Expected a file store")
	}

	e := golden.New(comp.Options)
	e.Analyze(ctx, "Machine learning invoice INV-2024 for the dataset team.")
	e.PersistCaches(ctx)

	names, err := comp.Store.ListSnapshots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 4 {
		t.Errorf("Expected 4 snapshots, got %v", names)
	}
	if _, err := os.Stat(filepath.Join(dir, "snapshots", "keywords.json")); err != nil {
		t.Errorf("Snapshot not written next to the config: %v", err)
	}
	if got := e.Stats().Caches["keywords"].MaxEntries; got != 10 {
		t.Errorf("Expected keyword cache override 10, got %d", got)
	}
}

func TestLoaderSQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "golden.yaml", "persist:\n  driver: sqlite\n  path: golden.db\n")

	comp, err := (&Loader{ConfigPath: path, Logger: quiet}).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer comp.Close()

	e := golden.New(comp.Options)
	e.Analyze(ctx, "A short note about golden spirals.")
	e.PersistCaches(ctx)

	names, err := comp.Store.ListSnapshots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 4 {
		t.Errorf("Expected 4 snapshots, got %v", names)
	}
}
