package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/golden/pkg/golden/cache"
	"github.com/cognicore/golden/pkg/golden/internalerr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const fullConfig = `
segmenter:
  max_sections: 4
keywords:
  min_word_length: 4
  max_keywords: 12
  stoplist: stoplist.yaml
  extra_stopwords: [Dataset]
patterns:
  max_depth: 3
  max_patterns: 5
  rules:
    - level: 2
      pattern: 'INV-\d+'
      label: Invoice numbers
cache:
  keywords:
    max_entries: 10
    max_age: 30m
    decay_threshold: 0.4
persist:
  driver: file
  path: snapshots
language_detection: true
`

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "golden.yaml", fullConfig)

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if f.Segmenter.MaxSections != 4 || f.Keywords.MaxKeywords != 12 || f.Patterns.MaxDepth != 3 {
		t.Errorf("Unexpected limits %+v", f)
	}
	if f.Cache.Keywords.MaxAge != 30*time.Minute {
		t.Errorf("Expected 30m max age, got %v", f.Cache.Keywords.MaxAge)
	}
	if !f.CacheEnabled() {
		t.Error("Cache should be enabled by default")
	}
	if got := f.resolve("snapshots"); got != filepath.Join(dir, "snapshots") {
		t.Errorf("Relative path resolved to %q", got)
	}

	rules, err := f.Rules()
	if err != nil || len(rules) != 1 {
		t.Fatalf("Rules() = %v, %v", rules, err)
	}
	if rules[0].Label != "Invoice numbers" || rules[0].Weight <= 1 {
		t.Errorf("Unexpected rule %+v", rules[0])
	}

	want := cache.Options{MaxEntries: 10, MaxAge: 30 * time.Minute, DecayThreshold: 0.4}
	if diff := cmp.Diff(want, f.Cache.Overrides()[cache.KeywordsName]); diff != "" {
		t.Errorf("Keyword override mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "segmenter: [unterminated"},
		{"negative sections", "segmenter:\n  max_sections: -1\n"},
		{"depth", "patterns:\n  max_depth: 9\n"},
		{"bad rule", "patterns:\n  rules:\n    - level: 1\n      pattern: '('\n"},
		{"rule level", "patterns:\n  rules:\n    - level: 0\n      pattern: 'x'\n"},
		{"threshold", "cache:\n  patterns:\n    decay_threshold: 1.5\n"},
		{"driver", "persist:\n  driver: redis\n"},
		{"missing path", "persist:\n  driver: sqlite\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "golden.yaml", tt.content)
			_, err := LoadFile(path)
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/golden.yaml"); err == nil {
		t.Error("Should error on nonexistent file")
	}
}

func TestLoadStoplist(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stoplist.yaml", "terms:\n  - the\n  - a\n")
	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"the", "a"}, sl.Terms); diff != "" {
		t.Errorf("Terms mismatch (-want +got):\n%s", diff)
	}
}
