package keywords

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const techText = `Machine learning and artificial intelligence are revolutionary technologies.
Deep learning uses neural networks for pattern recognition.
Natural language processing algorithms analyze large datasets.
Machine learning models learn from data; deep learning models learn representations.`

func TestExtractEmpty(t *testing.T) {
	ex := NewExtractor(Options{})
	for _, in := range []string{"", "   ", "\n\t"} {
		if got := ex.Extract(in, 10); len(got) != 0 {
			t.Errorf("Extract(%q) should be empty, got %v", in, got)
		}
	}
}

func TestExtractOnlyStopwordsAndNumbers(t *testing.T) {
	ex := NewExtractor(Options{})
	if got := ex.Extract("the and 12345 with from 2024", 10); len(got) != 0 {
		t.Errorf("Expected no keywords, got %v", got)
	}
}

func TestExtractExactScores(t *testing.T) {
	ex := NewExtractor(Options{})
	got := ex.Extract("Golang golang rocks", 10)
	want := []Keyword{
		{Term: "golang golang", Score: 5.0716, Frequency: 1, IDF: 1, Confidence: 0.8541},
		{Term: "golang rocks", Score: 3.3302, Frequency: 1, IDF: 1, Confidence: 0.8541},
		{Term: "golang", Score: 1.0291, Frequency: 2, IDF: 1, Confidence: 0.6944},
		{Term: "rocks", Score: 0.7127, Frequency: 1, IDF: 1.0627, Confidence: 0.618},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSortedAndLimited(t *testing.T) {
	ex := NewExtractor(Options{})
	got := ex.Extract(techText, 5)
	if len(got) != 5 {
		t.Fatalf("Expected 5 keywords, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("Keywords not sorted at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
	for _, kw := range got {
		if kw.Confidence < 0 || kw.Confidence > 1 {
			t.Errorf("Confidence out of range for %q: %v", kw.Term, kw.Confidence)
		}
		if kw.IDF < 1 {
			t.Errorf("IDF below floor for %q: %v", kw.Term, kw.IDF)
		}
	}
}

func TestExtractIdempotent(t *testing.T) {
	ex := NewExtractor(Options{})
	first := ex.Extract(techText, 0)
	second := ex.Extract(techText, 0)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Extract is not idempotent (-first +second):\n%s", diff)
	}
}

func TestExtractDefaultLimit(t *testing.T) {
	ex := NewExtractor(Options{MaxKeywords: 3})
	if got := ex.Extract(techText, 0); len(got) != 3 {
		t.Errorf("Expected default limit of 3, got %d", len(got))
	}
}

func TestExtractFindsCompounds(t *testing.T) {
	ex := NewExtractor(Options{})
	found := false
	for _, kw := range ex.Extract(techText, 50) {
		if kw.Term == "deep learning" {
			found = true
			if kw.Frequency != 2 {
				t.Errorf("Expected 'deep learning' frequency 2, got %d", kw.Frequency)
			}
		}
		if strings.Contains(kw.Term, "and ") || kw.Term == "and" {
			t.Errorf("Stopword leaked into %q", kw.Term)
		}
	}
	if !found {
		t.Error("Expected compound term 'deep learning'")
	}
}

func TestExtractMinWordLength(t *testing.T) {
	ex := NewExtractor(Options{MinWordLength: 6})
	for _, kw := range ex.Extract(techText, 50) {
		for _, part := range strings.Fields(kw.Term) {
			if len([]rune(part)) < 6 {
				t.Errorf("Token %q shorter than minimum in %q", part, kw.Term)
			}
		}
	}
}

func TestExtractCustomStopwords(t *testing.T) {
	stops := NewDefaultManager()
	stops.Add("learning")
	ex := NewExtractor(Options{Stopwords: stops})
	for _, kw := range ex.Extract(techText, 50) {
		if strings.Contains(kw.Term, "learning") {
			t.Errorf("Custom stopword leaked into %q", kw.Term)
		}
	}
}

func TestGoldenBoost(t *testing.T) {
	if goldenBoost(0.005) >= 1 {
		t.Error("Rare terms should be penalised")
	}
	if goldenBoost(0.9) >= 1 {
		t.Error("Over-frequent terms should be penalised")
	}
	if goldenBoost(0.382) <= 1 {
		t.Error("Frequencies near 1/φ² should be boosted")
	}
}
