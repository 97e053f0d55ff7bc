package keywords

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizeBasic(t *testing.T) {
	tok := NewTokenizer(3)
	got := tok.Tokenize("The quick, brown fox! It's 2024 and fox_trot.")
	want := []string{"the", "quick", "brown", "fox", "and", "fox_trot"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeUnicode(t *testing.T) {
	tok := NewTokenizer(3)
	// "città" written with a combining grave accent must normalise to one token.
	got := tok.Tokenize("Citta\u0300 PERCHÉ")
	want := []string{"città", "perché"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeDropsNumbers(t *testing.T) {
	tok := NewTokenizer(1)
	got := tok.Tokenize("42 gpt4 7")
	if len(got) != 1 || got[0] != "gpt4" {
		t.Errorf("Expected only mixed token, got %v", got)
	}
}
