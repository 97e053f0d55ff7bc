package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits text into lower-cased word tokens.
// Stopwords are kept: they count towards the document's token total and are
// filtered later, when candidate terms are chosen.
type Tokenizer struct {
	minLength int
}

// NewTokenizer creates a tokenizer that drops tokens shorter than minLength runes.
func NewTokenizer(minLength int) *Tokenizer {
	if minLength < 1 {
		minLength = 1
	}
	return &Tokenizer{minLength: minLength}
}

// Tokenize normalizes text to NFC, lower-cases it, treats every rune that is
// neither a word rune nor a space as a separator and returns the surviving
// tokens in order. Pure-digit tokens are discarded.
func (t *Tokenizer) Tokenize(text string) []string {
	text = norm.NFC.String(text)

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if utf8.RuneCountInString(word) < t.minLength || isNumericOnly(word) {
			return
		}
		tokens = append(tokens, word)
	}

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '_'
}

// isNumericOnly returns true if the token contains only digits.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
