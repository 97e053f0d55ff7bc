// Package lang guesses whether a document is written in English or Italian,
// the two languages covered by the built-in stopword list.
package lang

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Supported are the ISO 639-1 codes Detect can return.
var Supported = []string{"en", "it"}

// minRelativeDistance keeps ambiguous snippets unclassified.
const minRelativeDistance = 0.1

// Detector wraps a lingua detector restricted to the supported languages.
// Language models load on first use.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewDetector returns a detector.
func NewDetector() *Detector {
	return &Detector{}
}

func (d *Detector) init() {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Italian).
			WithMinimumRelativeDistance(minRelativeDistance).
			Build()
	})
}

// Detect returns the lower-case ISO 639-1 code of the language of text, or
// false when the text is blank or too ambiguous to call.
func (d *Detector) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	d.init()
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(language.IsoCode639_1().String()), true
}
