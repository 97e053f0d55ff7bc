// Package keywords extracts weighted single and two-word keywords from a
// document.
//
// No external corpus is consulted. The inverse document frequency is
// simulated from in-document statistics only (term length relative to the
// average candidate length and how many candidates share the term's first
// word), so scores depend on nothing but the text and the options.
//
// Scores, IDF values and confidences are rounded to four decimals.
package keywords

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/golden/pkg/golden/phi"
)

// Defaults for Options.
const (
	DefaultMinWordLength = 3
	DefaultMaxKeywords   = 20
)

// Bigram members must be at least this long regardless of MinWordLength.
const minBigramPartLength = 3

// Keyword is a scored term.
type Keyword struct {
	Term       string  `json:"keyword"`
	Score      float64 `json:"score"`
	Frequency  int     `json:"frequency"`
	IDF        float64 `json:"idf"`
	Confidence float64 `json:"confidence"`
}

// Options configures an Extractor.
type Options struct {
	MinWordLength int
	MaxKeywords   int
	Stopwords     *Manager // nil selects the built-in list
}

// Extractor scores keywords. It holds no per-document state and is safe for
// concurrent use.
type Extractor struct {
	minWordLength int
	maxKeywords   int
	tokenizer     *Tokenizer
	stops         *Manager
}

// NewExtractor creates an extractor, filling zero options with defaults.
func NewExtractor(opts Options) *Extractor {
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = DefaultMinWordLength
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = DefaultMaxKeywords
	}
	if opts.Stopwords == nil {
		opts.Stopwords = NewDefaultManager()
	}
	return &Extractor{
		minWordLength: opts.MinWordLength,
		maxKeywords:   opts.MaxKeywords,
		tokenizer:     NewTokenizer(opts.MinWordLength),
		stops:         opts.Stopwords,
	}
}

// MinWordLength returns the effective minimum token length.
func (e *Extractor) MinWordLength() int { return e.minWordLength }

// MaxKeywords returns the effective default result limit.
func (e *Extractor) MaxKeywords() int { return e.maxKeywords }

// Stopwords returns the stopword manager in use.
func (e *Extractor) Stopwords() *Manager { return e.stops }

// Extract returns at most maxKeywords keywords sorted by score descending.
// A non-positive maxKeywords selects the extractor's default.
func (e *Extractor) Extract(text string, maxKeywords int) []Keyword {
	if maxKeywords <= 0 {
		maxKeywords = e.maxKeywords
	}
	if strings.TrimSpace(text) == "" {
		return []Keyword{}
	}

	tokens := e.tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return []Keyword{}
	}

	terms, freqs := e.termFrequencies(tokens)
	valid := make([]string, 0, len(terms))
	for _, term := range terms {
		if e.isValidTerm(term) {
			valid = append(valid, term)
		}
	}
	if len(valid) == 0 {
		return []Keyword{}
	}

	total := float64(len(tokens))
	idfs := simulatedIDF(valid, total)

	results := make([]Keyword, 0, len(valid))
	for _, term := range valid {
		freq := freqs[term]
		idf := idfs[term]
		relFreq := float64(freq) / total

		score := relFreq * idf * fibonacciWeight(term) * goldenBoost(relFreq)
		conf := confidence(relFreq, utf8.RuneCountInString(term))

		results = append(results, Keyword{
			Term:       term,
			Score:      phi.Round4(score),
			Frequency:  freq,
			IDF:        phi.Round4(idf),
			Confidence: phi.Round4(conf),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxKeywords {
		results = results[:maxKeywords]
	}
	return results
}

// termFrequencies counts single tokens and significant bigrams. The returned
// slice lists every distinct term in first-seen order: all single tokens
// first, then bigrams.
func (e *Extractor) termFrequencies(tokens []string) ([]string, map[string]int) {
	freqs := make(map[string]int, len(tokens))
	var order []string
	bump := func(term string) {
		if _, ok := freqs[term]; !ok {
			order = append(order, term)
		}
		freqs[term]++
	}

	for _, tok := range tokens {
		bump(tok)
	}
	for i := 0; i+1 < len(tokens); i++ {
		if e.isSignificantBigram(tokens[i], tokens[i+1]) {
			bump(tokens[i] + " " + tokens[i+1])
		}
	}
	return order, freqs
}

func (e *Extractor) isValidTerm(term string) bool {
	if e.stops.IsStop(term) {
		return false
	}
	if strings.Contains(term, " ") {
		for _, word := range strings.Split(term, " ") {
			if e.stops.IsStop(word) {
				return false
			}
		}
	}
	return utf8.RuneCountInString(strings.ReplaceAll(term, " ", "")) >= e.minWordLength
}

func (e *Extractor) isSignificantBigram(w1, w2 string) bool {
	if e.stops.IsStop(w1) || e.stops.IsStop(w2) {
		return false
	}
	return utf8.RuneCountInString(w1) >= minBigramPartLength &&
		utf8.RuneCountInString(w2) >= minBigramPartLength
}

// simulatedIDF derives an IDF-like weight per term from the candidate set.
// The exact formula is relied upon for ordering and must not change.
func simulatedIDF(terms []string, totalTokens float64) map[string]float64 {
	var lenSum float64
	for _, term := range terms {
		lenSum += float64(utf8.RuneCountInString(term))
	}
	avgLen := lenSum / float64(len(terms))

	out := make(map[string]float64, len(terms))
	for _, term := range terms {
		lengthFactor := float64(utf8.RuneCountInString(term)) / avgLen

		head, _, _ := strings.Cut(term, " ")
		sharing := 0
		for _, other := range terms {
			if strings.Contains(other, head) {
				sharing++
			}
		}
		rarity := totalTokens / float64(sharing+1)

		idf := math.Log(totalTokens/(1+lengthFactor)) * (1 + rarity/phi.Phi)
		out[term] = math.Max(1, idf)
	}
	return out
}

// fibonacciWeight rewards longer terms, measured without spaces.
func fibonacciWeight(term string) float64 {
	n := utf8.RuneCountInString(strings.ReplaceAll(term, " ", ""))
	return 1 + phi.Fib(n)/(phi.Phi*10)
}

var boostRatios = [...]float64{1 / phi.Phi, 1 / (phi.Phi * phi.Phi), phi.Phi / 10, 1 / phi.Phi / 2}

// goldenBoost favours relative frequencies close to golden fractions and
// penalises very frequent (>30%) or very rare (<1%) terms.
func goldenBoost(relFreq float64) float64 {
	boost := 1.0
	for _, ratio := range boostRatios {
		d := math.Abs(relFreq - ratio)
		if d < 0.1 {
			boost *= 1 + (1-d)*0.5
		}
	}
	if relFreq > 0.3 {
		boost *= 0.7
	}
	if relFreq < 0.01 {
		boost *= 0.8
	}
	return boost
}

func confidence(relFreq float64, termLength int) float64 {
	freqConf := math.Min(1, relFreq*phi.Phi*10)
	lengthConf := math.Min(1, float64(termLength)/(phi.Phi*5))
	combined := freqConf*(1/phi.Phi) + lengthConf*phi.Phi
	return math.Min(1, combined/(1+phi.Phi))
}
