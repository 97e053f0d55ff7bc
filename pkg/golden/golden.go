package golden

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/golden/pkg/golden/cache"
	"github.com/cognicore/golden/pkg/golden/classify"
	"github.com/cognicore/golden/pkg/golden/keywords"
	"github.com/cognicore/golden/pkg/golden/patterns"
	"github.com/cognicore/golden/pkg/golden/phi"
	"github.com/cognicore/golden/pkg/golden/segment"
)

// Defaults for Options.
var (
	DefaultMaxSections  = int(math.Floor(phi.Phi * 4))
	DefaultMaxKeywords  = int(math.Floor(phi.Phi * 10))
	DefaultMaxPatterns  = int(math.Floor(phi.Phi * 5))
	DefaultPatternDepth = 4
)

const previewRunes = 200

// LanguageDetector guesses the language of a text.
type LanguageDetector interface {
	Detect(text string) (code string, ok bool)
}

// Options configures an Engine.
type Options struct {
	MaxSections   int
	MaxKeywords   int
	MinWordLength int
	Stopwords     *keywords.Manager
	MaxPatterns   int
	PatternDepth  int
	PatternRules  []patterns.Rule

	Caches   *Caches          // nil disables caching
	Detector LanguageDetector // nil disables language detection
	Logger   *slog.Logger
	Now      func() time.Time
}

// Engine is the main analysis facade. It is safe for concurrent use.
type Engine struct {
	opts       Options
	extractor  *keywords.Extractor
	matcher    *patterns.Matcher
	classifier *classify.Classifier
	caches     *Caches
	rulesKey   string
	logger     *slog.Logger

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// New creates an Engine, filling zero options with defaults.
func New(opts Options) *Engine {
	if opts.MaxSections <= 0 {
		opts.MaxSections = DefaultMaxSections
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = DefaultMaxKeywords
	}
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = keywords.DefaultMinWordLength
	}
	if opts.MaxPatterns <= 0 {
		opts.MaxPatterns = DefaultMaxPatterns
	}
	if opts.PatternDepth <= 0 || opts.PatternDepth > patterns.MaxLevel {
		opts.PatternDepth = DefaultPatternDepth
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	matcher := patterns.NewMatcher(patterns.Options{
		MaxDepth:            opts.PatternDepth,
		ConfidenceThreshold: patterns.DefaultConfidenceThreshold,
		Rules:               opts.PatternRules,
	})

	return &Engine{
		opts: opts,
		extractor: keywords.NewExtractor(keywords.Options{
			MinWordLength: opts.MinWordLength,
			MaxKeywords:   opts.MaxKeywords,
			Stopwords:     opts.Stopwords,
		}),
		matcher:    matcher,
		classifier: classify.New(),
		caches:     opts.Caches,
		rulesKey:   rulesFingerprint(opts.PatternRules),
		logger:     opts.Logger,
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}
}

// Selection chooses which analyzers AnalyzePartial runs.
type Selection struct {
	Sections       bool
	Keywords       bool
	Patterns       bool
	Classification bool
}

// All selects every analyzer.
func All() Selection {
	return Selection{Sections: true, Keywords: true, Patterns: true, Classification: true}
}

func (s Selection) any() bool {
	return s.Sections || s.Keywords || s.Patterns || s.Classification
}

// Input describes the analysed text.
type Input struct {
	Preview   string    `json:"preview"`
	Length    int       `json:"length"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary aggregates the analyzer outputs. Ratios are rounded to four
// decimals.
type Summary struct {
	GoldenRatio    float64 `json:"golden_ratio"`
	Complexity     float64 `json:"complexity"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime int64   `json:"processing_time_ms"`
}

// CacheInfo counts cache lookups made for one analysis.
type CacheInfo struct {
	Hits       int     `json:"hits"`
	Misses     int     `json:"misses"`
	Efficiency float64 `json:"efficiency"`
}

// AnalysisResult is the outcome of Analyze. Parts that were not selected are
// nil.
type AnalysisResult struct {
	ID             string             `json:"id"`
	Input          Input              `json:"input"`
	Sections       []segment.Section  `json:"sections"`
	Keywords       []keywords.Keyword `json:"keywords"`
	Patterns       []patterns.Match   `json:"patterns"`
	Classification *classify.Result   `json:"classification"`
	Language       string             `json:"language,omitempty"`
	Summary        *Summary           `json:"summary"`
	Cache          CacheInfo          `json:"cache"`
}

// Analyze runs every analyzer over text.
func (e *Engine) Analyze(ctx context.Context, text string) AnalysisResult {
	return e.AnalyzePartial(ctx, text, All())
}

// AnalyzePartial runs the selected analyzers. The summary is only computed
// when at least one analyzer ran.
func (e *Engine) AnalyzePartial(ctx context.Context, text string, sel Selection) AnalysisResult {
	start := e.opts.Now()
	hash := hashText(text)
	var info CacheInfo

	res := AnalysisResult{
		ID: e.newID(start),
		Input: Input{
			Preview:   preview(text),
			Length:    utf8.RuneCountInString(text),
			Timestamp: start,
		},
	}

	if sel.Sections {
		res.Sections = e.sections(text, hash, &info)
	}
	if sel.Keywords {
		res.Keywords = e.keywords(text, hash, &info)
	}
	if sel.Patterns {
		res.Patterns = e.patterns(text, hash, &info)
	}
	if sel.Classification {
		c := e.classification(text, hash, &info)
		res.Classification = &c
	}
	if e.opts.Detector != nil {
		if code, ok := e.opts.Detector.Detect(text); ok {
			res.Language = code
		}
	}

	if sel.any() {
		s := summarize(res.Sections, res.Keywords, res.Patterns)
		s.ProcessingTime = e.opts.Now().Sub(start).Milliseconds()
		res.Summary = &s
	}
	if total := info.Hits + info.Misses; total > 0 {
		info.Efficiency = phi.Round4(float64(info.Hits) / float64(total))
	}
	res.Cache = info

	e.logger.Debug("analysis complete",
		"id", res.ID,
		"length", res.Input.Length,
		"sections", len(res.Sections),
		"keywords", len(res.Keywords),
		"patterns", len(res.Patterns),
		"cache_hits", info.Hits,
		"cache_misses", info.Misses,
	)
	return res
}

// Classify runs the document classifier only.
func (e *Engine) Classify(ctx context.Context, text string) classify.Result {
	var info CacheInfo
	return e.classification(text, hashText(text), &info)
}

// Sections runs the segmenter only.
func (e *Engine) Sections(ctx context.Context, text string) []segment.Section {
	var info CacheInfo
	return e.sections(text, hashText(text), &info)
}

// Keywords runs keyword extraction with an explicit limit, bypassing the
// cache when limit differs from the configured one.
func (e *Engine) Keywords(ctx context.Context, text string, limit int) []keywords.Keyword {
	if limit <= 0 || limit == e.opts.MaxKeywords {
		var info CacheInfo
		return e.keywords(text, hashText(text), &info)
	}
	return e.extractor.Extract(text, limit)
}

// Patterns runs the rule-based pattern matcher only.
func (e *Engine) Patterns(ctx context.Context, text string) []patterns.Match {
	var info CacheInfo
	return e.patterns(text, hashText(text), &info)
}

// RecursivePatterns reports words that recur across self-similar segments.
func (e *Engine) RecursivePatterns(ctx context.Context, text string, depth int) []patterns.Match {
	return e.matcher.FindRecursivePatterns(text, depth)
}

// FractalDimension estimates the textual complexity of text.
func (e *Engine) FractalDimension(ctx context.Context, text string) float64 {
	return e.matcher.FractalDimension(text)
}

func (e *Engine) sections(text, hash string, info *CacheInfo) []segment.Section {
	key := cacheKey(cache.SectionsName, hash, strconv.Itoa(e.opts.MaxSections))
	return cached(e.caches.sections(), key, info, slices.Clone[[]segment.Section], func() []segment.Section {
		return segment.Split(text, e.opts.MaxSections)
	})
}

func (e *Engine) keywords(text, hash string, info *CacheInfo) []keywords.Keyword {
	config := strconv.Itoa(e.opts.MaxKeywords) + "-" + strconv.Itoa(e.opts.MinWordLength) + "-" + stopwordsFingerprint(e.extractor.Stopwords())
	key := cacheKey(cache.KeywordsName, hash, config)
	return cached(e.caches.keywords(), key, info, slices.Clone[[]keywords.Keyword], func() []keywords.Keyword {
		return e.extractor.Extract(text, e.opts.MaxKeywords)
	})
}

func (e *Engine) patterns(text, hash string, info *CacheInfo) []patterns.Match {
	key := cacheKey(cache.PatternsName, hash, strconv.Itoa(e.opts.PatternDepth)+"-"+e.rulesKey)
	return cached(e.caches.patterns(), key, info, cloneMatches, func() []patterns.Match {
		found := e.matcher.FindPatterns(text)
		if len(found) > e.opts.MaxPatterns {
			found = found[:e.opts.MaxPatterns]
		}
		return found
	})
}

func (e *Engine) classification(text, hash string, info *CacheInfo) classify.Result {
	key := cacheKey(cache.ClassificationName, hash, "")
	return cached(e.caches.classification(), key, info, classify.Result.Clone, func() classify.Result {
		return e.classifier.Classify(text)
	})
}

// cached returns the value under key, computing and storing it on a miss.
// Values cross the cache boundary through clone so callers never share
// memory with a cached entry. A nil cache computes without counting.
func cached[T any](c *cache.Cache[T], key string, info *CacheInfo, clone func(T) T, compute func() T) T {
	if c == nil {
		return compute()
	}
	if v, ok := c.Get(key); ok {
		info.Hits++
		return clone(v)
	}
	v := compute()
	c.Set(key, clone(v))
	info.Misses++
	return v
}

func cloneMatches(ms []patterns.Match) []patterns.Match {
	if ms == nil {
		return nil
	}
	out := make([]patterns.Match, len(ms))
	for i, m := range ms {
		m.Occurrences = slices.Clone(m.Occurrences)
		out[i] = m
	}
	return out
}

func (e *Engine) newID(t time.Time) string {
	e.entropyMu.Lock()
	defer e.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), e.entropy).String()
}

func hashText(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}

func cacheKey(component, hash, config string) string {
	return component + ":" + hash + ":" + config
}

func rulesFingerprint(rules []patterns.Rule) string {
	if len(rules) == 0 {
		return "builtin"
	}
	d := xxhash.New()
	for _, r := range rules {
		d.WriteString(strconv.Itoa(r.Level))
		d.WriteString("\x00")
		if r.Pattern != nil {
			d.WriteString(r.Pattern.String())
		}
		d.WriteString("\x00")
		d.WriteString(strconv.FormatFloat(r.Weight, 'g', -1, 64))
		d.WriteString("\x00")
		d.WriteString(r.Label)
		d.WriteString("\x01")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// stopwordsFingerprint hashes the sorted stopword set.
func stopwordsFingerprint(m *keywords.Manager) string {
	d := xxhash.New()
	for _, w := range m.All() {
		d.WriteString(w)
		d.WriteString("\x00")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	var b strings.Builder
	n := 0
	for _, r := range text {
		if n == previewRunes {
			break
		}
		b.WriteRune(r)
		n++
	}
	b.WriteString("...")
	return b.String()
}
