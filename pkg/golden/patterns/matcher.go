// Package patterns detects regular structures (names, numbers, addresses,
// relations) at five increasing levels and scores each rule group by coverage,
// confidence, level weight and how evenly its occurrences are spaced.
package patterns

import (
	"math"
	"sort"
	"strings"

	"github.com/cognicore/golden/pkg/golden/phi"
)

// Defaults for Options.
const (
	DefaultMaxDepth            = MaxLevel
	DefaultConfidenceThreshold = 0.1
)

// goldenPositions are relative offsets that earn a confidence bonus.
var goldenPositions = [...]float64{0.382, 0.618, 0.786}

// Occurrence is a single regexp hit. Offsets are byte offsets into the
// analysed text.
type Occurrence struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Level      int     `json:"fractal_depth"`
}

// Match groups the occurrences of one rule.
type Match struct {
	Pattern     string       `json:"pattern"`
	Occurrences []Occurrence `json:"matches"`
	Score       float64      `json:"score"`
	Frequency   int          `json:"frequency"`
	GoldenRatio float64      `json:"golden_ratio"`
}

// Options configures a Matcher.
type Options struct {
	MaxDepth            int
	ConfidenceThreshold float64
	FractalWeight       float64
	Rules               []Rule // extra rules evaluated with the built-in table
}

// Matcher runs the rule table against text. It is safe for concurrent use.
type Matcher struct {
	maxDepth      int
	threshold     float64
	fractalWeight float64
	extra         []Rule
}

// NewMatcher creates a matcher. Zero MaxDepth, FractalWeight and a negative
// threshold select the defaults; invalid extra rules are dropped.
func NewMatcher(opts Options) *Matcher {
	if opts.MaxDepth <= 0 || opts.MaxDepth > MaxLevel {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.ConfidenceThreshold < 0 {
		opts.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if opts.FractalWeight <= 0 {
		opts.FractalWeight = phi.Phi
	}
	return &Matcher{
		maxDepth:      opts.MaxDepth,
		threshold:     opts.ConfidenceThreshold,
		fractalWeight: opts.FractalWeight,
		extra:         validRules(opts.Rules),
	}
}

// MaxDepth returns the deepest level evaluated by FindPatterns.
func (m *Matcher) MaxDepth() int { return m.maxDepth }

// ConfidenceThreshold returns the minimum group score kept by FindPatterns.
func (m *Matcher) ConfidenceThreshold() float64 { return m.threshold }

// ExtraRules returns the number of configured extra rules.
func (m *Matcher) ExtraRules() int { return len(m.extra) }

// FindPatterns evaluates the built-in table, the configured extra rules and
// any rules passed in, keeping groups whose score reaches the threshold,
// sorted by score descending.
func (m *Matcher) FindPatterns(text string, extra ...Rule) []Match {
	if strings.TrimSpace(text) == "" {
		return []Match{}
	}

	rules := make([]Rule, 0, len(builtinRules)+len(m.extra)+len(extra))
	for _, r := range append(append(BuiltinRules(), m.extra...), validRules(extra)...) {
		if r.Level <= m.maxDepth {
			rules = append(rules, r)
		}
	}
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Level < rules[j].Level })

	results := make([]Match, 0, len(rules))
	for _, rule := range rules {
		occ := m.findOccurrences(text, rule)
		if len(occ) == 0 {
			continue
		}
		score := groupScore(occ, rule, len(text))
		if phi.Round4(score) < m.threshold {
			continue
		}
		results = append(results, Match{
			Pattern:     rule.Label,
			Occurrences: occ,
			Score:       phi.Round4(score),
			Frequency:   len(occ),
			GoldenRatio: phi.Round4(spacingAlignment(occ, len(text))),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// findOccurrences returns every leftmost non-overlapping match. The regexp
// engine always advances past empty matches, so a rule that matches the
// empty string terminates.
func (m *Matcher) findOccurrences(text string, rule Rule) []Occurrence {
	locs := rule.Pattern.FindAllStringIndex(text, -1)
	out := make([]Occurrence, 0, len(locs))
	for _, loc := range locs {
		matched := text[loc[0]:loc[1]]
		out = append(out, Occurrence{
			Start:      loc[0],
			End:        loc[1],
			Text:       matched,
			Confidence: phi.Round4(m.occurrenceConfidence(len(matched), loc[0], len(text), rule.Level)),
			Level:      rule.Level,
		})
	}
	return out
}

func (m *Matcher) occurrenceConfidence(matchLen, pos, total, level int) float64 {
	lengthFactor := math.Min(1, float64(matchLen)/(phi.Phi*10))

	rel := float64(pos) / float64(total)
	var positionBonus float64
	for _, p := range goldenPositions {
		if d := math.Abs(rel - p); d < 0.1 {
			positionBonus += (1 - d) * 0.2
		}
	}

	levelBonus := phi.Fib(level) / 100
	return math.Min(1, (lengthFactor+positionBonus+levelBonus)*(m.fractalWeight/phi.Phi))
}

func groupScore(occ []Occurrence, rule Rule, textLen int) float64 {
	var covered, conf float64
	for _, o := range occ {
		covered += float64(o.End - o.Start)
		conf += o.Confidence
	}
	coverage := covered / float64(textLen)
	avgConf := conf / float64(len(occ))
	saturation := math.Min(1, float64(len(occ))/(phi.Phi*5))
	return coverage * avgConf * rule.Weight * saturation
}

// spacingAlignment scores how closely the gaps between consecutive
// occurrences follow the golden ratio.
func spacingAlignment(occ []Occurrence, textLen int) float64 {
	if len(occ) < 2 {
		return 0
	}
	pos := make([]float64, len(occ))
	for i, o := range occ {
		pos[i] = float64(o.Start) / float64(textLen)
	}
	sort.Float64s(pos)

	var total float64
	for i := 1; i < len(pos); i++ {
		seg1 := pos[i] - pos[i-1]
		seg2 := 1 - pos[i]
		if i+1 < len(pos) {
			seg2 = pos[i+1] - pos[i]
		}
		if seg2 > 0 {
			total += phi.Alignment(seg1 / seg2)
		}
	}
	return total / float64(len(pos)-1)
}

func validRules(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}
