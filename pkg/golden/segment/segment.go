// Package segment splits text into ordered sections whose cut points sit near
// golden-ratio fractions of the text, snapped to the strongest nearby
// linguistic boundary.
package segment

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/golden/pkg/golden/phi"
)

// Ratios are the target cut points as fractions of the text length.
var Ratios = [...]float64{0.382, 0.618, 0.786, 0.854, 0.91, 0.944}

// DefaultMaxSections is one more than the number of target ratios.
const DefaultMaxSections = len(Ratios) + 1

// Section is a contiguous slice of the input.
type Section struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Ratio      float64 `json:"ratio"`      // End / total length
	Importance float64 `json:"importance"` // (1/φ)^index
	Content    string  `json:"content"`
}

type boundaryRule struct {
	re     *regexp.Regexp
	weight float64
	// capitalNext requires the rune right after the match to open a sentence.
	capitalNext bool
}

var boundaryRules = []boundaryRule{
	{re: regexp.MustCompile(`\n{2,}`), weight: 1.0},
	{re: regexp.MustCompile(`\n[-*•]\s+`), weight: 0.9},
	{re: regexp.MustCompile(`[.?!]\s+`), weight: 0.75, capitalNext: true},
	{re: regexp.MustCompile(`[,;:]\s+`), weight: 0.5},
}

const endOfTextWeight = 0.2

type candidate struct {
	index  int
	weight float64
}

// Split segments text into at most maxSections sections. A non-positive
// maxSections selects DefaultMaxSections. Offsets are byte offsets.
func Split(text string, maxSections int) []Section {
	total := len(text)
	if total == 0 {
		return []Section{}
	}
	if maxSections <= 0 {
		maxSections = DefaultMaxSections
	}

	cands := candidates(text)
	sections := make([]Section, 0, maxSections)
	push := func(s, e int) {
		content := strings.TrimSpace(text[s:e])
		if content == "" {
			return
		}
		sections = append(sections, Section{
			Start:      s,
			End:        e,
			Ratio:      float64(e) / float64(total),
			Importance: math.Pow(phi.InvPhi, float64(len(sections))),
			Content:    content,
		})
	}

	start := 0
	cuts := min(len(Ratios), maxSections-1)
	for i := 0; i < cuts && start < total; i++ {
		target := int(math.Floor(float64(total) * Ratios[i]))
		end := pickBreak(cands, target, total)
		end = snapToRune(text, max(end, start+1))
		push(start, end)
		start = end
	}
	if start < total {
		push(start, total)
	}
	return sections
}

func candidates(text string) []candidate {
	var out []candidate
	for _, rule := range boundaryRules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			if rule.capitalNext && !opensSentence(text[loc[1]:]) {
				continue
			}
			out = append(out, candidate{index: loc[1], weight: rule.weight})
		}
	}
	out = append(out, candidate{index: len(text), weight: endOfTextWeight})
	sort.SliceStable(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

// opensSentence reports whether rest starts with an upper-case Latin letter
// (including Latin-1 accented capitals) or a digit.
func opensSentence(rest string) bool {
	r, size := utf8.DecodeRuneInString(rest)
	if size == 0 {
		return false
	}
	switch {
	case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= 'À' && r <= 'Ö', r >= 'Ø' && r <= 'Ý':
		return true
	}
	return false
}

// pickBreak returns the candidate nearest to target within the search radius,
// ranked by distance/weight, or target itself when none is in range.
func pickBreak(cands []candidate, target, total int) int {
	radius := max(40, int(math.Floor(float64(total)/(phi.Phi*10))))
	best, bestScore := target, math.Inf(1)
	for _, c := range cands {
		dist := c.index - target
		if dist < 0 {
			dist = -dist
		}
		if dist > radius {
			continue
		}
		score := float64(dist) / c.weight
		if score < bestScore && c.index > 0 {
			bestScore = score
			best = c.index
		}
	}
	return min(max(best, 1), total)
}

// snapToRune moves i forward to the next rune boundary.
func snapToRune(text string, i int) int {
	for i < len(text) && !utf8.RuneStart(text[i]) {
		i++
	}
	return min(i, len(text))
}
