package patterns

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/golden/pkg/golden/phi"
)

// DefaultRecursiveDepth is used when FindRecursivePatterns gets depth <= 0.
const DefaultRecursiveDepth = 3

const (
	minSegmentLength = 20
	minWordRunes     = 3
	minChunkSize     = 3
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

type fractalSegment struct {
	start, end int
	level      int
}

// FindRecursivePatterns splits text into overlapping self-similar segments
// whose length shrinks by φ per level and reports words recurring at least
// twice inside a segment. Groups sharing a base label (the part before the
// first colon) are merged across segments and levels.
func (m *Matcher) FindRecursivePatterns(text string, depth int) []Match {
	if depth <= 0 {
		depth = DefaultRecursiveDepth
	}
	if strings.TrimSpace(text) == "" {
		return []Match{}
	}

	var found []Match
	for _, seg := range fractalSegments(text, depth) {
		found = append(found, recurringWords(text, seg)...)
	}
	return mergeByLabel(found)
}

func fractalSegments(text string, depth int) []fractalSegment {
	var out []fractalSegment
	n := len(text)
	for level := 1; level <= depth; level++ {
		segLen := int(math.Floor(float64(n) / phi.Pow(float64(level-1))))
		if segLen < minSegmentLength {
			break
		}
		step := int(math.Floor(float64(segLen) / phi.Phi))
		for i := 0; i+segLen <= n; i += step {
			start := runeStart(text, i)
			end := runeStart(text, i+segLen)
			out = append(out, fractalSegment{start: start, end: end, level: level})
		}
	}
	return out
}

// recurringWords reports words seen at least twice in the segment. Offsets
// are absolute positions in text.
func recurringWords(text string, seg fractalSegment) []Match {
	segText := text[seg.start:seg.end]

	type wordHits struct {
		word string
		locs [][]int
	}
	var order []*wordHits
	index := make(map[string]*wordHits)
	total := 0
	for _, loc := range wordPattern.FindAllStringIndex(segText, -1) {
		word := strings.ToLower(segText[loc[0]:loc[1]])
		if utf8.RuneCountInString(word) < minWordRunes {
			continue
		}
		total++
		h, ok := index[word]
		if !ok {
			h = &wordHits{word: word}
			index[word] = h
			order = append(order, h)
		}
		h.locs = append(h.locs, loc)
	}

	fib := phi.Fib(seg.level)
	var out []Match
	for _, h := range order {
		count := len(h.locs)
		if count < 2 {
			continue
		}
		score := float64(count) / float64(total) * fib * phi.Phi
		occ := make([]Occurrence, count)
		for i, loc := range h.locs {
			occ[i] = Occurrence{
				Start:      seg.start + loc[0],
				End:        seg.start + loc[1],
				Text:       h.word,
				Confidence: math.Min(1, score),
				Level:      seg.level,
			}
		}
		out = append(out, Match{
			Pattern:     fmt.Sprintf("Recurring: %q", h.word),
			Occurrences: occ,
			Score:       phi.Round4(score),
			Frequency:   count,
		})
	}
	return out
}

// mergeByLabel folds groups sharing a base label. The first group's label
// is kept, occurrences are concatenated, frequencies summed and the best
// score kept.
func mergeByLabel(found []Match) []Match {
	merged := make([]Match, 0, len(found))
	index := make(map[string]int)
	for _, m := range found {
		base, _, _ := strings.Cut(m.Pattern, ":")
		if i, ok := index[base]; ok {
			existing := &merged[i]
			existing.Occurrences = append(existing.Occurrences, m.Occurrences...)
			existing.Frequency += m.Frequency
			existing.Score = math.Max(existing.Score, m.Score)
			continue
		}
		index[base] = len(merged)
		m.Occurrences = append([]Occurrence(nil), m.Occurrences...)
		merged = append(merged, m)
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	return merged
}

// FractalDimension estimates textual complexity as the level-weighted
// uniqueness of fixed-size chunks at geometrically shrinking sizes, clamped
// to [0.1, 2.0]. Texts under five characters return 0.5.
func (m *Matcher) FractalDimension(text string) float64 {
	runes := []rune(text)
	n := len(runes)
	if n < 5 {
		return 0.5
	}

	levels := int(math.Floor(math.Log(float64(n)) / math.Log(phi.Phi)))
	levels = min(5, max(1, levels))

	var complexity float64
	valid := 0
	for level := 1; level <= levels; level++ {
		size := int(math.Floor(float64(n) / phi.Pow(float64(level))))
		if size < minChunkSize {
			break
		}
		complexity += uniqueness(runes, size) * phi.Pow(float64(level-1))
		valid++
	}
	if valid == 0 {
		return 0.5
	}
	return phi.Clamp(complexity/float64(valid), 0.1, 2.0)
}

func uniqueness(runes []rune, size int) float64 {
	seen := make(map[string]struct{})
	chunks := 0
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		seen[string(runes[i:end])] = struct{}{}
		chunks++
	}
	return float64(len(seen)) / float64(chunks)
}

func runeStart(text string, i int) int {
	for i < len(text) && !utf8.RuneStart(text[i]) {
		i++
	}
	return min(i, len(text))
}
