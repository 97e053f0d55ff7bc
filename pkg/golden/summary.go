package golden

import (
	"math"
	"sort"

	"github.com/cognicore/golden/pkg/golden/keywords"
	"github.com/cognicore/golden/pkg/golden/patterns"
	"github.com/cognicore/golden/pkg/golden/phi"
	"github.com/cognicore/golden/pkg/golden/segment"
)

// Weights of keyword confidence and pattern spacing in Summary.Confidence.
const (
	keywordConfidenceWeight = 0.618
	patternConfidenceWeight = 0.382
)

// summarize combines analyzer outputs; ProcessingTime is left to the caller.
func summarize(sections []segment.Section, kws []keywords.Keyword, pats []patterns.Match) Summary {
	return Summary{
		GoldenRatio: phi.Round4(sectionRatio(sections)),
		Complexity:  phi.Round4(complexity(kws, pats)),
		Confidence:  phi.Round4(confidence(kws, pats)),
	}
}

// sectionRatio is the mean alignment with φ of consecutive section ratios,
// sorted descending.
func sectionRatio(sections []segment.Section) float64 {
	if len(sections) < 2 {
		return 0
	}
	ratios := make([]float64, len(sections))
	for i, s := range sections {
		ratios[i] = s.Ratio
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ratios)))

	var total float64
	for i := 1; i < len(ratios); i++ {
		if ratios[i] > 0 {
			total += phi.Alignment(ratios[i-1] / ratios[i])
		}
	}
	return total / float64(len(ratios)-1)
}

func complexity(kws []keywords.Keyword, pats []patterns.Match) float64 {
	n := len(kws) + len(pats)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, k := range kws {
		sum += k.Score
	}
	for _, p := range pats {
		sum += p.Score
	}
	return math.Min(1, sum/float64(n)*phi.Phi)
}

func confidence(kws []keywords.Keyword, pats []patterns.Match) float64 {
	var kwConf, patConf float64
	for _, k := range kws {
		kwConf += k.Confidence
	}
	for _, p := range pats {
		patConf += p.GoldenRatio
	}
	kwConf /= float64(max(1, len(kws)))
	patConf /= float64(max(1, len(pats)))
	return kwConf*keywordConfidenceWeight + patConf*patternConfidenceWeight
}
