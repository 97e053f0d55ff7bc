// Package classify assigns a document to one of a closed set of categories
// by summing weighted signals (keywords, structural metrics, absences and
// ratios) per category and comparing the best score with the runner-up.
package classify

import (
	"maps"
	"math"
	"slices"
	"sort"

	"github.com/cognicore/golden/pkg/golden/phi"
)

// Category is a document type.
type Category string

const (
	Invoice  Category = "invoice"
	Email    Category = "email"
	Contract Category = "contract"
	Report   Category = "report"
	Letter   Category = "letter"
)

// DefaultCategory is reported when no signal fires.
const DefaultCategory = Letter

// maxMatchedFeatures bounds Result.MatchedFeatures.
const maxMatchedFeatures = 8

// Categories returns every category in evaluation order.
func Categories() []Category {
	return []Category{Invoice, Email, Contract, Report, Letter}
}

// Feature is a fired signal with its final weight.
type Feature struct {
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Weight      float64  `json:"weight"`
}

// RankedCategory pairs a category with its score.
type RankedCategory struct {
	Type  Category `json:"type"`
	Score float64  `json:"score"`
}

// Result is the outcome of a classification.
type Result struct {
	Type            Category             `json:"type"`
	Confidence      float64              `json:"confidence"`
	Scores          map[Category]float64 `json:"scores"`
	Ranked          []RankedCategory     `json:"ranked"`
	Features        []Feature            `json:"features"`
	MatchedFeatures []Feature            `json:"matched_features"`
}

// Clone returns a copy of r that shares no maps or slices with it.
func (r Result) Clone() Result {
	r.Scores = maps.Clone(r.Scores)
	r.Ranked = slices.Clone(r.Ranked)
	r.Features = slices.Clone(r.Features)
	r.MatchedFeatures = slices.Clone(r.MatchedFeatures)
	return r
}

// Classifier is stateless and safe for concurrent use.
type Classifier struct{}

// New creates a classifier.
func New() *Classifier { return &Classifier{} }

// Classify scores text against every category.
func (c *Classifier) Classify(text string) Result {
	doc := newDocument(text)

	scores := make(map[Category]float64, len(categoryConfigs))
	ranked := make([]RankedCategory, 0, len(categoryConfigs))
	byCategory := make(map[Category][]Feature, len(categoryConfigs))
	var all []Feature

	for _, cfg := range categoryConfigs {
		score := cfg.bias
		var matched []Feature
		for i, sig := range cfg.signals {
			w, desc, ok := sig.evaluate(doc)
			if !ok {
				continue
			}
			weighted := phi.Round3(w * (1 + float64(i)/(phi.Phi*8)))
			score += weighted
			matched = append(matched, Feature{Category: cfg.category, Description: desc, Weight: weighted})
		}
		sortFeatures(matched)

		scores[cfg.category] = phi.Round3(score)
		ranked = append(ranked, RankedCategory{Type: cfg.category, Score: scores[cfg.category]})
		byCategory[cfg.category] = matched
		all = append(all, matched...)
	}
	sortFeatures(all)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	res := Result{
		Type:            DefaultCategory,
		Scores:          scores,
		Ranked:          ranked,
		Features:        all,
		MatchedFeatures: []Feature{},
	}
	if res.Features == nil {
		res.Features = []Feature{}
	}
	if len(all) == 0 {
		return res
	}

	best, second := ranked[0], ranked[1]
	res.Type = best.Type
	if best.Score > 0 {
		conf := math.Min(0.99, best.Score/(best.Score+second.Score/phi.Phi+1/phi.Phi))
		res.Confidence = phi.Round3(conf)
	}
	matched := byCategory[best.Type]
	res.MatchedFeatures = append(res.MatchedFeatures, matched[:min(len(matched), maxMatchedFeatures)]...)
	return res
}

// ClassifyBatch classifies each text independently.
func (c *Classifier) ClassifyBatch(texts []string) []Result {
	out := make([]Result, len(texts))
	for i, text := range texts {
		out[i] = c.Classify(text)
	}
	return out
}

func sortFeatures(f []Feature) {
	sort.SliceStable(f, func(i, j int) bool { return f[i].Weight > f[j].Weight })
}
