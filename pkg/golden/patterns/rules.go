package patterns

import (
	"fmt"
	"math"
	"regexp"

	"github.com/cognicore/golden/pkg/golden/internalerr"
	"github.com/cognicore/golden/pkg/golden/phi"
)

// MaxLevel is the deepest rule level.
const MaxLevel = 5

// Rule is a regular-expression detector at a given level. Weight grows
// geometrically with the level in the built-in table.
type Rule struct {
	Level   int
	Pattern *regexp.Regexp
	Weight  float64
	Label   string
}

// Valid reports whether the rule can be evaluated.
func (r Rule) Valid() bool {
	return r.Pattern != nil && r.Level >= 1 && r.Level <= MaxLevel && r.Weight > 0
}

// NewRule compiles expr into a rule. A zero weight selects φ^(level-1).
func NewRule(level int, expr string, weight float64, label string) (Rule, error) {
	if level < 1 || level > MaxLevel {
		return Rule{}, fmt.Errorf("rule %q level %d: %w", label, level, internalerr.ErrInvalidInput)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", label, err)
	}
	if weight <= 0 {
		weight = levelWeight(level)
	}
	if label == "" {
		label = expr
	}
	return Rule{Level: level, Pattern: re, Weight: weight, Label: label}, nil
}

func levelWeight(level int) float64 {
	return math.Pow(phi.Phi, float64(level-1))
}

// builtinRules is evaluated in order; the order is part of the output contract.
var builtinRules = []Rule{
	// Level 1: surface tokens
	{Level: 1, Pattern: regexp.MustCompile(`\b[A-Z][a-z]+\b`), Weight: 1.0, Label: "Capitalized words"},
	{Level: 1, Pattern: regexp.MustCompile(`\b\d{1,3}(?:,\d{3})*(?:\.\d+)?\b`), Weight: 0.8, Label: "Formatted numbers"},
	{Level: 1, Pattern: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), Weight: 1.2, Label: "Email"},

	// Level 2: composite tokens
	{Level: 2, Pattern: regexp.MustCompile(`\b(?:https?://)?(?:www\.)?[a-zA-Z0-9-]+\.[a-zA-Z]{2,}(?:/[^\s]*)?\b`), Weight: phi.Phi, Label: "URL"},
	{Level: 2, Pattern: regexp.MustCompile(`\b[A-Z]{2,}\b`), Weight: phi.Phi * 0.8, Label: "Acronyms"},
	{Level: 2, Pattern: regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`), Weight: phi.Phi * 0.9, Label: "Dates"},

	// Level 3: multi-token entities
	{Level: 3, Pattern: regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}\b`), Weight: phi.Phi * phi.Phi, Label: "Compound proper names"},
	{Level: 3, Pattern: regexp.MustCompile(`\b(?:[\w.-]+@[\w.-]+\.\w+)\b`), Weight: phi.Phi * phi.Phi * 0.9, Label: "Complex emails"},
	{Level: 3, Pattern: regexp.MustCompile(`\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?\b`), Weight: phi.Phi * phi.Phi * 0.7, Label: "Currency amounts"},

	// Level 4: composite entities
	{Level: 4, Pattern: regexp.MustCompile(`\b(?:[A-Z][a-z]*){2,}\s*(?:\([^)]*\))?\b`), Weight: math.Pow(phi.Phi, 3), Label: "Composite entities"},
	{Level: 4, Pattern: regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}\b`), Weight: math.Pow(phi.Phi, 3) * 0.8, Label: "IP addresses"},

	// Level 5: structured relations
	{Level: 5, Pattern: regexp.MustCompile(`\b(?:[A-Z][a-z]*(?:\s+[A-Z][a-z]*)*)\s*:\s*(?:[A-Z][a-z]*(?:\s+[A-Z][a-z]*)*)\b`), Weight: math.Pow(phi.Phi, 4), Label: "Structured relations"},
}

// BuiltinRules returns a copy of the static rule table.
func BuiltinRules() []Rule {
	out := make([]Rule, len(builtinRules))
	copy(out, builtinRules)
	return out
}
