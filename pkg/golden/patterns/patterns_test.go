package patterns

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cognicore/golden/pkg/golden/internalerr"
	"github.com/cognicore/golden/pkg/golden/phi"
)

const contactText = "Contact john@example.com or visit 192.168.1.1 today, the fee is $1,234.56 total."

func labels(matches []Match) map[string]Match {
	out := make(map[string]Match, len(matches))
	for _, m := range matches {
		out[m.Pattern] = m
	}
	return out
}

func TestFindPatternsEmpty(t *testing.T) {
	m := NewMatcher(Options{})
	for _, in := range []string{"", "  \n"} {
		if got := m.FindPatterns(in); len(got) != 0 {
			t.Errorf("FindPatterns(%q) should be empty, got %v", in, got)
		}
	}
}

func TestFindPatternsDetectsEntities(t *testing.T) {
	m := NewMatcher(Options{ConfidenceThreshold: 0})
	got := labels(m.FindPatterns(contactText))

	cases := map[string]string{
		"Email":            "john@example.com",
		"IP addresses":     "192.168.1.1",
		"Currency amounts": "$1,234.56",
	}
	for label, want := range cases {
		match, ok := got[label]
		if !ok {
			t.Errorf("Expected %q group", label)
			continue
		}
		if match.Frequency != len(match.Occurrences) {
			t.Errorf("%s: frequency %d != %d occurrences", label, match.Frequency, len(match.Occurrences))
		}
		if match.Occurrences[0].Text != want {
			t.Errorf("%s: got %q, want %q", label, match.Occurrences[0].Text, want)
		}
		occ := match.Occurrences[0]
		if contactText[occ.Start:occ.End] != occ.Text {
			t.Errorf("%s: offsets [%d,%d) do not match text %q", label, occ.Start, occ.End, occ.Text)
		}
	}
}

func TestFindPatternsSortedAndThresholded(t *testing.T) {
	m := NewMatcher(Options{ConfidenceThreshold: -1})
	if m.ConfidenceThreshold() != DefaultConfidenceThreshold {
		t.Fatalf("Expected default threshold, got %v", m.ConfidenceThreshold())
	}
	text := strings.Repeat("Alice Smith met Bob Jones at IBM on 12/05/2024. ", 4)
	got := m.FindPatterns(text)
	for i, match := range got {
		if match.Score < DefaultConfidenceThreshold {
			t.Errorf("%s: score %v below threshold", match.Pattern, match.Score)
		}
		if i > 0 && match.Score > got[i-1].Score {
			t.Errorf("Results not sorted at %d", i)
		}
		if match.GoldenRatio < 0 || match.GoldenRatio > 1 {
			t.Errorf("%s: golden ratio %v out of range", match.Pattern, match.GoldenRatio)
		}
		for _, occ := range match.Occurrences {
			if occ.Confidence < 0 || occ.Confidence > 1 {
				t.Errorf("%s: occurrence confidence %v out of range", match.Pattern, occ.Confidence)
			}
		}
	}
}

func TestFindPatternsMaxDepth(t *testing.T) {
	m := NewMatcher(Options{MaxDepth: 1, ConfidenceThreshold: 0})
	if m.MaxDepth() != 1 {
		t.Fatalf("Expected depth 1, got %d", m.MaxDepth())
	}
	for _, match := range m.FindPatterns(contactText) {
		for _, occ := range match.Occurrences {
			if occ.Level != 1 {
				t.Errorf("%s: level %d beyond max depth", match.Pattern, occ.Level)
			}
		}
	}
}

func TestFindPatternsEmptyMatchRuleTerminates(t *testing.T) {
	rule, err := NewRule(1, "a*", 1, "empty")
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	m := NewMatcher(Options{ConfidenceThreshold: 0})
	got := labels(m.FindPatterns("bbb", rule))
	match, ok := got["empty"]
	if !ok {
		t.Fatal("Expected the empty-match rule to report a group")
	}
	if match.Frequency != 4 {
		t.Errorf("Expected one empty match per position (4), got %d", match.Frequency)
	}
	if match.Score != 0 {
		t.Errorf("Empty matches cover nothing, score should be 0, got %v", match.Score)
	}
}

func TestFindPatternsConfiguredRules(t *testing.T) {
	rule, err := NewRule(2, `INV-\d+`, 0, "Invoice numbers")
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	m := NewMatcher(Options{ConfidenceThreshold: 0, Rules: []Rule{rule, {}}})
	if m.ExtraRules() != 1 {
		t.Fatalf("Expected invalid rule to be dropped, got %d extra rules", m.ExtraRules())
	}
	got := labels(m.FindPatterns("Paid INV-1001 and INV-1002."))
	if got["Invoice numbers"].Frequency != 2 {
		t.Errorf("Expected 2 invoice numbers, got %+v", got["Invoice numbers"])
	}
}

func TestNewRule(t *testing.T) {
	if _, err := NewRule(0, "x", 1, "bad"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for level 0, got %v", err)
	}
	if _, err := NewRule(6, "x", 1, "bad"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for level 6, got %v", err)
	}
	if _, err := NewRule(1, "(", 1, "bad"); err == nil {
		t.Error("Expected compile error")
	}
	r, err := NewRule(3, "x", 0, "")
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	if math.Abs(r.Weight-phi.Phi*phi.Phi) > 1e-12 {
		t.Errorf("Expected φ² weight, got %v", r.Weight)
	}
	if r.Label != "x" {
		t.Errorf("Expected expression as label, got %q", r.Label)
	}
}

func TestBuiltinRulesCopy(t *testing.T) {
	rules := BuiltinRules()
	rules[0].Label = "changed"
	if BuiltinRules()[0].Label == "changed" {
		t.Error("BuiltinRules must return a copy")
	}
	for _, r := range rules {
		if !r.Valid() {
			t.Errorf("Built-in rule %q is invalid", r.Label)
		}
	}
}

func TestFindRecursivePatterns(t *testing.T) {
	const text = "golden ratio golden ratio golden spiral"
	m := NewMatcher(Options{})
	got := m.FindRecursivePatterns(text, 0)
	if len(got) != 1 {
		t.Fatalf("Expected recurring words folded into 1 group, got %d: %+v", len(got), got)
	}

	group := got[0]
	if group.Pattern != `Recurring: "golden"` {
		t.Errorf("Expected the first label to be kept, got %q", group.Pattern)
	}
	if group.Frequency != 7 || len(group.Occurrences) != 7 {
		t.Errorf("Expected golden (5) and ratio (2) summed to 7, got %d / %d", group.Frequency, len(group.Occurrences))
	}
	if group.Score != 0.809 {
		t.Errorf("Expected the best score 0.809, got %v", group.Score)
	}

	words := map[string]int{}
	for _, occ := range group.Occurrences {
		if strings.ToLower(text[occ.Start:occ.End]) != occ.Text {
			t.Errorf("Occurrence [%d,%d) is %q, want %q", occ.Start, occ.End, text[occ.Start:occ.End], occ.Text)
		}
		if occ.Level < 1 || occ.Level > 2 {
			t.Errorf("Unexpected level %d", occ.Level)
		}
		words[occ.Text]++
	}
	if words["golden"] != 5 || words["ratio"] != 2 {
		t.Errorf("Unexpected occurrence mix %v", words)
	}
}

func TestMergeByLabelUsesBaseLabel(t *testing.T) {
	found := []Match{
		{Pattern: `Recurring: "alpha"`, Occurrences: []Occurrence{{Text: "alpha"}}, Score: 0.2, Frequency: 1},
		{Pattern: "Email", Occurrences: []Occurrence{{Text: "a@b.io"}}, Score: 0.3, Frequency: 1},
		{Pattern: `Recurring: "beta"`, Occurrences: []Occurrence{{Text: "beta"}, {Text: "beta"}}, Score: 0.5, Frequency: 2},
	}
	got := mergeByLabel(found)
	if len(got) != 2 {
		t.Fatalf("Expected 2 groups, got %+v", got)
	}
	if got[0].Pattern != `Recurring: "alpha"` || got[0].Frequency != 3 || got[0].Score != 0.5 {
		t.Errorf("Unexpected merged group %+v", got[0])
	}
	if got[1].Pattern != "Email" {
		t.Errorf("Expected Email second, got %q", got[1].Pattern)
	}
	if len(found[0].Occurrences) != 1 {
		t.Error("Merging must not grow the input slices")
	}
}

func TestFindRecursivePatternsShortText(t *testing.T) {
	m := NewMatcher(Options{})
	if got := m.FindRecursivePatterns("too short", 3); len(got) != 0 {
		t.Errorf("Expected no groups for short text, got %v", got)
	}
	if got := m.FindRecursivePatterns("", 3); len(got) != 0 {
		t.Errorf("Expected no groups for empty text, got %v", got)
	}
}

func TestFindRecursivePatternsMultibyte(t *testing.T) {
	text := strings.Repeat("perché città è bella ", 6)
	m := NewMatcher(Options{})
	for _, match := range m.FindRecursivePatterns(text, 3) {
		for _, occ := range match.Occurrences {
			if strings.ToLower(text[occ.Start:occ.End]) != occ.Text {
				t.Errorf("%s: offsets [%d,%d) broke a rune", match.Pattern, occ.Start, occ.End)
			}
		}
	}
}

func TestFractalDimension(t *testing.T) {
	m := NewMatcher(Options{})
	if got := m.FractalDimension("abc"); got != 0.5 {
		t.Errorf("Short text should return 0.5, got %v", got)
	}

	repetitive := m.FractalDimension(strings.Repeat("a", 20))
	varied := m.FractalDimension("abcdefghijklmnopqrst")
	for _, v := range []float64{repetitive, varied} {
		if v < 0.1 || v > 2.0 {
			t.Errorf("Dimension %v out of range", v)
		}
	}
	if varied <= repetitive {
		t.Errorf("Varied text (%v) should be more complex than repetitive text (%v)", varied, repetitive)
	}
}
