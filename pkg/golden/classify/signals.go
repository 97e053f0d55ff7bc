package classify

import (
	"fmt"
	"math"
	"regexp"

	"github.com/cognicore/golden/pkg/golden/phi"
)

// SignalKind selects how a Signal is evaluated.
type SignalKind int

const (
	// KindKeyword counts Pattern matches in the lower-cased text.
	KindKeyword SignalKind = iota
	// KindMetric fires when Metric reaches Threshold.
	KindMetric
	// KindAbsence fires when Metric stays at or below Threshold.
	KindAbsence
	// KindRatio fires when the Metric ratio reaches Threshold.
	KindRatio
)

func (k SignalKind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindMetric:
		return "metric"
	case KindAbsence:
		return "absence"
	case KindRatio:
		return "ratio"
	}
	return fmt.Sprintf("SignalKind(%d)", int(k))
}

// Signal describes one piece of evidence for a category.
type Signal struct {
	Kind      SignalKind
	Pattern   *regexp.Regexp // KindKeyword only
	Metric    Metric
	Threshold float64
	Weight    float64
	Label     string
}

// maxKeywordIntensity caps how many keyword hits add weight.
const maxKeywordIntensity = 8

// Absence signals need this much text before silence means anything.
const (
	absenceMinTokens = 4
	absenceMinChars  = 40
)

// fibWeight converts a Fibonacci number into a signal weight.
func fibWeight(f float64) float64 { return f / phi.Phi }

// evaluate returns the signal's weight and description, or ok=false when it
// does not fire.
func (s Signal) evaluate(doc document) (weight float64, desc string, ok bool) {
	switch s.Kind {
	case KindKeyword:
		n := countMatches(s.Pattern, doc.lower)
		if n == 0 {
			return 0, "", false
		}
		intensity := float64(min(n, maxKeywordIntensity))
		adjusted := s.Weight * (1 + (intensity-1)/(phi.Phi*2))
		return phi.Round3(adjusted), fmt.Sprintf("%s (%d)", s.Label, n), true

	case KindMetric:
		v := doc.metrics.Value(s.Metric)
		if v < s.Threshold {
			return 0, "", false
		}
		adjusted := s.Weight * math.Min(v/s.Threshold, phi.Phi)
		return phi.Round3(adjusted), fmt.Sprintf("%s (%g)", s.Label, v), true

	case KindAbsence:
		if doc.metrics.TokenCount < absenceMinTokens || doc.metrics.CharLength < absenceMinChars {
			return 0, "", false
		}
		v := doc.metrics.Value(s.Metric)
		if v > s.Threshold {
			return 0, "", false
		}
		adjusted := s.Weight * (1 + (s.Threshold-v)/(phi.Phi*5))
		return phi.Round3(adjusted), fmt.Sprintf("%s (≤ %g)", s.Label, s.Threshold), true

	case KindRatio:
		r := doc.metrics.Value(s.Metric)
		if r < s.Threshold {
			return 0, "", false
		}
		adjusted := s.Weight * math.Min(r/s.Threshold, phi.Phi)
		return phi.Round3(adjusted), fmt.Sprintf("%s (ratio %.1f%%)", s.Label, r*100), true
	}
	return 0, "", false
}

func keyword(expr string, fib float64, label string) Signal {
	return Signal{Kind: KindKeyword, Pattern: regexp.MustCompile(expr), Weight: fibWeight(fib), Label: label}
}

func metric(id Metric, threshold, fib float64, label string) Signal {
	return Signal{Kind: KindMetric, Metric: id, Threshold: threshold, Weight: fibWeight(fib), Label: label}
}

func absence(id Metric, ceiling, fib float64, label string) Signal {
	return Signal{Kind: KindAbsence, Metric: id, Threshold: ceiling, Weight: fibWeight(fib), Label: label}
}

func ratio(id Metric, minRatio, fib float64, label string) Signal {
	return Signal{Kind: KindRatio, Metric: id, Threshold: minRatio, Weight: fibWeight(fib), Label: label}
}

type categoryConfig struct {
	category Category
	bias     float64
	signals  []Signal
}

var (
	baseBias   = 1 / (phi.Phi * 4)
	letterBias = 1 / (phi.Phi * 2)
)

// A signal's position in its list scales its weight, so order matters.
var categoryConfigs = []categoryConfig{
	{
		category: Invoice,
		bias:     baseBias,
		signals: []Signal{
			keyword(`\binvoice\b`, 13, "Keyword 'invoice'"),
			keyword(`\bbill(?:ing)?\b`, 8, "Billing vocabulary"),
			keyword(`\b(?:due date|due on|net\s*\d{1,3})\b`, 8, "Due date references"),
			keyword(`\b(?:subtotal|total|amount due|balance due|tax|vat)\b`, 8, "Financial summary wording"),
			metric(MetricCurrencyCount, 2, 13, "Multiple currency mentions"),
			metric(MetricInvoiceNumberCount, 1, 13, "Invoice number detected"),
			ratio(MetricNumericTokenRatio, 0.18, 8, "High numeric density"),
			metric(MetricItemizedLines, 2, 8, "Itemized table lines"),
			metric(MetricFinancialSummaryLines, 2, 8, "Totals summary lines"),
		},
	},
	{
		category: Email,
		bias:     baseBias,
		signals: []Signal{
			keyword(`\bsubject\b`, 8, "Subject header"),
			keyword(`\b(?:hi|hello|hey|ciao)\b`, 8, "Casual salutation"),
			keyword(`\b(?:regards|sincerely|thanks|cheers|best)\b`, 8, "Closing phrase"),
			metric(MetricEmailCount, 1, 13, "Email addresses"),
			metric(MetricHeaderLines, 1, 13, "Email header block"),
			metric(MetricGreetingLines, 1, 8, "Greeting line"),
			metric(MetricClosingLines, 1, 8, "Closing line"),
			metric(MetricAttachments, 1, 5, "Attachment hint"),
			metric(MetricURLCount, 1, 5, "Links present"),
			absence(MetricLegalClauseCount, 1, 5, "Minimal legal clauses"),
		},
	},
	{
		category: Contract,
		bias:     baseBias,
		signals: []Signal{
			keyword(`\b(?:agreement|contract|party|parties|hereby|herein|whereas)\b`, 13, "Legal register"),
			keyword(`\b(?:governing law|liability|confidentiality|witnesseth|indemnify)\b`, 13, "Contract clauses"),
			metric(MetricLegalClauseCount, 3, 13, "Numerous legal clauses"),
			metric(MetricLegalAllCapsCount, 1, 8, "All-caps section headings"),
			metric(MetricDateLines, 1, 5, "Effective date"),
			metric(MetricSignatureLines, 1, 5, "Signature block"),
			absence(MetricHeaderLines, 0, 5, "No email header block"),
			metric(MetricReferenceNumbers, 1, 5, "Reference identifiers"),
		},
	},
	{
		category: Report,
		bias:     baseBias,
		signals: []Signal{
			keyword(`\b(?:report|summary|analysis|findings|results|overview|insights)\b`, 8, "Analytical vocabulary"),
			metric(MetricSectionKeywordLines, 2, 8, "Structured sections"),
			metric(MetricBulletCount, 1, 8, "Bullet lists"),
			metric(MetricUppercaseHeadingCount, 1, 5, "Uppercase headings"),
			metric(MetricConclusionLines, 1, 8, "Conclusion / next steps"),
			ratio(MetricNumericTokenRatio, 0.08, 5, "Quantitative references"),
		},
	},
	{
		category: Letter,
		bias:     letterBias,
		signals: []Signal{
			keyword(`\b(?:dear|greetings)\b`, 8, "Personal salutation"),
			keyword(`\b(?:sincerely|yours truly|kind regards|warm regards)\b`, 8, "Formal closing"),
			metric(MetricGreetingLines, 1, 8, "Greeting line"),
			metric(MetricClosingLines, 1, 8, "Closing line"),
			metric(MetricSignatureLines, 1, 5, "Signature block"),
			metric(MetricDateLines, 1, 5, "Date reference"),
			absence(MetricHeaderLines, 0, 5, "No email routing headers"),
			absence(MetricCurrencyCount, 1, 3, "Limited financial jargon"),
			absence(MetricLegalClauseCount, 1, 3, "Limited legal jargon"),
			metric(MetricLineCount, 2, 3, "Multiple paragraphs"),
		},
	},
}

// Signals returns a copy of the signal table for category, or nil for an
// unknown category.
func Signals(category Category) []Signal {
	for _, cfg := range categoryConfigs {
		if cfg.category == category {
			out := make([]Signal, len(cfg.signals))
			copy(out, cfg.signals)
			return out
		}
	}
	return nil
}
