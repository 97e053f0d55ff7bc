package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Metrics are the structural measurements signals are evaluated against.
type Metrics struct {
	TokenCount            int     `json:"token_count"`
	NumericTokenRatio     float64 `json:"numeric_token_ratio"`
	CurrencyCount         int     `json:"currency_count"`
	InvoiceNumberCount    int     `json:"invoice_number_count"`
	EmailCount            int     `json:"email_count"`
	URLCount              int     `json:"url_count"`
	BulletCount           int     `json:"bullet_count"`
	UppercaseHeadingCount int     `json:"uppercase_heading_count"`
	GreetingLines         int     `json:"greeting_lines"`
	ClosingLines          int     `json:"closing_lines"`
	SignatureLines        int     `json:"signature_lines"`
	SubjectLines          int     `json:"subject_lines"`
	HeaderLines           int     `json:"header_lines"`
	SectionKeywordLines   int     `json:"section_keyword_lines"`
	LegalClauseCount      int     `json:"legal_clause_count"`
	LegalAllCapsCount     int     `json:"legal_all_caps_count"`
	FinancialSummaryLines int     `json:"financial_summary_lines"`
	DateLines             int     `json:"date_lines"`
	ItemizedLines         int     `json:"itemized_lines"`
	ReferenceNumbers      int     `json:"reference_numbers"`
	ConclusionLines       int     `json:"conclusion_lines"`
	LineCount             int     `json:"line_count"`
	CharLength            int     `json:"char_length"`
	Attachments           int     `json:"attachments"`
}

// Metric names a single field of Metrics.
type Metric string

const (
	MetricTokenCount            Metric = "token_count"
	MetricNumericTokenRatio     Metric = "numeric_token_ratio"
	MetricCurrencyCount         Metric = "currency_count"
	MetricInvoiceNumberCount    Metric = "invoice_number_count"
	MetricEmailCount            Metric = "email_count"
	MetricURLCount              Metric = "url_count"
	MetricBulletCount           Metric = "bullet_count"
	MetricUppercaseHeadingCount Metric = "uppercase_heading_count"
	MetricGreetingLines         Metric = "greeting_lines"
	MetricClosingLines          Metric = "closing_lines"
	MetricSignatureLines        Metric = "signature_lines"
	MetricSubjectLines          Metric = "subject_lines"
	MetricHeaderLines           Metric = "header_lines"
	MetricSectionKeywordLines   Metric = "section_keyword_lines"
	MetricLegalClauseCount      Metric = "legal_clause_count"
	MetricLegalAllCapsCount     Metric = "legal_all_caps_count"
	MetricFinancialSummaryLines Metric = "financial_summary_lines"
	MetricDateLines             Metric = "date_lines"
	MetricItemizedLines         Metric = "itemized_lines"
	MetricReferenceNumbers      Metric = "reference_numbers"
	MetricConclusionLines       Metric = "conclusion_lines"
	MetricLineCount             Metric = "line_count"
	MetricCharLength            Metric = "char_length"
	MetricAttachments           Metric = "attachments"
)

// Value returns the measurement for id, or 0 for an unknown metric.
func (m Metrics) Value(id Metric) float64 {
	switch id {
	case MetricTokenCount:
		return float64(m.TokenCount)
	case MetricNumericTokenRatio:
		return m.NumericTokenRatio
	case MetricCurrencyCount:
		return float64(m.CurrencyCount)
	case MetricInvoiceNumberCount:
		return float64(m.InvoiceNumberCount)
	case MetricEmailCount:
		return float64(m.EmailCount)
	case MetricURLCount:
		return float64(m.URLCount)
	case MetricBulletCount:
		return float64(m.BulletCount)
	case MetricUppercaseHeadingCount:
		return float64(m.UppercaseHeadingCount)
	case MetricGreetingLines:
		return float64(m.GreetingLines)
	case MetricClosingLines:
		return float64(m.ClosingLines)
	case MetricSignatureLines:
		return float64(m.SignatureLines)
	case MetricSubjectLines:
		return float64(m.SubjectLines)
	case MetricHeaderLines:
		return float64(m.HeaderLines)
	case MetricSectionKeywordLines:
		return float64(m.SectionKeywordLines)
	case MetricLegalClauseCount:
		return float64(m.LegalClauseCount)
	case MetricLegalAllCapsCount:
		return float64(m.LegalAllCapsCount)
	case MetricFinancialSummaryLines:
		return float64(m.FinancialSummaryLines)
	case MetricDateLines:
		return float64(m.DateLines)
	case MetricItemizedLines:
		return float64(m.ItemizedLines)
	case MetricReferenceNumbers:
		return float64(m.ReferenceNumbers)
	case MetricConclusionLines:
		return float64(m.ConclusionLines)
	case MetricLineCount:
		return float64(m.LineCount)
	case MetricCharLength:
		return float64(m.CharLength)
	case MetricAttachments:
		return float64(m.Attachments)
	}
	return 0
}

var (
	tokenRe         = regexp.MustCompile(`\b[\p{L}\p{N}][\p{L}\p{N}\-']*\b`)
	numericTokenRe  = regexp.MustCompile(`^\d+[\d.,-]*$`)
	currencyRe      = regexp.MustCompile(`(?:\$|€|£|¥|rp|idr|usd|eur|sgd|aud|cad)`)
	invoiceNumberRe = regexp.MustCompile(`\b(?:invoice|inv\.?|bill)\s*(?:no\.?|number|#)?\s*[:#]?\s*[a-z0-9-]{3,}\b`)
	emailRe         = regexp.MustCompile(`[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	urlRe           = regexp.MustCompile(`(?:https?://|www\.)[\w./-]+`)
	legalClauseRe   = regexp.MustCompile(`\b(?:hereby|herein|whereas|hereto|party|parties|liability|indemnify|governing law|force majeure|assignment)\b`)
	referenceRe     = regexp.MustCompile(`\bref(?:erence)?\.?\s*[:#]?\s*[a-z0-9-]{4,}\b`)
	attachmentRe    = regexp.MustCompile(`\battachment(s)?|attached\b`)

	bulletLineRe     = regexp.MustCompile(`^[-*\x{2022}]`)
	asciiUpperRe     = regexp.MustCompile(`[A-Z]`)
	greetingLineRe   = regexp.MustCompile(`(?i)^(dear|hi|hello|ciao|good (morning|afternoon|evening))`)
	closingLineRe    = regexp.MustCompile(`(?i)(regards|sincerely|yours|cordially|warm regards|kind regards|thank you)`)
	signatureLineRe  = regexp.MustCompile(`(?i)(regards|sincerely|yours|thank you|best)`)
	subjectLineRe    = regexp.MustCompile(`(?i)^subject\s*:`)
	headerLineRe     = regexp.MustCompile(`(?i)^(from|to|cc|bcc)\s*:`)
	sectionLineRe    = regexp.MustCompile(`(?i)(summary|overview|analysis|results|methodology|conclusion|findings|insights)`)
	sectionNumberRe  = regexp.MustCompile(`\bSECTION\s+\d+\b`)
	witnessethRe     = regexp.MustCompile(`WITNESSETH`)
	financialLineRe  = regexp.MustCompile(`(?i)(subtotal|total|balance due|amount due|tax|vat|wire transfer)`)
	dateLineRe       = regexp.MustCompile(`(?i)\b(?:\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|\d{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{2,4})\b`)
	itemizedLineRe   = regexp.MustCompile(`(?i)(item|qty|quantity|unit price|description)`)
	conclusionLineRe = regexp.MustCompile(`(?i)(conclusion|next steps|recommendations|action items)`)
	lineBreaksRe     = regexp.MustCompile(`\n+`)
)

// signatureWindow is how many trailing lines are searched for a sign-off.
const signatureWindow = 4

type document struct {
	lower   string
	lines   []string
	metrics Metrics
}

// Measure computes the structural metrics of text.
func Measure(text string) Metrics {
	return newDocument(text).metrics
}

func newDocument(text string) document {
	normalized := strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	lower := strings.ToLower(normalized)

	var lines []string
	for _, line := range lineBreaksRe.Split(normalized, -1) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	tokens := tokenRe.FindAllString(lower, -1)
	numeric := 0
	for _, tok := range tokens {
		if numericTokenRe.MatchString(tok) {
			numeric++
		}
	}

	m := Metrics{
		TokenCount:         len(tokens),
		CurrencyCount:      countMatches(currencyRe, lower),
		InvoiceNumberCount: countMatches(invoiceNumberRe, lower),
		EmailCount:         countMatches(emailRe, lower),
		URLCount:           countMatches(urlRe, lower),
		LegalClauseCount:   countMatches(legalClauseRe, lower),
		ReferenceNumbers:   countMatches(referenceRe, lower),
		Attachments:        countMatches(attachmentRe, lower),
		LineCount:          len(lines),
		CharLength:         utf8.RuneCountInString(normalized),
	}
	if len(tokens) > 0 {
		m.NumericTokenRatio = float64(numeric) / float64(len(tokens))
	}

	for _, line := range lines {
		m.BulletCount += hit(bulletLineRe.MatchString(line))
		m.UppercaseHeadingCount += hit(isUppercaseHeading(line))
		m.GreetingLines += hit(greetingLineRe.MatchString(line))
		m.ClosingLines += hit(closingLineRe.MatchString(line))
		m.SubjectLines += hit(subjectLineRe.MatchString(line))
		m.HeaderLines += hit(headerLineRe.MatchString(line))
		m.SectionKeywordLines += hit(sectionLineRe.MatchString(line))
		m.LegalAllCapsCount += hit(sectionNumberRe.MatchString(line) || witnessethRe.MatchString(line))
		m.FinancialSummaryLines += hit(financialLineRe.MatchString(line))
		m.DateLines += hit(dateLineRe.MatchString(line))
		m.ItemizedLines += hit(itemizedLineRe.MatchString(line))
		m.ConclusionLines += hit(conclusionLineRe.MatchString(line))
	}
	for _, line := range lines[max(0, len(lines)-signatureWindow):] {
		m.SignatureLines += hit(signatureLineRe.MatchString(line))
	}

	return document{lower: lower, lines: lines, metrics: m}
}

func isUppercaseHeading(line string) bool {
	if utf8.RuneCountInString(line) <= 4 || !asciiUpperRe.MatchString(line) {
		return false
	}
	return !strings.ContainsFunc(line, unicode.IsLower)
}

func countMatches(re *regexp.Regexp, s string) int {
	return len(re.FindAllStringIndex(s, -1))
}

func hit(ok bool) int {
	if ok {
		return 1
	}
	return 0
}
