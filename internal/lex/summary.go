package lex

import (
	"regexp"
	"strings"
)

var (
	startKeywords = regexp.MustCompile(`(?i)\b(?:start(?:s|ing)?|commence(?:s|ment)?|commencing)\b`)
	endKeywords   = regexp.MustCompile(`(?i)\b(?:end(?:s|ing)?|terminat(?:e|es|ion)|expiration|expires)\b`)
	numericAmount = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// EmptySummary is returned when no fragment could be built.
const EmptySummary = "No contract terms could be extracted."

// Summarizer renders an ExtractedData as one sentence.
type Summarizer struct {
	window int
}

func NewSummarizer(p Policy) *Summarizer {
	return &Summarizer{window: p.withDefaults().DateKeywordWindow}
}

// Summarize composes the present fragments in fixed order.
func (s *Summarizer) Summarize(data ExtractedData, text string) string {
	var parts []string

	if len(data.Parties) > 0 {
		parts = append(parts, "between "+strings.Join(data.Parties, ", and "))
	}
	if len(data.PropertyAddress) > 0 {
		parts = append(parts, "regarding the property at "+data.PropertyAddress[0])
	}
	if len(data.Dates) > 0 {
		start := s.pickDate(data.Dates, text, startKeywords, data.Dates[0])
		parts = append(parts, "starting on "+start)
		if len(data.Dates) > 1 {
			end := s.pickDate(data.Dates, text, endKeywords, data.Dates[len(data.Dates)-1])
			if end != start {
				parts = append(parts, "ending on "+end)
			}
		}
	}
	if len(data.Duration) > 0 {
		parts = append(parts, "lasting for "+strings.Join(data.Duration, ", "))
	}
	if amount := firstNumericMoney(data.PaymentTerms.Money); amount != "" {
		parts = append(parts, "with a payment of "+amount)
	}
	if len(data.LatePaymentPenalty) > 0 {
		parts = append(parts, "and a late fee of "+StripLateFeePrefix(data.LatePaymentPenalty[0]))
	}

	if len(parts) == 0 {
		return EmptySummary
	}
	return "This contract is " + strings.Trim(strings.Join(parts, ", "), ", ") + "."
}

// pickDate returns the first date that appears in text shortly after a keyword.
func (s *Summarizer) pickDate(dates []string, text string, keywords *regexp.Regexp, fallback string) string {
	hits := keywords.FindAllStringIndex(text, -1)
	if len(hits) == 0 {
		return fallback
	}
	for _, d := range dates {
		if d == "" || !strings.Contains(text, d) {
			continue
		}
		for _, h := range hits {
			if s.dateNear(text, d, h[1]) {
				return d
			}
		}
	}
	return fallback
}

func (s *Summarizer) dateNear(text, date string, from int) bool {
	limit := from + s.window + len(date)
	if limit > len(text) {
		limit = len(text)
	}
	return strings.Contains(text[from:limit], date)
}

func firstNumericMoney(money []string) string {
	for _, m := range money {
		stripped := strings.TrimLeft(m, currencySymbols)
		if numericAmount.MatchString(stripped) {
			return m
		}
	}
	return ""
}
