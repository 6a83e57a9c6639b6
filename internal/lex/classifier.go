package lex

import (
	"regexp"
	"strings"
)

// ClassifierRule maps a keyword pattern to a contract type.
type ClassifierRule struct {
	Type    ContractType
	Pattern *regexp.Regexp
}

// ClassifierRules are tested in order; the first match wins.
var ClassifierRules = []ClassifierRule{
	{Type: DeedOfSale, Pattern: regexp.MustCompile(`\b(?:deed of sale|bill of sale|sold to)\b`)},
	{Type: Lease, Pattern: regexp.MustCompile(`\b(?:lease agreement|lessor|lessee)\b`)},
	{Type: Rent, Pattern: regexp.MustCompile(`\b(?:rental agreement|tenant|landlord|rent)\b`)},
}

// Classify returns the contract type of text, or Unknown.
func Classify(text string) ContractType {
	lowered := strings.ToLower(text)
	for _, rule := range ClassifierRules {
		if rule.Pattern.MatchString(lowered) {
			return rule.Type
		}
	}
	return Unknown
}
