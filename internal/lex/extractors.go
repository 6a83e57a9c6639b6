package lex

import (
	"fmt"
	"regexp"
	"strings"
)

const currencySymbols = `$€£¥`

var (
	moneyPattern    = regexp.MustCompile(`[` + currencySymbols + `]\d[\d,]*(?:\.\d{2})?\b`)
	canonicalMoney  = regexp.MustCompile(`^[` + currencySymbols + `]\d+(?:\.\d{2})?$`)
	durationPattern = regexp.MustCompile(`(?i)\b(\d+(?:st|nd|rd|th)?|` + numberWords + `)\s+(?:(?:additional|further|more)\s+)?(business\s+days?|days?|weeks?|months?|years?)\b`)
	ordinalNumber   = regexp.MustCompile(`(?i)^\d+(?:st|nd|rd|th)$`)
	cadencePattern  = regexp.MustCompile(`(?i)\b(?:monthly|annually|weekly|biweekly|quarterly)\b`)
	addressPattern  = regexp.MustCompile(`(?i)\b\d{1,5}\s+(?:[A-Za-z0-9.'-]+\s+){1,4}?(?:Street|St|Avenue|Ave|Road|Rd|Lane|Ln|Drive|Dr|Boulevard|Blvd)\b`)
	lateFeePrefix   = regexp.MustCompile(`(?i)^(?:late\s+(?:payment\s+)?fee\s+of|penalty\s+of)\s+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	trailingPunct   = ".,;:!?)\"' \t\r\n"
	addressNoise    = map[string]bool{"day": true, "days": true, "month": true, "months": true, "week": true, "weeks": true, "business": true, "rent": true, "payment": true, "payments": true, "paid": true}
	unitWords       = `one|two|three|four|five|six|seven|eight|nine`
	tensWords       = `twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety`
	// Compounds first so "twenty-five" is not read as "five".
	numberWords = `(?:` + tensWords + `)-(?:` + unitWords + `)|` + unitWords +
		`|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|` + tensWords + `|hundred|an|a`
)

// ExtractMoney returns canonical currency amounts ("$1200.00") in first-seen order.
func ExtractMoney(text string) []string {
	var out []string
	for _, m := range moneyPattern.FindAllString(text, -1) {
		out = append(out, CleanMoney(m))
	}
	return dedupe(out)
}

// CleanMoney strips trailing punctuation and grouping separators.
func CleanMoney(s string) string {
	s = strings.TrimRight(s, trailingPunct)
	return strings.ReplaceAll(s, ",", "")
}

// IsCanonicalMoney reports whether s is a cleaned currency amount.
func IsCanonicalMoney(s string) bool {
	return canonicalMoney.MatchString(s)
}

// ExtractDurations returns span phrases such as "5 business days".
// Ordinal phrases like "1st day" name a day of the month and are skipped.
func ExtractDurations(text string) []string {
	var out []string
	for _, m := range durationPattern.FindAllStringSubmatch(text, -1) {
		if ordinalNumber.MatchString(m[1]) {
			continue
		}
		out = append(out, normalizeSpace(strings.TrimRight(m[0], trailingPunct)))
	}
	return dedupe(out)
}

// ExtractCadences returns lower-cased recurrence words.
func ExtractCadences(text string) []string {
	var out []string
	for _, m := range cadencePattern.FindAllString(text, -1) {
		out = append(out, strings.ToLower(m))
	}
	return dedupe(out)
}

// ExtractAddresses returns street addresses, skipping matches built from
// durations or payment phrases. A rejected match is searched again from its
// next number, so "5 days at 123 Main Street" still yields "123 Main Street".
func ExtractAddresses(text string) []string {
	var out []string
	for pos := 0; pos < len(text); {
		loc := addressPattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		m := text[start:end]
		if isAddressNoise(m) {
			pos = nextNumber(text, start)
			continue
		}
		out = append(out, normalizeSpace(m))
		pos = end
	}
	return dedupe(out)
}

// nextNumber returns the offset of the first digit run after the one at start
// that begins a word, or len(text).
func nextNumber(text string, start int) int {
	i := start
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	for ; i < len(text); i++ {
		if isDigit(text[i]) && !isWordByte(text[i-1]) {
			return i
		}
	}
	return len(text)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWordByte(b byte) bool {
	return isDigit(b) || b == '_' || (b|0x20 >= 'a' && b|0x20 <= 'z')
}

func isAddressNoise(match string) bool {
	if strings.ContainsAny(match, currencySymbols) {
		return true
	}
	for _, tok := range strings.Fields(strings.ToLower(match)) {
		if addressNoise[strings.Trim(tok, trailingPunct)] {
			return true
		}
	}
	return false
}

// lateFeePattern matches a penalty label followed within window characters by an amount.
func lateFeePattern(window int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`(?i)(?:late\s+(?:payment\s+)?(?:fee|charge)s?|penalty|penalties)[^%s]{0,%d}?[%s]\d[\d,]*(?:\.\d{2})?`,
		currencySymbols, window, currencySymbols))
}

func extractLateFees(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllString(text, -1) {
		out = append(out, normalizeSpace(m))
	}
	return dedupe(out)
}

// StripLateFeePrefix turns "late fee of $50.00" into "$50.00".
func StripLateFeePrefix(s string) string {
	return lateFeePrefix.ReplaceAllString(s, "")
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// dedupe keeps the first occurrence of each item and never returns nil.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
