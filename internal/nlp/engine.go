// Package nlp is a rule-based implementation of lex.Facade.
//
// It needs no model files: every pattern is compiled in New and never changed,
// so one Engine can serve any number of concurrent callers.
package nlp

import (
	"regexp"
	"strings"

	"github.com/ericksa/lexanalyzer/internal/lex"
)

const (
	monthNames   = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`
	numberWords  = `(?:twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety)-(?:one|two|three|four|five|six|seven|eight|nine)|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|fifteen|twenty|thirty|forty|fifty|sixty|ninety`
	phraseWords  = 4
	constraintKw = `within|after|before|prior to|no later than|not later than|at least|no more than|not to exceed|until`
)

var phraseBreaks = map[string]bool{
	"of": true, "for": true, "to": true, "from": true, "by": true,
	"after": true, "before": true, "and": true, "or": true,
}

// Engine extracts candidate spans with regular expressions and token heuristics.
type Engine struct {
	money       *regexp.Regexp
	dates       *regexp.Regexp
	percents    *regexp.Regexp
	durations   *regexp.Regexp
	definitions *regexp.Regexp
	conditions  *regexp.Regexp
	constraints *regexp.Regexp
	citations   *regexp.Regexp
}

var _ lex.Facade = (*Engine)(nil)

func New() *Engine {
	return &Engine{
		money: regexp.MustCompile(`(?i)[$€£¥]\s?\d[\d,]*(?:\.\d+)?|\b(?:usd|eur|gbp)\s?\d[\d,]*(?:\.\d+)?|\b\d[\d,]*(?:\.\d+)?\s+(?:dollars|euros|pounds)\b`),
		dates: regexp.MustCompile(`(?i)\b(?:(?:` + monthNames + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}` +
			`|\d{1,2}(?:st|nd|rd|th)?\s+(?:day\s+of\s+)?(?:` + monthNames + `)\.?,?\s+\d{4}` +
			`|\d{1,2}/\d{1,2}/\d{2,4}` +
			`|\d{4}-\d{2}-\d{2})\b`),
		percents:    regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*%|\b\d+(?:\.\d+)?\s+percent\b|\b(?:` + numberWords + `)\s+percent\b`),
		durations:   regexp.MustCompile(`(?i)\b(?:\d+|` + numberWords + `)\s+(?:business\s+)?(?:days?|weeks?|months?|quarters?|years?)\b`),
		definitions: regexp.MustCompile(`["\x{201C}]([A-Z][^"\x{201C}\x{201D}\n]{0,60}?)["\x{201D}]`),
		conditions:  regexp.MustCompile(`(?i)\b(?:if|unless|provided that|subject to|in the event(?: that)?)\b[^.;\n]*`),
		constraints: regexp.MustCompile(`(?i)\b(` + constraintKw + `)\b([^.;\n]*)`),
		citations: regexp.MustCompile(`\b\d+\s+U\.S\.C\.\s*§*\s*\d+[a-z]?` +
			`|\b\d+\s+C\.F\.R\.\s*§*\s*\d+(?:\.\d+)?` +
			`|\b\d+\s+(?:U\.S\.|F\.(?:2d|3d|4th)?|S\.\s?Ct\.)\s+\d+` +
			`|§+\s*\d+(?:\.\d+)*`),
	}
}

func (e *Engine) Money(text string) []string {
	return trimAll(e.money.FindAllString(text, -1))
}

func (e *Engine) Dates(text string) []string {
	return trimAll(e.dates.FindAllString(text, -1))
}

func (e *Engine) Percents(text string) []string {
	return trimAll(e.percents.FindAllString(text, -1))
}

func (e *Engine) Durations(text string) []string {
	return trimAll(e.durations.FindAllString(text, -1))
}

// Definitions returns quoted defined terms, each once.
func (e *Engine) Definitions(text string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, m := range e.definitions.FindAllStringSubmatch(text, -1) {
		term := strings.TrimSpace(m[1])
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}

func (e *Engine) Conditions(text string) []string {
	return trimAll(e.conditions.FindAllString(text, -1))
}

// Constraints returns (kind, phrase, context) triples. The phrase is the short
// span after the keyword, stopping at a preposition or comma; the context is
// whatever remains of the clause.
func (e *Engine) Constraints(text string) [][]string {
	out := [][]string{}
	for _, m := range e.constraints.FindAllStringSubmatch(text, -1) {
		kind := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
		words := strings.Fields(m[2])
		n := 0
		for n < len(words) && n < phraseWords {
			if n > 0 && phraseBreaks[strings.ToLower(words[n])] {
				break
			}
			n++
			if strings.HasSuffix(words[n-1], ",") {
				break
			}
		}
		phrase := strings.TrimRight(strings.Join(words[:n], " "), ",")
		out = append(out, []string{kind, phrase, strings.Join(words[n:], " ")})
	}
	return out
}

func (e *Engine) Citations(text string) []string {
	return trimAll(e.citations.FindAllString(text, -1))
}

func trimAll(matches []string) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m))
	}
	return out
}
