package nlp

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ericksa/lexanalyzer/internal/lex"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}](?:[\p{L}\p{N}'&-]|\.[\p{L}\p{N}])*\.?`)

// stopwords never start or continue a name.
var stopwords = wordSet(
	"a", "an", "the", "this", "that", "these", "those", "it", "its", "he", "she", "they", "we",
	"in", "on", "at", "by", "for", "from", "to", "with", "upon", "within", "under",
	"if", "unless", "subject", "provided", "each", "any", "all", "no", "such", "said",
	"whereas", "now", "therefore", "notwithstanding",
	"lease", "agreement", "contract", "deed", "bill", "sale", "rent", "rental",
	"tenant", "landlord", "lessor", "lessee", "buyer", "seller", "party", "parties",
	"property", "premises", "section", "article", "schedule", "exhibit",
)

var orgSuffixes = wordSet(
	"corp", "corporation", "inc", "incorporated", "llc", "llp", "ltd", "limited", "co", "company",
	"bank", "group", "holdings", "partners", "association", "trust", "foundation",
)

var streetSuffixes = wordSet(
	"street", "st", "avenue", "ave", "road", "rd", "lane", "ln", "drive", "dr", "boulevard", "blvd",
)

var calendarWords = wordSet(
	"january", "february", "march", "april", "may", "june", "july", "august",
	"september", "october", "november", "december",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
)

// abbreviations end in a period without ending the sentence.
var abbreviations = wordSet("mr", "mrs", "ms", "dr", "jr", "sr", "st")

// connectors may join capitalized words inside one name.
var connectors = wordSet("of")

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

type token struct {
	text       string
	start, end int
}

// Entities groups runs of capitalized tokens and labels each run by its words.
func (e *Engine) Entities(text string) []lex.Entity {
	out := []lex.Entity{}
	var run []token
	flush := func() {
		for len(run) > 0 && connectors[strings.ToLower(run[len(run)-1].text)] {
			run = run[:len(run)-1]
		}
		if len(run) > 0 {
			out = append(out, labelRun(text, run))
		}
		run = nil
	}

	prevEnd := 0
	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		tok := token{text: text[loc[0]:loc[1]], start: loc[0], end: loc[1]}
		if len(run) > 0 && !blankGap(text[prevEnd:tok.start]) {
			flush()
		}
		prevEnd = tok.end

		bare := strings.TrimSuffix(tok.text, ".")
		folded := strings.ToLower(bare)
		switch {
		case stopwords[folded]:
			flush()
			continue
		case connectors[folded] && len(run) > 0:
			run = append(run, tok)
			continue
		case !capitalized(bare):
			flush()
			continue
		}

		run = append(run, tok)
		if strings.HasSuffix(tok.text, ".") && !isInitial(bare) && !abbreviations[folded] {
			flush()
		}
	}
	flush()
	return out
}

func labelRun(text string, run []token) lex.Entity {
	span := strings.TrimSuffix(text[run[0].start:run[len(run)-1].end], ".")
	if last := run[len(run)-1]; isInitial(strings.TrimSuffix(last.text, ".")) {
		span = text[run[0].start:last.end]
	}
	span = strings.Join(strings.Fields(span), " ")

	lastWord := strings.ToLower(strings.TrimSuffix(run[len(run)-1].text, "."))
	label := lex.LabelMisc
	switch {
	case orgSuffixes[lastWord] || anyIn(run[:1], orgSuffixes) && len(run) > 1:
		label = lex.LabelOrganization
	case streetSuffixes[lastWord]:
		label = lex.LabelLocation
	case anyIn(run, calendarWords):
		label = lex.LabelDate
	case len(run) >= 2:
		label = lex.LabelPerson
	}
	return lex.Entity{Text: span, Label: label}
}

func anyIn(run []token, set map[string]bool) bool {
	for _, t := range run {
		if set[strings.ToLower(strings.TrimSuffix(t.text, "."))] {
			return true
		}
	}
	return false
}

// blankGap reports whether only spaces, tabs or an ampersand separate two tokens.
func blankGap(gap string) bool {
	return strings.Trim(gap, " \t&") == ""
}

func capitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func isInitial(s string) bool {
	return utf8.RuneCountInString(s) == 1 && capitalized(s)
}
