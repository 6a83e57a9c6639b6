package lex

import (
	"slices"
	"strings"
)

// rolePlaceholders are generic party roles, never names.
var rolePlaceholders = map[string]bool{
	"buyer":  true,
	"seller": true,
	"lessor": true,
	"lessee": true,
}

// documentSuffixes mark spans that name the document rather than a party.
var documentSuffixes = []string{"contract", "agreement", "lease", "deed"}

// IsExcludedParty reports whether name is a role placeholder or a document title.
func IsExcludedParty(name string) bool {
	folded := strings.ToLower(strings.TrimSpace(name))
	if folded == "" || rolePlaceholders[folded] {
		return true
	}
	words := strings.Fields(folded)
	last := strings.Trim(words[len(words)-1], trailingPunct)
	return slices.Contains(documentSuffixes, last)
}

// ExtractParties filters the facade's PERSON and ORGANIZATION entities down to
// contract parties. The result is sorted and free of duplicates.
func ExtractParties(f Facade, text string, p Policy) []string {
	p = p.withDefaults()
	var names []string
	for _, ent := range f.Entities(text) {
		name := strings.TrimSpace(ent.Text)
		if IsExcludedParty(name) {
			continue
		}
		n := len(strings.Fields(name))
		switch normalizeLabel(ent.Label) {
		case LabelPerson:
			if n < p.PartyMinPersonWords || n > p.PartyMaxWords {
				continue
			}
		case LabelOrganization:
			if n < p.PartyMinOrgWords || n > p.PartyMaxWords {
				continue
			}
		default:
			continue
		}
		names = append(names, name)
	}
	return sortedSet(names)
}

func normalizeLabel(label string) string {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == LabelOrg {
		return LabelOrganization
	}
	return label
}

// sortedSet dedupes and sorts; never nil.
func sortedSet(items []string) []string {
	out := dedupe(items)
	slices.Sort(out)
	return out
}
