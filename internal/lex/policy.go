package lex

import (
	"errors"
	"fmt"
)

// Default extraction policy values.
const (
	// PartyMinPersonWords is the fewest words a PERSON span may have to count as a party.
	PartyMinPersonWords = 2
	// PartyMinOrgWords is the fewest words an ORGANIZATION span may have.
	PartyMinOrgWords = 1
	// PartyMaxWords caps both PERSON and ORGANIZATION spans.
	PartyMaxWords = 4
	// LateFeeWindowChars bounds the gap between a late-fee label and its amount.
	LateFeeWindowChars = 60
	// ConstraintContextMax is the longest trailing context a constraint may keep.
	ConstraintContextMax = 150
	// DateKeywordWindow is how far before a date a start/end keyword may appear.
	DateKeywordWindow = 60

	// maxWindowChars is the largest repeat count RE2 accepts.
	maxWindowChars = 1000
)

// Policy collects the tunable bounds used by the Enhancer and Summarizer.
// Constructors treat a zero or negative field as its default and cap the
// character windows at 1000; Validate rejects such values outright.
type Policy struct {
	PartyMinPersonWords  int `json:"party_min_person_words" yaml:"party_min_person_words"`
	PartyMinOrgWords     int `json:"party_min_org_words" yaml:"party_min_org_words"`
	PartyMaxWords        int `json:"party_max_words" yaml:"party_max_words"`
	LateFeeWindowChars   int `json:"late_fee_window_chars" yaml:"late_fee_window_chars"`
	ConstraintContextMax int `json:"constraint_context_max" yaml:"constraint_context_max"`
	DateKeywordWindow    int `json:"date_keyword_window" yaml:"date_keyword_window"`
}

// DefaultPolicy returns the canonical policy.
func DefaultPolicy() Policy {
	return Policy{
		PartyMinPersonWords:  PartyMinPersonWords,
		PartyMinOrgWords:     PartyMinOrgWords,
		PartyMaxWords:        PartyMaxWords,
		LateFeeWindowChars:   LateFeeWindowChars,
		ConstraintContextMax: ConstraintContextMax,
		DateKeywordWindow:    DateKeywordWindow,
	}
}

// Validate reports the first inconsistent bound.
func (p Policy) Validate() error {
	if p.PartyMinPersonWords < 1 || p.PartyMinOrgWords < 1 {
		return errors.New("party minimum word counts must be at least 1")
	}
	if p.PartyMaxWords < p.PartyMinPersonWords || p.PartyMaxWords < p.PartyMinOrgWords {
		return fmt.Errorf("party max words (%d) is below a minimum", p.PartyMaxWords)
	}
	if p.LateFeeWindowChars <= 0 {
		return errors.New("late fee window must be positive")
	}
	if p.LateFeeWindowChars > maxWindowChars {
		return fmt.Errorf("late fee window %d exceeds %d", p.LateFeeWindowChars, maxWindowChars)
	}
	if p.ConstraintContextMax <= 0 {
		return errors.New("constraint context max must be positive")
	}
	if p.DateKeywordWindow < 1 || p.DateKeywordWindow > maxWindowChars {
		return fmt.Errorf("date keyword window %d out of range", p.DateKeywordWindow)
	}
	return nil
}

// withDefaults fills unset or negative fields from DefaultPolicy and caps the
// windows so the late-fee pattern always compiles.
func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	fill := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&p.PartyMinPersonWords, d.PartyMinPersonWords)
	fill(&p.PartyMinOrgWords, d.PartyMinOrgWords)
	fill(&p.PartyMaxWords, d.PartyMaxWords)
	fill(&p.LateFeeWindowChars, d.LateFeeWindowChars)
	fill(&p.ConstraintContextMax, d.ConstraintContextMax)
	fill(&p.DateKeywordWindow, d.DateKeywordWindow)
	p.LateFeeWindowChars = min(p.LateFeeWindowChars, maxWindowChars)
	p.DateKeywordWindow = min(p.DateKeywordWindow, maxWindowChars)
	return p
}
