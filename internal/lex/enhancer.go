package lex

import "regexp"

// KindRecurring labels constraints derived from payment cadence words.
const KindRecurring = "recurring"

// Enhancer replaces and augments baseline fields using the pattern extractors.
// It holds only immutable state and may be shared between goroutines.
type Enhancer struct {
	policy     Policy
	facade     Facade
	lateFees   *regexp.Regexp
	summarizer *Summarizer
}

func NewEnhancer(p Policy, f Facade) *Enhancer {
	p = p.withDefaults()
	return &Enhancer{
		policy:     p,
		facade:     f,
		lateFees:   lateFeePattern(p.LateFeeWindowChars),
		summarizer: NewSummarizer(p),
	}
}

// Policy returns the policy the enhancer was built with.
func (e *Enhancer) Policy() Policy {
	return e.policy
}

// Enhance returns a new result; base is not modified. Running Enhance on its own
// output with the same text yields the same output.
func (e *Enhancer) Enhance(base AnalysisResult, text string) AnalysisResult {
	data := base.ExtractedData.Clone()

	data.PaymentTerms.Money = ExtractMoney(text)
	data.Duration = ExtractDurations(text)
	data.Parties = e.parties(data.Parties, text)

	for _, cadence := range ExtractCadences(text) {
		data.Constraints = appendConstraint(data.Constraints, Constraint{Kind: KindRecurring, Phrase: cadence})
	}

	data.LatePaymentPenalty = optional(extractLateFees(e.lateFees, text))
	data.PropertyAddress = optional(ExtractAddresses(text))
	data.Constraints = CleanConstraints(data.Constraints, e.policy.ConstraintContextMax)

	return AnalysisResult{
		ContractType:  base.ContractType,
		ExtractedData: data,
		Summary:       e.summarizer.Summarize(data, text),
	}
}

// parties keeps usable baseline names, falling back to entity extraction.
func (e *Enhancer) parties(baseline []string, text string) []string {
	var kept []string
	for _, p := range baseline {
		if !IsExcludedParty(p) {
			kept = append(kept, p)
		}
	}
	if len(kept) > 0 {
		return sortedSet(kept)
	}
	if e.facade == nil {
		return []string{}
	}
	return ExtractParties(e.facade, text, e.policy)
}
