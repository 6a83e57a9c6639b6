// Package lex turns contract text into a normalized record and a one-sentence summary.
//
// The pipeline classifies the document, builds a baseline record from a Facade,
// then enhances it with dedicated pattern extractors:
//
//	text -> Classify -> contract type
//	text -> Baseline(facade) -> Enhancer -> ExtractedData + summary
package lex

import "sync/atomic"

// Baseline builds the unenhanced record straight from the facade. Defined terms
// stand in for parties until the Enhancer revisits them.
func Baseline(f Facade, text string) ExtractedData {
	return ExtractedData{
		Parties: dedupe(f.Definitions(text)),
		PaymentTerms: PaymentTerms{
			Money:    cloneStrings(f.Money(text)),
			Percents: cloneStrings(f.Percents(text)),
		},
		Duration:    cloneStrings(f.Durations(text)),
		Dates:       cloneStrings(f.Dates(text)),
		Definitions: cloneStrings(f.Definitions(text)),
		Conditions:  cloneStrings(f.Conditions(text)),
		Constraints: ConstraintsFromTuples(f.Constraints(text)),
		Citations:   cloneStrings(f.Citations(text)),
	}
}

// Analyzer runs the full pipeline. It is safe for concurrent use when its Facade is.
type Analyzer struct {
	facade   Facade
	enhancer atomic.Pointer[Enhancer]
}

func NewAnalyzer(f Facade, p Policy) *Analyzer {
	a := &Analyzer{facade: f}
	a.enhancer.Store(NewEnhancer(p, f))
	return a
}

// SetPolicy swaps in a new policy. Calls already in flight finish with the old one.
func (a *Analyzer) SetPolicy(p Policy) {
	a.enhancer.Store(NewEnhancer(p, a.facade))
}

// Analyze returns a fresh result for text. Empty text is valid and yields empty fields.
func (a *Analyzer) Analyze(text string) AnalysisResult {
	base := AnalysisResult{
		ContractType:  Classify(text),
		ExtractedData: Baseline(a.facade, text),
	}
	return a.enhancer.Load().Enhance(base, text)
}

// Summarize is a shortcut returning only the summary sentence.
func (a *Analyzer) Summarize(text string) string {
	return a.Analyze(text).Summary
}

// Enhancer exposes the current enhancer.
func (a *Analyzer) Enhancer() *Enhancer {
	return a.enhancer.Load()
}
